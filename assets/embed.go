// Package assets bundles the default settings and text maps, and picks
// between them and files on disk.
package assets

import (
	"embed"
	"os"

	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/gamemap"
)

// Maps holds the bundled text maps under maps/.
//
//go:embed maps/*.txt
var Maps embed.FS

// MapDir is the directory inside Maps that holds the .txt files.
const MapDir = "maps"

// Settings is the bundled game_settings.json.
//
//go:embed game_settings.json
var Settings []byte

// SettingsLoader reads the settings file at path on every reload, or the
// bundled settings when path is empty.
func SettingsLoader(path string) config.Loader {
	if path == "" {
		return config.BytesLoader(Settings, config.FormatJSON)
	}
	return config.FileLoader(path)
}

// MapStore serves maps from dir, or the bundled maps when dir is empty.
func MapStore(dir string) *gamemap.Store {
	if dir == "" {
		return gamemap.NewStore(Maps, MapDir)
	}
	return gamemap.NewStore(os.DirFS(dir), ".")
}
