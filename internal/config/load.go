package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigLoad marks a settings source that could not be used. Callers
// still receive the default snapshot alongside it.
var ErrConfigLoad = errors.New("settings load failed")

// Format selects the settings decoder.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks a decoder from the file extension; JSON is the default.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Loader produces a fresh settings snapshot. Implementations always return
// a usable snapshot; a non-nil error means it is the fallback.
type Loader interface {
	Load() (*Settings, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func() (*Settings, error)

func (f LoaderFunc) Load() (*Settings, error) { return f() }

// FileLoader reads the settings file at path on every Load.
func FileLoader(path string) Loader {
	return LoaderFunc(func() (*Settings, error) { return LoadFile(path) })
}

// BytesLoader decodes a fixed document, e.g. an embedded default file.
func BytesLoader(data []byte, f Format) Loader {
	return LoaderFunc(func() (*Settings, error) { return LoadBytes(data, f) })
}

// LoadFile reads and validates the settings file at path.
// On any failure it returns Default() and an error wrapping ErrConfigLoad.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("%w: read %s: %w", ErrConfigLoad, path, err)
	}
	s, err := LoadBytes(data, FormatForPath(path))
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadBytes decodes and validates one settings document.
// On any failure it returns Default() and an error wrapping ErrConfigLoad.
func LoadBytes(data []byte, f Format) (*Settings, error) {
	s, err := decode(data, f)
	if err != nil {
		return Default(), fmt.Errorf("%w: decode: %w", ErrConfigLoad, err)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("%w: %w", ErrConfigLoad, err)
	}
	return s, nil
}

// decode fills a snapshot seeded with defaults, so a document may omit
// whole sections. The top-level "gameSettings" wrapper is optional.
func decode(data []byte, f Format) (*Settings, error) {
	s := Default()
	switch f {
	case FormatYAML:
		var wrapper struct {
			GameSettings yaml.Node `yaml:"gameSettings"`
		}
		if err := yaml.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		if wrapper.GameSettings.Kind != 0 {
			if err := wrapper.GameSettings.Decode(s); err != nil {
				return nil, err
			}
			return s, nil
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, err
		}
	default:
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		if inner, ok := wrapper["gameSettings"]; ok {
			data = inner
		}
		if err := json.Unmarshal(data, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
