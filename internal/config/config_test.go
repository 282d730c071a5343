package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestValidateIgnoresSizeForTextMaps(t *testing.T) {
	s := Default()
	s.Map.DefaultMap = "map1"
	s.Map.Width, s.Map.Height = 0, 3
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v; the size only applies to random maps", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"empty map name", func(s *Settings) { s.Map.DefaultMap = " " }},
		{"tiny random map", func(s *Settings) {
			s.Map.DefaultMap = RandomMap
			s.Map.Width = 4
		}},
		{"zero tile size", func(s *Settings) { s.Map.TileSize = 0 }},
		{"zero player hp", func(s *Settings) { s.Player.MaxHealth = 0 }},
		{"negative enemy hp", func(s *Settings) { s.Enemy.MaxHealth = -3 }},
		{"negative damage", func(s *Settings) { s.Enemy.Damage = -1 }},
		{"negative turn delay", func(s *Settings) { s.Combat.TurnDelay = -0.1 }},
		{"two character wall", func(s *Settings) { s.Tiles.Wall = "##" }},
		{"missing win char", func(s *Settings) { s.Tiles.Win = "" }},
		{"duplicate chars", func(s *Settings) { s.Tiles.Door = s.Tiles.Wall }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("Validate() = %v; want ErrInvalidSettings", err)
			}
		})
	}
}

func TestLoadFileWrappedJSON(t *testing.T) {
	path := writeFile(t, "game_settings.json", `{
  "gameSettings": {
    "mapSettings": {"defaultMap": "Random", "defaultMapWidth": 12, "defaultMapHeight": 9, "tileSize": 1},
    "playerSettings": {"maxHealth": 80, "playerDamage": 7},
    "combatSettings": {"turnDelay": 0.5, "allowDiagonalAttacks": false, "wallCollisionEnabled": true}
  }
}`)
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !s.Map.IsRandom() {
		t.Errorf("defaultMap %q should select the generator", s.Map.DefaultMap)
	}
	if s.Map.Width != 12 || s.Map.Height != 9 {
		t.Errorf("map size = %dx%d; want 12x9", s.Map.Width, s.Map.Height)
	}
	if s.Player.MaxHealth != 80 || s.Player.Damage != 7 {
		t.Errorf("player = %+v", s.Player)
	}
	if s.Combat.AllowDiagonalAttacks {
		t.Error("allowDiagonalAttacks should be false")
	}
	// Omitted sections keep their defaults.
	if s.Enemy != Default().Enemy {
		t.Errorf("enemy = %+v; want defaults", s.Enemy)
	}
}

func TestLoadFileBareJSON(t *testing.T) {
	path := writeFile(t, "settings.json", `{"enemySettings": {"maxHealth": 12, "enemyDamage": 3, "moveSpeed": 1.5}}`)
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.Enemy.MaxHealth != 12 || s.Enemy.Damage != 3 {
		t.Errorf("enemy = %+v", s.Enemy)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
gameSettings:
  playerSettings:
    maxHealth: 90
    playerDamage: 4
  tileSettings:
    wallCharacter: "X"
    doorCharacter: "D"
    chestCharacter: "C"
    enemyCharacter: "E"
    playerCharacter: "P"
    emptyCharacter: "."
    winCharacter: "W"
`)
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.Player.MaxHealth != 90 {
		t.Errorf("player maxHealth = %d; want 90", s.Player.MaxHealth)
	}
	if s.Tiles.Wall != "X" || s.Tiles.Empty != "." {
		t.Errorf("tiles = %+v", s.Tiles)
	}
}

func TestLoadFileFallsBackToDefaults(t *testing.T) {
	cases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"malformed json", func(t *testing.T) string { return writeFile(t, "bad.json", `{"mapSettings": `) }},
		{"invalid values", func(t *testing.T) string {
			return writeFile(t, "bad.json", `{"playerSettings": {"maxHealth": 0, "playerDamage": 1}}`)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := LoadFile(tc.path(t))
			if !errors.Is(err, ErrConfigLoad) {
				t.Fatalf("err = %v; want ErrConfigLoad", err)
			}
			if s == nil || *s != *Default() {
				t.Fatalf("fallback snapshot = %+v; want defaults", s)
			}
		})
	}
}

func TestStoreSwapNotifiesInOrder(t *testing.T) {
	st := NewStore(LoaderFunc(func() (*Settings, error) { return Default(), nil }), nil)
	var calls []string
	st.Subscribe(func(old, cur *Settings) { calls = append(calls, "first") })
	cancel := st.Subscribe(func(old, cur *Settings) { calls = append(calls, "second") })
	st.Subscribe(func(old, cur *Settings) {
		calls = append(calls, "third")
		if old.Player.MaxHealth != 50 || cur.Player.MaxHealth != 99 {
			t.Errorf("listener saw old=%d new=%d", old.Player.MaxHealth, cur.Player.MaxHealth)
		}
	})

	next := Default()
	next.Player.MaxHealth = 99
	st.Swap(next)
	if len(calls) != 3 || calls[0] != "first" || calls[1] != "second" || calls[2] != "third" {
		t.Fatalf("calls = %v", calls)
	}
	if st.Current() != next {
		t.Fatal("Current should return the swapped snapshot")
	}

	cancel()
	calls = nil
	st.Swap(Default())
	if len(calls) != 2 {
		t.Fatalf("cancelled listener still called: %v", calls)
	}
}

func TestStoreReloadUsesLoader(t *testing.T) {
	hp := 40
	st := NewStore(LoaderFunc(func() (*Settings, error) {
		s := Default()
		s.Player.MaxHealth = hp
		return s, nil
	}), nil)
	if st.Current().Player.MaxHealth != 40 {
		t.Fatalf("initial hp = %d", st.Current().Player.MaxHealth)
	}
	hp = 70
	notified := false
	st.Subscribe(func(_, cur *Settings) { notified = cur.Player.MaxHealth == 70 })
	st.Reload()
	if !notified {
		t.Fatal("reload should notify with the new snapshot")
	}
}

func TestStoreFallbackOnLoaderError(t *testing.T) {
	st := NewStore(FileLoader(filepath.Join(t.TempDir(), "missing.json")), nil)
	if *st.Current() != *Default() {
		t.Fatal("store should hold defaults when the file is missing")
	}
}
