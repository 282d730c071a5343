package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// RandomMap is the defaultMap value that selects procedural generation.
const RandomMap = "random"

// MinRandomMapSize is the smallest width or height GenerateRandom accepts.
// The player spawn sits at (2,2) and the win tile at (w-3,h-3).
const MinRandomMapSize = 5

// ErrInvalidSettings is wrapped by Validate failures.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is one complete configuration snapshot.
type Settings struct {
	Map    MapSettings    `json:"mapSettings" yaml:"mapSettings"`
	Player PlayerSettings `json:"playerSettings" yaml:"playerSettings"`
	Enemy  EnemySettings  `json:"enemySettings" yaml:"enemySettings"`
	Combat CombatSettings `json:"combatSettings" yaml:"combatSettings"`
	UI     UISettings     `json:"uiSettings" yaml:"uiSettings"`
	Tiles  TileSettings   `json:"tileSettings" yaml:"tileSettings"`
}

type MapSettings struct {
	DefaultMap string  `json:"defaultMap" yaml:"defaultMap"`
	Width      int     `json:"defaultMapWidth" yaml:"defaultMapWidth"`
	Height     int     `json:"defaultMapHeight" yaml:"defaultMapHeight"`
	TileSize   float64 `json:"tileSize" yaml:"tileSize"`
	CenterX    float64 `json:"mapCenterX" yaml:"mapCenterX"`
	CenterY    float64 `json:"mapCenterY" yaml:"mapCenterY"`
	CenterZ    float64 `json:"mapCenterZ" yaml:"mapCenterZ"`
}

// IsRandom reports whether the map source is the procedural generator.
func (m MapSettings) IsRandom() bool {
	return strings.EqualFold(strings.TrimSpace(m.DefaultMap), RandomMap)
}

type PlayerSettings struct {
	MaxHealth int `json:"maxHealth" yaml:"maxHealth"`
	Damage    int `json:"playerDamage" yaml:"playerDamage"`
}

type EnemySettings struct {
	MaxHealth int `json:"maxHealth" yaml:"maxHealth"`
	Damage    int `json:"enemyDamage" yaml:"enemyDamage"`
	// MoveSpeed only paces enemy animation in a presentation layer.
	MoveSpeed float64 `json:"moveSpeed" yaml:"moveSpeed"`
}

type CombatSettings struct {
	// TurnDelay is in seconds.
	TurnDelay            float64 `json:"turnDelay" yaml:"turnDelay"`
	AllowDiagonalAttacks bool    `json:"allowDiagonalAttacks" yaml:"allowDiagonalAttacks"`
	WallCollisionEnabled bool    `json:"wallCollisionEnabled" yaml:"wallCollisionEnabled"`
}

// UISettings carries display strings. The simulation never reads them.
type UISettings struct {
	HealthTextPrefix      string `json:"healthTextPrefix" yaml:"healthTextPrefix"`
	EnemyHealthTextPrefix string `json:"enemyHealthTextPrefix" yaml:"enemyHealthTextPrefix"`
	GameOverText          string `json:"gameOverText" yaml:"gameOverText"`
	LevelCompleteText     string `json:"levelCompleteText" yaml:"levelCompleteText"`
}

// TileSettings maps single characters in text maps to tile kinds.
type TileSettings struct {
	Wall   string `json:"wallCharacter" yaml:"wallCharacter"`
	Door   string `json:"doorCharacter" yaml:"doorCharacter"`
	Chest  string `json:"chestCharacter" yaml:"chestCharacter"`
	Enemy  string `json:"enemyCharacter" yaml:"enemyCharacter"`
	Player string `json:"playerCharacter" yaml:"playerCharacter"`
	Empty  string `json:"emptyCharacter" yaml:"emptyCharacter"`
	Win    string `json:"winCharacter" yaml:"winCharacter"`
}

// Default returns the built-in snapshot used when no settings file can be read.
func Default() *Settings {
	return &Settings{
		Map: MapSettings{
			DefaultMap: "map1",
			Width:      17,
			Height:     8,
			TileSize:   0.08,
		},
		Player: PlayerSettings{MaxHealth: 50, Damage: 10},
		Enemy:  EnemySettings{MaxHealth: 30, Damage: 5, MoveSpeed: 0.8},
		Combat: CombatSettings{
			TurnDelay:            0.2,
			AllowDiagonalAttacks: true,
			WallCollisionEnabled: true,
		},
		UI: UISettings{
			HealthTextPrefix:      "Player HP: ",
			EnemyHealthTextPrefix: "Enemy HP: ",
			GameOverText:          "Game Over!",
			LevelCompleteText:     "Level Complete!",
		},
		Tiles: TileSettings{
			Wall:   "#",
			Door:   "O",
			Chest:  "*",
			Enemy:  "@",
			Player: "$",
			Empty:  " ",
			Win:    "%",
		},
	}
}

// Clone returns a deep copy. Settings holds no reference types, so a value
// copy is enough.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}

// Validate checks every invariant the simulation relies on.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Map.DefaultMap) == "" {
		return fmt.Errorf("%w: mapSettings.defaultMap is required", ErrInvalidSettings)
	}
	if s.Map.IsRandom() && (s.Map.Width < MinRandomMapSize || s.Map.Height < MinRandomMapSize) {
		return fmt.Errorf("%w: random map must be at least %dx%d, got %dx%d",
			ErrInvalidSettings, MinRandomMapSize, MinRandomMapSize, s.Map.Width, s.Map.Height)
	}
	if s.Map.TileSize <= 0 {
		return fmt.Errorf("%w: mapSettings.tileSize must be positive, got %g", ErrInvalidSettings, s.Map.TileSize)
	}
	if s.Player.MaxHealth <= 0 {
		return fmt.Errorf("%w: playerSettings.maxHealth must be positive, got %d", ErrInvalidSettings, s.Player.MaxHealth)
	}
	if s.Enemy.MaxHealth <= 0 {
		return fmt.Errorf("%w: enemySettings.maxHealth must be positive, got %d", ErrInvalidSettings, s.Enemy.MaxHealth)
	}
	if s.Player.Damage < 0 || s.Enemy.Damage < 0 {
		return fmt.Errorf("%w: damage must not be negative", ErrInvalidSettings)
	}
	if s.Combat.TurnDelay < 0 {
		return fmt.Errorf("%w: combatSettings.turnDelay must not be negative", ErrInvalidSettings)
	}

	seen := make(map[string]string, 7)
	for _, tc := range []struct{ field, char string }{
		{"wallCharacter", s.Tiles.Wall},
		{"doorCharacter", s.Tiles.Door},
		{"chestCharacter", s.Tiles.Chest},
		{"enemyCharacter", s.Tiles.Enemy},
		{"playerCharacter", s.Tiles.Player},
		{"emptyCharacter", s.Tiles.Empty},
		{"winCharacter", s.Tiles.Win},
	} {
		if utf8.RuneCountInString(tc.char) != 1 {
			return fmt.Errorf("%w: tileSettings.%s must be a single character, got %q", ErrInvalidSettings, tc.field, tc.char)
		}
		if prev, dup := seen[tc.char]; dup {
			return fmt.Errorf("%w: tileSettings.%s reuses %q from %s", ErrInvalidSettings, tc.field, tc.char, prev)
		}
		seen[tc.char] = tc.field
	}
	return nil
}
