package render

import (
	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/gamemap"
)

// Theme holds the glyphs used to draw a level. Emoji are rendered by the
// terminal with their own colours, so a recent hit is shown with a
// background tint instead of a different glyph.
type Theme struct {
	Wall   string
	Door   string
	Chest  string
	Win    string
	Empty  string
	Player string
	Enemy  string
	Dead   string // the player after game over
}

// EmojiTheme is the default look.
var EmojiTheme = Theme{
	Wall:   "🧱",
	Door:   "🚪",
	Chest:  "🧰",
	Win:    "🏁",
	Empty:  "⬛",
	Player: "🧙",
	Enemy:  "👹",
	Dead:   "💀",
}

// CharTheme draws the level with the same characters the text maps use,
// for terminals without emoji fonts.
func CharTheme(t config.TileSettings) Theme {
	return Theme{
		Wall:   t.Wall,
		Door:   t.Door,
		Chest:  t.Chest,
		Win:    t.Win,
		Empty:  ".",
		Player: t.Player,
		Enemy:  t.Enemy,
		Dead:   "x",
	}
}

// Tile returns the glyph for a static tile kind.
func (t Theme) Tile(k gamemap.TileKind) string {
	switch k {
	case gamemap.TileWall:
		return t.Wall
	case gamemap.TileDoor:
		return t.Door
	case gamemap.TileChest:
		return t.Chest
	case gamemap.TileWin:
		return t.Win
	}
	return t.Empty
}
