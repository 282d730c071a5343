package render

import (
	"dungeon-crawler/internal/game"
	"dungeon-crawler/internal/gamemap"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the number of screen rows reserved below the map.
const hudRows = 5

var (
	baseStyle = tcell.StyleDefault.Background(tcell.ColorBlack)
	hurtStyle = tcell.StyleDefault.Background(tcell.ColorDarkRed)
)

// Renderer draws a game onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
	theme  Theme
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen, theme Theme) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(gamemap.Coord{}, w, max(h-hudRows, 1)),
		theme:  theme,
	}
}

// Camera exposes the camera, mainly for tests.
func (r *Renderer) Camera() *Camera { return r.camera }

// DrawFrame renders the level, its actors and the HUD, then shows the
// screen. v must come from game.Inspect.
func (r *Renderer) DrawFrame(v game.View, messages []string) {
	r.screen.Clear()
	w, h := r.screen.Size()
	r.camera.ViewWidth, r.camera.ViewHeight = w, max(h-hudRows, 1)

	if v.World != nil {
		if p := v.World.Actors.Player(); p != nil {
			r.camera.Follow(p.Pos, v.World.Map)
		}
		r.drawMap(v.World.Map)
		r.drawActors(v)
	}
	r.drawHUD(v, messages)
	r.screen.Show()
}

// drawMap renders every in-bounds static tile.
func (r *Renderer) drawMap(m *gamemap.GameMap) {
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			c := m.LocalToCell(col, row)
			sx, sy, onScreen := r.camera.WorldToScreen(c)
			if !onScreen {
				continue
			}
			k := m.TileAt(c)
			if k == gamemap.TileActor {
				k = gamemap.TileEmpty
			}
			r.putGlyph(sx, sy, r.theme.Tile(k), baseStyle)
		}
	}
}

// drawActors renders enemies first and the player last so it is never
// hidden.
func (r *Renderer) drawActors(v game.View) {
	for _, e := range v.World.Actors.Enemies() {
		r.drawActor(e.Pos, r.theme.Enemy, e.Health.RecentlyDamaged)
	}
	p := v.World.Actors.Player()
	if p == nil {
		return
	}
	glyph := r.theme.Player
	if v.Turn == game.TurnGameOver {
		glyph = r.theme.Dead
	}
	r.drawActor(p.Pos, glyph, p.Health.RecentlyDamaged)
}

func (r *Renderer) drawActor(at gamemap.Coord, glyph string, hurt bool) {
	sx, sy, onScreen := r.camera.WorldToScreen(at)
	if !onScreen {
		return
	}
	style := baseStyle
	if hurt {
		style = hurtStyle
	}
	r.putGlyph(sx, sy, glyph, style)
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) < 2 {
		// Narrow glyphs still own two columns per cell.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
