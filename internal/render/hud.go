package render

import (
	"fmt"
	"strings"

	"dungeon-crawler/internal/game"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawHUD renders the status line, the message log and, when the level is
// over, a banner across the map area.
func (r *Renderer) drawHUD(v game.View, messages []string) {
	screenW, screenH := r.screen.Size()
	hudY := screenH - hudRows

	r.drawHLine(hudY, tcell.ColorGray)
	r.drawText(0, hudY+1, statusLine(v), tcell.StyleDefault.Foreground(tcell.ColorWhite))

	// Message log (last 3 messages).
	start := max(len(messages)-3, 0)
	for i, msg := range messages[start:] {
		r.drawText(0, hudY+2+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}

	if v.Settings == nil {
		return
	}
	var banner string
	var color tcell.Color
	switch v.Turn {
	case game.TurnGameOver:
		banner, color = v.Settings.UI.GameOverText, tcell.ColorRed
	case game.TurnLevelComplete:
		banner, color = v.Settings.UI.LevelCompleteText, tcell.ColorLime
	default:
		return
	}
	midY := max(hudY/2, 0)
	style := tcell.StyleDefault.Foreground(color).Background(tcell.ColorBlack).Bold(true)
	r.drawText((screenW-runewidth.StringWidth(banner))/2, midY, banner, style)
	hint := "r restart   > next level   q quit"
	r.drawText((screenW-len(hint))/2, midY+1, hint, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// statusLine formats the player's health, the enemy the player would hit
// next and the level summary.
func statusLine(v game.View) string {
	if v.World == nil || v.Settings == nil {
		return "No level loaded"
	}
	ui := v.Settings.UI
	var b strings.Builder
	p := v.World.Actors.Player()
	if p != nil {
		fmt.Fprintf(&b, "%s%d/%d", ui.HealthTextPrefix, p.Health.Current, p.Health.Max)
		for _, e := range v.World.Actors.Enemies() {
			if v.World.CanAttack(p, e) {
				fmt.Fprintf(&b, "  %s%d/%d", ui.EnemyHealthTextPrefix, e.Health.Current, e.Health.Max)
				break
			}
		}
	}
	fmt.Fprintf(&b, "  Map: %s  Enemies: %d", v.Map, v.World.Actors.EnemyCount())
	return b.String()
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := max(x, 0)
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
}
