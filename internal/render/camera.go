package render

import "dungeon-crawler/internal/gamemap"

// Camera translates between map cells and screen coordinates.
// Cell X is multiplied by 2 because emoji occupy 2 terminal columns.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera centred on c.
func NewCamera(c gamemap.Coord, viewW, viewH int) *Camera {
	cam := &Camera{ViewWidth: viewW, ViewHeight: viewH}
	cam.Center(c)
	return cam
}

// Center repositions the camera so that cell c is in the middle.
func (c *Camera) Center(at gamemap.Coord) {
	// ViewWidth is in columns; each cell is 2 columns wide.
	c.OffsetX = at.X - (c.ViewWidth/2)/2
	c.OffsetY = at.Y - c.ViewHeight/2
}

// Follow centres on the whole map when it fits in the view and on target
// otherwise.
func (c *Camera) Follow(target gamemap.Coord, m *gamemap.GameMap) {
	at := target
	if m.Width*2 <= c.ViewWidth {
		at.X = m.Origin.X + m.Width/2
	}
	if m.Height <= c.ViewHeight {
		at.Y = m.Origin.Y + m.Height/2
	}
	c.Center(at)
}

// WorldToScreen converts cell c to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(at gamemap.Coord) (sx, sy int, visible bool) {
	sx = (at.X - c.OffsetX) * 2
	sy = at.Y - c.OffsetY
	visible = sx >= 0 && sx+1 < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

// ScreenToWorld converts screen (sx, sy) to a cell.
func (c *Camera) ScreenToWorld(sx, sy int) gamemap.Coord {
	return gamemap.Coord{X: sx/2 + c.OffsetX, Y: sy + c.OffsetY}
}
