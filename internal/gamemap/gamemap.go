package gamemap

import "math"

// GameMap holds the tile grid for one level. Cells are sparse: any cell
// without an entry is empty. Actor occupancy is tracked next to the tiles
// so that an occupied cell always names exactly one actor.
type GameMap struct {
	Width, Height int
	Origin        Coord   // cell of the top-left corner of the map rectangle
	TileSize      float64 // world units per cell

	tiles     map[Coord]TileKind
	occupants map[Coord]uint64
}

// New creates an empty map covering width×height cells starting at origin.
func New(width, height int, origin Coord, tileSize float64) *GameMap {
	if tileSize <= 0 {
		tileSize = 1
	}
	return &GameMap{
		Width:     width,
		Height:    height,
		Origin:    origin,
		TileSize:  tileSize,
		tiles:     make(map[Coord]TileKind),
		occupants: make(map[Coord]uint64),
	}
}

// InBounds reports whether c lies inside the map rectangle.
func (m *GameMap) InBounds(c Coord) bool {
	return c.X >= m.Origin.X && c.X < m.Origin.X+m.Width &&
		c.Y >= m.Origin.Y && c.Y < m.Origin.Y+m.Height
}

// TileAt returns the kind of c. Occupied cells report TileActor.
func (m *GameMap) TileAt(c Coord) TileKind {
	if _, ok := m.occupants[c]; ok {
		return TileActor
	}
	return m.tiles[c]
}

// SetTile writes a static tile. TileEmpty deletes the entry; TileActor is
// not a static kind and is ignored, use Occupy instead.
func (m *GameMap) SetTile(c Coord, k TileKind) {
	switch k {
	case TileEmpty:
		delete(m.tiles, c)
	case TileActor:
	default:
		m.tiles[c] = k
	}
}

// Occupy marks c as holding actor id.
func (m *GameMap) Occupy(c Coord, id uint64) {
	m.occupants[c] = id
}

// Vacate clears actor occupancy at c.
func (m *GameMap) Vacate(c Coord) {
	delete(m.occupants, c)
}

// OccupantAt returns the actor standing on c.
func (m *GameMap) OccupantAt(c Coord) (uint64, bool) {
	id, ok := m.occupants[c]
	return id, ok
}

// Relocate moves the occupant of from to to. The destination must be free.
func (m *GameMap) Relocate(from, to Coord) bool {
	id, ok := m.occupants[from]
	if !ok {
		return false
	}
	if _, taken := m.occupants[to]; taken {
		return false
	}
	delete(m.occupants, from)
	m.occupants[to] = id
	return true
}

// IsWalkable returns true when c is inside the map and neither holds a
// blocking tile nor an actor. Win tiles are not walkable: reaching one is a
// terminal signal handled by the mover.
func (m *GameMap) IsWalkable(c Coord) bool {
	if !m.InBounds(c) {
		return false
	}
	return m.TileAt(c) == TileEmpty
}

// LineOfSightBlocked reports whether a wall lies strictly between a and b.
// Only pure horizontal or vertical pairs can be blocked; any other pair is
// reported as unobstructed.
func (m *GameMap) LineOfSightBlocked(a, b Coord) bool {
	d := b.Sub(a)
	if d.X != 0 && d.Y != 0 {
		return false
	}
	step := Coord{Sign(d.X), Sign(d.Y)}
	if step == (Coord{}) {
		return false
	}
	for cur := a.Add(step); cur != b; cur = cur.Add(step) {
		if m.tiles[cur] == TileWall {
			return true
		}
	}
	return false
}

// CellToWorld returns the world-space anchor of c.
func (m *GameMap) CellToWorld(c Coord) Vec2 {
	return Vec2{X: float64(c.X) * m.TileSize, Y: float64(c.Y) * m.TileSize}
}

// WorldToCell returns the cell whose anchor is nearest to p.
func (m *GameMap) WorldToCell(p Vec2) Coord {
	return Coord{
		X: int(math.Round(p.X / m.TileSize)),
		Y: int(math.Round(p.Y / m.TileSize)),
	}
}

// LocalToCell converts a row/column offset inside the map to a cell.
func (m *GameMap) LocalToCell(col, row int) Coord {
	return Coord{m.Origin.X + col, m.Origin.Y + row}
}

// CellToLocal converts a cell to its column/row inside the map.
func (m *GameMap) CellToLocal(c Coord) (col, row int) {
	return c.X - m.Origin.X, c.Y - m.Origin.Y
}

// OriginFor centres a width×height map on the given world-cell centre.
func OriginFor(width, height int, centerX, centerY float64) Coord {
	return Coord{
		X: int(math.Round(centerX)) - width/2,
		Y: int(math.Round(centerY)) - height/2,
	}
}

// Sign returns -1, 0 or 1 following the sign of v.
func Sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
