package gamemap

// TileKind identifies the type of a map cell.
type TileKind uint8

const (
	TileEmpty TileKind = iota
	TileWall
	TileDoor
	TileChest
	TileWin
	TileActor // occupied by a live actor
)

var tileNames = [...]string{
	TileEmpty: "empty",
	TileWall:  "wall",
	TileDoor:  "door",
	TileChest: "chest",
	TileWin:   "win",
	TileActor: "actor",
}

func (k TileKind) String() string {
	if int(k) < len(tileNames) {
		return tileNames[k]
	}
	return "unknown"
}

// Coord is an integer cell address. Y grows downward: text map rows are
// read top to bottom as increasing Y.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord { return Coord{c.X + d.X, c.Y + d.Y} }

// Sub returns the offset from o to c.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y} }

// Vec2 is a world-space position.
type Vec2 struct {
	X, Y float64
}
