package actor

import "dungeon-crawler/internal/gamemap"

// ID uniquely identifies an actor within one Registry. IDs grow with spawn
// order and are never reused.
type ID uint64

// NilID is the zero value; no live actor has it.
const NilID ID = 0

// Kind separates the single player from the enemies.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
)

func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "enemy"
}

// Actor is one combatant on the grid. Pos must always equal the cell the
// actor occupies on the current GameMap.
type Actor struct {
	ID     ID
	Kind   Kind
	Pos    gamemap.Coord
	Spawn  gamemap.Coord
	Health Health
	Damage int
}

// IsPlayer reports whether a is the player.
func (a *Actor) IsPlayer() bool { return a.Kind == KindPlayer }
