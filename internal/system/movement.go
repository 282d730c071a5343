package system

import (
	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/gamemap"
)

// MoveResult describes the outcome of a TryMove call.
type MoveResult uint8

const (
	MoveOK      MoveResult = iota // position updated
	MoveBlocked                   // wall, door, chest, actor, out of bounds or not a unit step
	MoveWin                       // the player stepped onto the win tile
)

func (r MoveResult) String() string {
	switch r {
	case MoveOK:
		return "ok"
	case MoveBlocked:
		return "blocked"
	case MoveWin:
		return "win"
	}
	return "unknown"
}

// TryMove attempts to move a by (dx, dy), a single step in any of the eight
// directions. Only the player may enter the win tile.
func (w *World) TryMove(a *actor.Actor, dx, dy int) MoveResult {
	if a == nil || !isUnitStep(dx, dy) {
		return MoveBlocked
	}
	dest := a.Pos.Add(gamemap.Coord{X: dx, Y: dy})

	result := MoveOK
	switch {
	case w.Map.IsWalkable(dest):
	case a.IsPlayer() && w.Map.InBounds(dest) && w.Map.TileAt(dest) == gamemap.TileWin:
		result = MoveWin
	default:
		return MoveBlocked
	}

	if !w.Map.Relocate(a.Pos, dest) {
		return MoveBlocked
	}
	a.Pos = dest
	w.publish(event.Event{Kind: event.Moved}.About(a))
	return result
}

func isUnitStep(dx, dy int) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}
