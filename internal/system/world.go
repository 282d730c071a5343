// Package system holds the rules that act on a level: movement, attack
// legality, damage and the enemy phase. It owns no state of its own; every
// call works on the World it is given.
package system

import (
	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/gamemap"
)

// Rules are the combat switches read from settings.
type Rules struct {
	AllowDiagonal bool // 8-neighbour adjacency instead of 4
	WallCollision bool // walls between attacker and defender block attacks
}

// RulesFrom copies the combat switches out of a settings snapshot.
func RulesFrom(c config.CombatSettings) Rules {
	return Rules{
		AllowDiagonal: c.AllowDiagonalAttacks,
		WallCollision: c.WallCollisionEnabled,
	}
}

// World is the level being simulated. Map occupancy and actor positions are
// kept in step by the functions in this package; callers must not move
// actors by hand.
type World struct {
	Map    *gamemap.GameMap
	Actors *actor.Registry
	Rules  Rules
	Events *event.Bus // may be nil
}

// Place registers a new actor and occupies its cell.
func (w *World) Place(kind actor.Kind, pos gamemap.Coord, maxHP, damage int) *actor.Actor {
	a := w.Actors.Spawn(kind, pos, maxHP, damage)
	w.Map.Occupy(pos, uint64(a.ID))
	return a
}

// Respawn restores every live actor to full health on its spawn cell.
func (w *World) Respawn() {
	all := append(w.Actors.Enemies(), w.Actors.Player())
	for _, a := range all {
		if a != nil {
			w.Map.Vacate(a.Pos)
		}
	}
	for _, a := range all {
		if a == nil {
			continue
		}
		a.Health.Reset()
		a.Pos = a.Spawn
		w.Map.Occupy(a.Pos, uint64(a.ID))
	}
}

func (w *World) publish(e event.Event) {
	w.Events.Publish(e)
}
