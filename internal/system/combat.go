package system

import (
	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/gamemap"
)

// AttackResult holds the outcome of one attack.
type AttackResult struct {
	Attacker actor.ID
	Defender actor.ID
	Damage   int
	Killed   bool
}

// IsAdjacent reports whether a and b are neighbours. With allowDiagonal the
// eight surrounding cells count; otherwise only the four orthogonal ones.
// A cell is never adjacent to itself.
func IsAdjacent(a, b gamemap.Coord, allowDiagonal bool) bool {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if allowDiagonal {
		return max(dx, dy) == 1
	}
	return dx+dy == 1
}

// CanAttack is the single attack legality check: the two actors must be
// adjacent under the current rules and, when wall collision is on, no wall
// may stand between them. Every attack, player or enemy, goes through it.
func (w *World) CanAttack(attacker, defender *actor.Actor) bool {
	if attacker == nil || defender == nil || attacker.ID == defender.ID {
		return false
	}
	if attacker.Health.Dead() || defender.Health.Dead() {
		return false
	}
	if !IsAdjacent(attacker.Pos, defender.Pos, w.Rules.AllowDiagonal) {
		return false
	}
	if w.Rules.WallCollision && w.Map.LineOfSightBlocked(attacker.Pos, defender.Pos) {
		return false
	}
	return true
}

// Attack applies attacker's damage to defender without checking legality.
// A killed enemy leaves the map and the registry; a killed player stays
// where it fell so the caller can end the game.
func (w *World) Attack(attacker, defender *actor.Actor) AttackResult {
	res := AttackResult{
		Attacker: attacker.ID,
		Defender: defender.ID,
		Damage:   max(attacker.Damage, 0),
	}
	w.publish(event.Event{Kind: event.Attack, Target: defender.ID, Amount: res.Damage}.About(attacker))
	res.Killed = w.ApplyDamage(defender, res.Damage)
	return res
}

// ApplyDamage lowers a's health by n and runs the death transition when it
// reaches zero. It reports whether a died from this hit.
func (w *World) ApplyDamage(a *actor.Actor, n int) bool {
	if a.Health.Dead() {
		return false
	}
	if !a.Health.TakeDamage(n) {
		w.publish(event.Event{Kind: event.Damaged, Amount: max(n, 0)}.About(a))
		return false
	}
	w.publish(event.Event{Kind: event.Died, Amount: max(n, 0)}.About(a))
	if !a.IsPlayer() {
		w.Map.Vacate(a.Pos)
		w.Actors.Remove(a.ID)
	}
	return true
}

// ResolvePlayerAttack attacks the first enemy, in spawn order, that the
// player can legally hit. ok is false when there is no such enemy.
func (w *World) ResolvePlayerAttack() (res AttackResult, ok bool) {
	p := w.Actors.Player()
	if p == nil {
		return AttackResult{}, false
	}
	for _, e := range w.Actors.Enemies() {
		if w.CanAttack(p, e) {
			return w.Attack(p, e), true
		}
	}
	return AttackResult{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
