package system

import (
	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/gamemap"
)

// EnemyAction is what one enemy did with its turn.
type EnemyAction uint8

const (
	EnemyIdle     EnemyAction = iota // could neither attack nor move
	EnemyMoved                       // stepped towards the player
	EnemyAttacked                    // hit the player
)

// EnemyTurn is the record of one enemy's turn.
type EnemyTurn struct {
	Enemy  actor.ID
	Action EnemyAction
	Attack AttackResult // set when Action == EnemyAttacked
}

// ResolveEnemyTurn lets enemy act once: it attacks the player when
// CanAttack allows, otherwise it moves towards the player. Never both.
func (w *World) ResolveEnemyTurn(enemy *actor.Actor) EnemyTurn {
	turn := EnemyTurn{Enemy: enemy.ID}
	p := w.Actors.Player()
	if p == nil || p.Health.Dead() {
		return turn
	}
	if w.CanAttack(enemy, p) {
		turn.Action = EnemyAttacked
		turn.Attack = w.Attack(enemy, p)
		return turn
	}
	if w.MoveTowardsPlayer(enemy) {
		turn.Action = EnemyMoved
	}
	return turn
}

// MoveTowardsPlayer takes one greedy step (sign(dx), sign(dy)) towards the
// player. If that step would land on the player's cell, which only happens
// when the rules forbid attacking from here, the enemy tries the x axis and
// then the y axis instead so it closes in rather than freezing.
func (w *World) MoveTowardsPlayer(enemy *actor.Actor) bool {
	p := w.Actors.Player()
	if p == nil {
		return false
	}
	d := p.Pos.Sub(enemy.Pos)
	step := gamemap.Coord{X: gamemap.Sign(d.X), Y: gamemap.Sign(d.Y)}
	if step == (gamemap.Coord{}) {
		return false
	}

	if enemy.Pos.Add(step) != p.Pos {
		return w.TryMove(enemy, step.X, step.Y) == MoveOK
	}
	if step.X != 0 && step.Y != 0 {
		if w.TryMove(enemy, step.X, 0) == MoveOK {
			return true
		}
		return w.TryMove(enemy, 0, step.Y) == MoveOK
	}
	return false
}

// ProcessEnemies runs the enemy phase: every live enemy, in spawn order,
// takes one turn. The pass stops as soon as the player dies; playerDied
// reports that case.
func (w *World) ProcessEnemies() (turns []EnemyTurn, playerDied bool) {
	p := w.Actors.Player()
	if p == nil {
		return nil, false
	}
	for _, e := range w.Actors.Enemies() {
		if !w.Actors.Alive(e.ID) {
			continue
		}
		t := w.ResolveEnemyTurn(e)
		turns = append(turns, t)
		if p.Health.Dead() {
			return turns, true
		}
	}
	return turns, false
}
