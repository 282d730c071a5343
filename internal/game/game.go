// Package game is the turn controller: it owns the current level, accepts
// player actions while it is the player's turn, runs the enemy phase and
// follows settings reloads.
package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/gamemap"
	"dungeon-crawler/internal/system"
)

// Turn is the state of the turn machine.
type Turn uint8

const (
	TurnPlayer Turn = iota
	TurnEnemy
	TurnGameOver
	TurnLevelComplete
)

func (t Turn) String() string {
	switch t {
	case TurnPlayer:
		return "player"
	case TurnEnemy:
		return "enemy"
	case TurnGameOver:
		return "game_over"
	case TurnLevelComplete:
		return "level_complete"
	}
	return "unknown"
}

// Outcome summarises what a player action did.
type Outcome uint8

const (
	OutcomeRejected      Outcome = iota // not the player's turn, or no level
	OutcomeBlocked                      // move blocked; turn not consumed
	OutcomeNoTarget                     // nothing to attack; turn not consumed
	OutcomeTurnTaken                    // action done and the enemy phase ran
	OutcomeLevelComplete                // the player reached the win tile
	OutcomeGameOver                     // an enemy killed the player
)

// Result is the record of one player action.
type Result struct {
	Outcome Outcome
	Attack  *system.AttackResult // set when the player attacked
	Enemies []system.EnemyTurn   // enemy phase, in the order enemies acted
	Turn    Turn                 // state after the action
}

// Options configures a Game. Settings and Maps are required.
type Options struct {
	Settings *config.Store
	Maps     *gamemap.Store
	Rand     *rand.Rand   // nil seeds from the clock
	Logger   *slog.Logger // nil discards
	Events   *event.Bus   // nil creates a private bus
	// RunLog appends a record of every finished level or run when set.
	RunLog bool
}

// Game is safe for use from several goroutines; event handlers are called
// with the game locked and must not call back into it.
type Game struct {
	mu       sync.Mutex
	settings *config.Store
	cfg      *config.Settings
	maps     *gamemap.Store
	rng      *rand.Rand
	log      *slog.Logger
	events   *event.Bus

	world  *system.World
	source string // map name, or config.RandomMap
	turn   Turn
	stats  RunLog
	runLog bool

	unsubscribe func()
}

// New creates a Game with no level loaded; call StartLevel next.
func New(opts Options) *Game {
	g := &Game{
		settings: opts.Settings,
		maps:     opts.Maps,
		rng:      opts.Rand,
		log:      opts.Logger,
		events:   opts.Events,
		runLog:   opts.RunLog,
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	if g.events == nil {
		g.events = event.NewBus()
	}
	g.cfg = g.settings.Current()
	g.stats = newRunLog()
	g.unsubscribe = g.settings.Subscribe(g.onSettings)
	return g
}

// Close detaches the game from settings reloads.
func (g *Game) Close() {
	g.unsubscribe()
}

// Events returns the bus the game publishes to.
func (g *Game) Events() *event.Bus { return g.events }

// Turn returns the current turn state.
func (g *Game) Turn() Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn
}

// View is a consistent look at the game, valid only inside Inspect.
type View struct {
	World    *system.World // nil before the first level
	Settings *config.Settings
	Turn     Turn
	Map      string
}

// Inspect calls fn with the game locked so a renderer can read a consistent
// view of the level. fn must not retain v or modify the world.
func (g *Game) Inspect(fn func(v View)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(View{World: g.world, Settings: g.cfg, Turn: g.turn, Map: g.source})
}

// Move asks the player to step by (dx, dy). A blocked move leaves the turn
// with the player and wakes no enemy.
func (g *Game) Move(dx, dy int) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.beginAction()
	if !ok {
		return Result{Outcome: OutcomeRejected, Turn: g.turn}
	}
	switch g.world.TryMove(p, dx, dy) {
	case system.MoveBlocked:
		return Result{Outcome: OutcomeBlocked, Turn: g.turn}
	case system.MoveWin:
		g.stats.Turns++
		g.completeLevel(p)
		return Result{Outcome: OutcomeLevelComplete, Turn: g.turn}
	}
	g.stats.Turns++
	return g.enemyPhase(Result{})
}

// Attack asks the player to hit one adjacent enemy. With no legal target the
// turn is not consumed.
func (g *Game) Attack() Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.beginAction(); !ok {
		return Result{Outcome: OutcomeRejected, Turn: g.turn}
	}
	res, ok := g.world.ResolvePlayerAttack()
	if !ok {
		return Result{Outcome: OutcomeNoTarget, Turn: g.turn}
	}
	g.stats.Turns++
	g.stats.DamageDealt += res.Damage
	if res.Killed {
		g.stats.EnemiesKilled++
	}
	return g.enemyPhase(Result{Attack: &res})
}

// beginAction checks that the player may act and clears last turn's hit
// markers.
func (g *Game) beginAction() (*actor.Actor, bool) {
	if g.world == nil || g.turn != TurnPlayer {
		return nil, false
	}
	p := g.world.Actors.Player()
	if p == nil {
		return nil, false
	}
	p.Health.RecentlyDamaged = false
	for _, e := range g.world.Actors.Enemies() {
		e.Health.RecentlyDamaged = false
	}
	return p, true
}

func (g *Game) enemyPhase(res Result) Result {
	g.turn = TurnEnemy
	before := g.world.Actors.Player().Health.Current
	turns, died := g.world.ProcessEnemies()
	res.Enemies = turns
	g.stats.DamageTaken += before - g.world.Actors.Player().Health.Current

	if died {
		g.turn = TurnGameOver
		g.stats.Outcome = "game_over"
		g.events.Publish(event.Event{Kind: event.GameOver, Map: g.source}.About(g.world.Actors.Player()))
		g.log.Info("game over", "map", g.source, "turns", g.stats.Turns)
		g.saveStats()
		res.Outcome = OutcomeGameOver
	} else {
		g.turn = TurnPlayer
		res.Outcome = OutcomeTurnTaken
	}
	res.Turn = g.turn
	return res
}

func (g *Game) completeLevel(p *actor.Actor) {
	g.turn = TurnLevelComplete
	g.stats.LevelsCleared++
	g.stats.Outcome = "level_complete"
	g.events.Publish(event.Event{Kind: event.LevelComplete, Map: g.source}.About(p))
	g.log.Info("level complete", "map", g.source, "turns", g.stats.Turns)
	g.saveStats()
}

func (g *Game) saveStats() {
	if !g.runLog {
		return
	}
	g.stats.Map = g.source
	if err := saveRunLog(g.stats); err != nil {
		g.log.Warn("run log not saved", "err", err)
	}
}

// onSettings follows a settings swap. A map source other than the running
// level starts a new level; if that fails, or the source is unchanged, live
// actors take the new stats in place.
func (g *Game) onSettings(_, cur *config.Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cfg = cur
	if g.world == nil {
		return
	}
	rebuilt := false
	if g.sourceChanged(cur.Map) {
		if err := g.startLevelLocked(); err != nil {
			g.log.Error("level not reloaded after settings change", "map", cur.Map.DefaultMap, "err", err)
		} else {
			rebuilt = true
		}
	}
	if !rebuilt {
		g.applyStatsLocked(cur)
	}
	g.events.Publish(event.Event{Kind: event.SettingsReloaded, Map: g.source}.About(g.world.Actors.Player()))
}

func (g *Game) applyStatsLocked(cur *config.Settings) {
	g.world.Rules = system.RulesFrom(cur.Combat)
	for _, e := range g.world.Actors.Enemies() {
		e.Health.SetMax(cur.Enemy.MaxHealth)
		e.Damage = cur.Enemy.Damage
	}
	if p := g.world.Actors.Player(); p != nil {
		p.Health.Rescale(cur.Player.MaxHealth)
		p.Damage = cur.Player.Damage
	}
}

// sourceChanged reports whether m names a different level than the one
// running.
func (g *Game) sourceChanged(m config.MapSettings) bool {
	if m.IsRandom() {
		return g.source != config.RandomMap
	}
	return m.DefaultMap != g.source
}
