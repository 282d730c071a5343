package game

import (
	"fmt"

	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/gamemap"
	"dungeon-crawler/internal/system"
)

// StartLevel builds the level named by the current settings: the random
// generator for "random", otherwise the named map.
func (g *Game) StartLevel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startLevelLocked()
}

func (g *Game) startLevelLocked() error {
	if g.cfg.Map.IsRandom() {
		g.generateLocked()
		return nil
	}
	return g.loadMapLocked(g.cfg.Map.DefaultMap)
}

// LoadMap replaces the level with the named text map. On error the current
// level is left exactly as it was.
func (g *Game) LoadMap(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loadMapLocked(name)
}

func (g *Game) loadMapLocked(name string) error {
	lay, err := g.parseMap(name)
	if err != nil {
		g.log.Error("map load failed", "map", name, "err", err)
		return err
	}
	g.install(lay, name)
	return nil
}

func (g *Game) parseMap(name string) (*gamemap.Layout, error) {
	lines, err := g.maps.Lines(name)
	if err != nil {
		return nil, err
	}
	m := g.cfg.Map
	lay, err := gamemap.Parse(lines, m.CenterX, m.CenterY, m.TileSize, charset(g.cfg.Tiles))
	if err != nil {
		return nil, fmt.Errorf("parse map %q: %w", name, err)
	}
	return lay, nil
}

// GenerateRandomMap replaces the level with a procedurally generated one
// sized by the current settings.
func (g *Game) GenerateRandomMap() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generateLocked()
}

func (g *Game) generateLocked() {
	m := g.cfg.Map
	w := max(m.Width, config.MinRandomMapSize)
	h := max(m.Height, config.MinRandomMapSize)
	lay := gamemap.Generate(w, h, gamemap.OriginFor(w, h, m.CenterX, m.CenterY), m.TileSize, g.rng)
	g.install(lay, config.RandomMap)
}

// NextLevel rebuilds the level from the current source with fresh actors;
// for random maps that means a new layout.
func (g *Game) NextLevel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.source == "" || g.source == config.RandomMap {
		if g.source == "" {
			return g.startLevelLocked()
		}
		g.generateLocked()
		return nil
	}
	return g.loadMapLocked(g.source)
}

// ResetActors restarts the current level in place: every live actor is back
// at full health on its spawn cell and the player has the turn. Enemies
// killed earlier stay dead.
func (g *Game) ResetActors() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.world == nil {
		return
	}
	g.world.Respawn()
	g.turn = TurnPlayer
	g.stats = newRunLog()
}

// install swaps in a freshly built level. Nothing of the previous level
// survives.
func (g *Game) install(lay *gamemap.Layout, source string) {
	w := &system.World{
		Map:    lay.Map,
		Actors: actor.NewRegistry(),
		Rules:  system.RulesFrom(g.cfg.Combat),
		Events: g.events,
	}
	p := w.Place(actor.KindPlayer, lay.PlayerSpawn, g.cfg.Player.MaxHealth, g.cfg.Player.Damage)
	for _, c := range lay.EnemySpawns {
		w.Place(actor.KindEnemy, c, g.cfg.Enemy.MaxHealth, g.cfg.Enemy.Damage)
	}

	g.world = w
	g.source = source
	g.turn = TurnPlayer
	g.stats = newRunLog()
	g.log.Info("level loaded", "map", source,
		"width", lay.Map.Width, "height", lay.Map.Height, "enemies", len(lay.EnemySpawns))
	g.events.Publish(event.Event{Kind: event.MapLoaded, Map: source}.About(p))
}

func charset(t config.TileSettings) gamemap.Charset {
	return gamemap.CharsetFromStrings(t.Wall, t.Door, t.Chest, t.Enemy, t.Player, t.Empty, t.Win)
}
