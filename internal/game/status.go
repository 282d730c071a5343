package game

import (
	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/gamemap"
)

// ActorStatus is a read-only view of one actor.
type ActorStatus struct {
	ID              actor.ID      `json:"id"`
	Pos             gamemap.Coord `json:"pos"`
	HP              int           `json:"hp"`
	MaxHP           int           `json:"maxHp"`
	Damage          int           `json:"damage"`
	RecentlyDamaged bool          `json:"recentlyDamaged,omitempty"`
}

// Status is a snapshot of the game for presentation layers and spectators.
type Status struct {
	Turn          string        `json:"turn"`
	Map           string        `json:"map"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Player        *ActorStatus  `json:"player,omitempty"`
	Enemies       []ActorStatus `json:"enemies"`
	GameOver      bool          `json:"gameOver"`
	LevelComplete bool          `json:"levelComplete"`
}

// Status returns a snapshot of the current level.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Status{
		Turn:          g.turn.String(),
		Map:           g.source,
		GameOver:      g.turn == TurnGameOver,
		LevelComplete: g.turn == TurnLevelComplete,
		Enemies:       []ActorStatus{},
	}
	if g.world == nil {
		return s
	}
	s.Width, s.Height = g.world.Map.Width, g.world.Map.Height
	if p := g.world.Actors.Player(); p != nil {
		ps := statusOf(p)
		s.Player = &ps
	}
	for _, e := range g.world.Actors.Enemies() {
		s.Enemies = append(s.Enemies, statusOf(e))
	}
	return s
}

func statusOf(a *actor.Actor) ActorStatus {
	return ActorStatus{
		ID:              a.ID,
		Pos:             a.Pos,
		HP:              a.Health.Current,
		MaxHP:           a.Health.Max,
		Damage:          a.Damage,
		RecentlyDamaged: a.Health.RecentlyDamaged,
	}
}
