// Package event carries gameplay notifications from the simulation core to
// whoever presents them: the HUD message log, the spectator feed and tests.
package event

import (
	"sync"

	"dungeon-crawler/internal/actor"
	"dungeon-crawler/internal/gamemap"
)

// Kind names what happened.
type Kind uint8

const (
	Attack Kind = iota
	Damaged
	Died
	Moved
	LevelComplete
	GameOver
	MapLoaded
	SettingsReloaded
)

var kindNames = [...]string{
	Attack:           "attack",
	Damaged:          "damaged",
	Died:             "died",
	Moved:            "moved",
	LevelComplete:    "level_complete",
	GameOver:         "game_over",
	MapLoaded:        "map_loaded",
	SettingsReloaded: "settings_reloaded",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText lets Kind appear by name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one notification. Actor fields describe the subject: the
// defender for Damaged and Died, the attacker for Attack (with Target naming
// the defender), the mover for Moved.
type Event struct {
	Kind      Kind          `json:"kind"`
	Actor     actor.ID      `json:"actor,omitempty"`
	ActorKind string        `json:"actorKind,omitempty"`
	Target    actor.ID      `json:"target,omitempty"`
	Pos       gamemap.Coord `json:"pos"`
	HP        int           `json:"hp"`
	MaxHP     int           `json:"maxHp"`
	Amount    int           `json:"amount,omitempty"`
	Map       string        `json:"map,omitempty"`
}

// About fills the actor fields of e from a.
func (e Event) About(a *actor.Actor) Event {
	if a == nil {
		return e
	}
	e.Actor = a.ID
	e.ActorKind = a.Kind.String()
	e.Pos = a.Pos
	e.HP = a.Health.Current
	e.MaxHP = a.Health.Max
	return e
}

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to its subscribers. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id int
	fn Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.handlers {
				if s.id == id {
					b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers e to every subscriber. A nil Bus drops the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers))
	for i, s := range b.handlers {
		hs[i] = s.fn
	}
	b.mu.RUnlock()
	for _, h := range hs {
		h(e)
	}
}
