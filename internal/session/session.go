// Package session runs interactive games: one Game per connected player,
// driven by a tcell screen and optionally mirrored to a spectator feed.
package session

import (
	"fmt"
	"sync"
	"time"

	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/game"
	"dungeon-crawler/internal/render"

	"github.com/gdamore/tcell/v2"
)

// maxMessages is how many log lines a session keeps.
const maxMessages = 50

// Session is one player's game and screen.
type Session struct {
	ID     string
	Name   string
	Screen tcell.Screen
	Game   *game.Game

	renderer *render.Renderer
	wake     chan struct{}
	detach   func()

	mu        sync.Mutex
	pending   []event.Event
	messages  []string
	busyUntil time.Time
}

func newSession(id, name string, screen tcell.Screen, g *game.Game, theme render.Theme) *Session {
	sess := &Session{
		ID:       id,
		Name:     name,
		Screen:   screen,
		Game:     g,
		renderer: render.NewRenderer(screen, theme),
		wake:     make(chan struct{}, 1),
	}
	sess.detach = g.Events().Subscribe(sess.enqueue)
	return sess
}

// enqueue runs with the game locked, so it only queues the event and wakes
// the loop. The queue is unbounded: one turn publishes an event per enemy.
func (s *Session) enqueue(e event.Event) {
	s.mu.Lock()
	s.pending = append(s.pending, e)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// takePending returns the queued events, oldest first, and empties the queue.
func (s *Session) takePending() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// AddMessage appends a line to the session log.
func (s *Session) AddMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	if len(s.messages) > maxMessages {
		s.messages = s.messages[len(s.messages)-maxMessages:]
	}
}

// Messages returns a copy of the session log, oldest first.
func (s *Session) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// Busy reports whether the session is still inside the pause that follows
// a turn.
func (s *Session) Busy(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Before(s.busyUntil)
}

func (s *Session) holdFor(now time.Time, d time.Duration) {
	s.mu.Lock()
	s.busyUntil = now.Add(d)
	s.mu.Unlock()
}

// Draw renders the current state of the game.
func (s *Session) Draw() {
	msgs := s.Messages()
	s.Game.Inspect(func(v game.View) {
		s.renderer.DrawFrame(v, msgs)
	})
}

func (s *Session) close() {
	s.detach()
	s.Game.Close()
}

// describe turns an event into a log line, or "" for events the player
// does not need to read about.
func describe(e event.Event) string {
	player := e.ActorKind == "player"
	switch e.Kind {
	case event.Attack:
		if player {
			return fmt.Sprintf("You hit the enemy for %d.", e.Amount)
		}
		return fmt.Sprintf("An enemy hits you for %d.", e.Amount)
	case event.Died:
		if player {
			return "You die..."
		}
		return "The enemy is slain."
	case event.LevelComplete:
		return "You found the exit!"
	case event.MapLoaded:
		return fmt.Sprintf("Entered %s.", e.Map)
	case event.SettingsReloaded:
		return "Settings reloaded."
	}
	return ""
}
