package session

import (
	"log/slog"
	"math/rand"
	"slices"
	"strconv"
	"sync"
	"time"

	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/game"
	"dungeon-crawler/internal/gamemap"
	"dungeon-crawler/internal/render"

	"github.com/gdamore/tcell/v2"
)

// Feed receives every event of every session together with a status
// snapshot taken after it. Publish must not block.
type Feed interface {
	Publish(sessionID string, e event.Event, st game.Status)
}

// Options configures a Server. Settings and Maps are required.
type Options struct {
	Settings *config.Store
	Maps     *gamemap.Store
	Theme    *render.Theme // nil uses render.EmojiTheme
	Logger   *slog.Logger
	RunLog   bool
	// Seed returns the seed for a new session's random maps; nil uses the
	// clock.
	Seed func() int64
}

// Server owns the live sessions. All sessions share one settings store, so
// a reload from any of them reaches every game.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*Session
	nextID   int

	feed Feed

	opts Options
	log  *slog.Logger
	now  func() time.Time
}

// NewServer creates a Server with no sessions.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		sessions: make(map[string]*Session),
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// SetFeed mirrors every session's events to f; nil stops mirroring.
func (s *Server) SetFeed(f Feed) {
	s.mu.Lock()
	s.feed = f
	s.mu.Unlock()
}

func (s *Server) currentFeed() Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed
}

// NewSession creates a game for a player, starts its first level and
// registers it. The session is removed again when Run returns.
func (s *Server) NewSession(name string, screen tcell.Screen) (*Session, error) {
	s.mu.Lock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.mu.Unlock()

	seed := time.Now().UnixNano()
	if s.opts.Seed != nil {
		seed = s.opts.Seed()
	}
	theme := render.EmojiTheme
	if s.opts.Theme != nil {
		theme = *s.opts.Theme
	}

	log := s.log.With("session", id, "player", name)
	g := game.New(game.Options{
		Settings: s.opts.Settings,
		Maps:     s.opts.Maps,
		Rand:     rand.New(rand.NewSource(seed)),
		Logger:   log,
		RunLog:   s.opts.RunLog,
	})
	sess := newSession(id, name, screen, g, theme)
	if err := g.StartLevel(); err != nil {
		sess.close()
		return nil, err
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	log.Info("session started")
	return sess, nil
}

// IDs returns the live session IDs in creation order.
func (s *Server) IDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.SortFunc(ids, func(a, b string) int {
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		return x - y
	})
	return ids
}

// Status returns a snapshot of one session's game.
func (s *Server) Status(id string) (game.Status, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return game.Status{}, false
	}
	return sess.Game.Status(), true
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	sess.close()
	s.log.Info("session ended", "session", sess.ID, "player", sess.Name)
}
