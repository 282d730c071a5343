package config

import (
	"log/slog"
	"sync"
)

// Listener is notified after a snapshot swap. old is never nil.
type Listener func(old, cur *Settings)

// Store holds the single active settings snapshot and the listeners that
// must re-read it when it is replaced.
type Store struct {
	mu        sync.RWMutex
	current   *Settings
	loader    Loader
	log       *slog.Logger
	nextID    int
	listeners []listenerEntry
}

type listenerEntry struct {
	id int
	fn Listener
}

// NewStore loads the first snapshot from loader. A load failure is logged
// and the fallback snapshot is kept.
func NewStore(loader Loader, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Store{loader: loader, log: log}
	s.current = s.load()
	return s
}

func (s *Store) load() *Settings {
	snap, err := s.loader.Load()
	if err != nil {
		s.log.Warn("using default settings", "err", err)
	}
	if snap == nil {
		snap = Default()
	}
	return snap
}

// Current returns the active snapshot. Callers must treat it as read-only.
func (s *Store) Current() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn for swap notifications and returns a cancel func.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Reload re-reads the loader and swaps the result in.
func (s *Store) Reload() *Settings {
	snap := s.load()
	s.Swap(snap)
	s.log.Info("settings reloaded", "map", snap.Map.DefaultMap)
	return snap
}

// Swap replaces the active snapshot wholesale and runs every listener, in
// subscription order, before returning.
func (s *Store) Swap(snap *Settings) {
	s.mu.Lock()
	old := s.current
	s.current = snap
	listeners := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		listeners[i] = l.fn
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(old, snap)
	}
}
