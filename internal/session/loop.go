package session

import (
	"context"
	"time"

	"dungeon-crawler/internal/event"
	"dungeon-crawler/internal/game"

	"github.com/gdamore/tcell/v2"
)

// Run is the per-session loop. It reads input, applies actions and redraws
// until the player quits, the screen closes or ctx is cancelled. The caller
// still owns the screen and must Fini it.
func (s *Server) Run(ctx context.Context, sess *Session) {
	defer s.remove(sess)

	done := make(chan struct{})
	defer close(done)

	// Start an async input reader goroutine.
	eventCh := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := sess.Screen.PollEvent()
			if ev == nil {
				close(eventCh)
				return
			}
			select {
			case eventCh <- ev:
			case <-done:
				return
			}
		}
	}()

	s.flush(sess)
	sess.Draw()
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-eventCh:
			if !ok {
				return // screen closed / disconnected
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				sess.Screen.Sync()
			case *tcell.EventKey:
				if !s.handle(sess, game.KeyToAction(ev)) {
					return
				}
			}
			s.flush(sess)
			sess.Draw()

		case <-sess.wake:
			s.flush(sess)
			sess.Draw()
		}
	}
}

// handle applies one action. It returns false when the player quits.
func (s *Server) handle(sess *Session, action game.Action) bool {
	switch {
	case action == game.ActionQuit:
		return false

	case action.IsMove():
		if sess.Busy(s.now()) {
			return true
		}
		dx, dy := game.ActionToDelta(action)
		s.pace(sess, sess.Game.Move(dx, dy))

	case action == game.ActionAttack:
		if sess.Busy(s.now()) {
			return true
		}
		res := sess.Game.Attack()
		if res.Outcome == game.OutcomeNoTarget {
			sess.AddMessage("Nothing to attack.")
		}
		s.pace(sess, res)

	case action == game.ActionRestart:
		sess.Game.ResetActors()
		sess.AddMessage("Level restarted.")

	case action == game.ActionNextLevel:
		if sess.Game.Turn() != game.TurnLevelComplete {
			return true
		}
		if err := sess.Game.NextLevel(); err != nil {
			sess.AddMessage("Could not load the next level.")
		}

	case action == game.ActionReload:
		// Listeners lock each game, so this must run without any game lock.
		s.opts.Settings.Reload()
		s.log.Info("settings reloaded", "session", sess.ID)
	}
	return true
}

// pace starts the pause after an action that consumed a turn.
func (s *Server) pace(sess *Session, res game.Result) {
	switch res.Outcome {
	case game.OutcomeTurnTaken, game.OutcomeLevelComplete, game.OutcomeGameOver:
	default:
		return
	}
	delay := s.opts.Settings.Current().Combat.TurnDelay
	if delay > 0 {
		sess.holdFor(s.now(), time.Duration(delay*float64(time.Second)))
	}
}

// flush delivers every queued event in order.
func (s *Server) flush(sess *Session) {
	for _, e := range sess.takePending() {
		s.deliver(sess, e)
	}
}

func (s *Server) deliver(sess *Session, e event.Event) {
	if msg := describe(e); msg != "" {
		sess.AddMessage(msg)
	}
	if feed := s.currentFeed(); feed != nil {
		feed.Publish(sess.ID, e, sess.Game.Status())
	}
}
