// Package ssh adapts gliderlabs SSH sessions to tcell screens.
package ssh

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// DefaultTerm is used when the client sends no TERM or one we do not trust.
const DefaultTerm = "xterm-256color"

// ErrNoPTY is returned for sessions opened without a pseudo-terminal.
var ErrNoPTY = errors.New("session has no PTY")

// allowedTerms lists the TERM values passed through to terminfo. Anything
// else falls back to DefaultTerm.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"xterm-color":           true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
	"alacritty":             true,
}

// Term picks the terminal type from a session environment.
func Term(environ []string) string {
	for _, env := range environ {
		if v, ok := strings.CutPrefix(env, "TERM="); ok {
			if allowedTerms[v] {
				return v
			}
			break
		}
	}
	return DefaultTerm
}

// termMu serialises os.Setenv("TERM") around terminfo lookup, which reads
// the process environment.
var termMu sync.Mutex

// NewScreen builds and initialises a tcell screen over s. The caller must
// Fini it.
func NewScreen(s gossh.Session) (tcell.Screen, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, ErrNoPTY
	}
	tty := NewSessionTty(s, pty, winCh)

	termMu.Lock()
	_ = os.Setenv("TERM", Term(s.Environ()))
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	return screen, nil
}

// SessionTty implements tcell.Tty over one SSH session.
type SessionTty struct {
	session gossh.Session
	winCh   <-chan gossh.Window

	mu       sync.Mutex
	window   gossh.Window
	onResize func()
	watching bool
}

// NewSessionTty wraps s. pty holds the initial window size and winCh
// delivers later resizes.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{
		session: s,
		window:  pty.Window,
		winCh:   winCh,
	}
}

func (t *SessionTty) Read(b []byte) (int, error)  { return t.session.Read(b) }
func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }
func (t *SessionTty) Close() error                { return t.session.Close() }

// Start, Stop and Drain have nothing to do: the channel is opened and torn
// down by the SSH handler.
func (t *SessionTty) Start() error { return nil }
func (t *SessionTty) Stop() error  { return nil }
func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the last size the client reported.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize sets the callback run after every window change. tcell may
// call it more than once; only the first call starts the watcher.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onResize = cb
	start := !t.watching && t.winCh != nil
	t.watching = true
	t.mu.Unlock()

	if start {
		go t.watch()
	}
}

// watch runs until the SSH library closes the window channel.
func (t *SessionTty) watch() {
	for win := range t.winCh {
		t.mu.Lock()
		t.window = win
		cb := t.onResize
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
	}
}
