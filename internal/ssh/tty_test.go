package ssh

import (
	"testing"
	"time"

	gossh "github.com/gliderlabs/ssh"
)

func TestTerm(t *testing.T) {
	cases := []struct {
		name    string
		environ []string
		want    string
	}{
		{"xterm-256color", []string{"TERM=xterm-256color"}, "xterm-256color"},
		{"tmux", []string{"LANG=C", "TERM=tmux"}, "tmux"},
		{"linux", []string{"TERM=linux"}, "linux"},
		{"vt100", []string{"TERM=vt100"}, "vt100"},
		{"screen", []string{"TERM=screen"}, "screen"},
		{"rxvt-unicode-256color", []string{"TERM=rxvt-unicode-256color"}, "rxvt-unicode-256color"},
		{"unknown term", []string{"TERM=evil-term"}, DefaultTerm},
		{"path traversal", []string{"TERM=../../../etc/passwd"}, DefaultTerm},
		{"empty value", []string{"TERM="}, DefaultTerm},
		{"xterm-kitty", []string{"TERM=xterm-kitty"}, DefaultTerm},
		{"no TERM", []string{"HOME=/root"}, DefaultTerm},
		{"nil environ", nil, DefaultTerm},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Term(tc.environ); got != tc.want {
				t.Errorf("Term(%q) = %q, want %q", tc.environ, got, tc.want)
			}
		})
	}
}

func TestSessionTtyResize(t *testing.T) {
	winCh := make(chan gossh.Window, 1)
	tty := NewSessionTty(nil, gossh.Pty{Window: gossh.Window{Width: 80, Height: 24}}, winCh)

	ws, err := tty.WindowSize()
	if err != nil || ws.Width != 80 || ws.Height != 24 {
		t.Fatalf("initial WindowSize = %+v, %v", ws, err)
	}

	resized := make(chan struct{}, 4)
	tty.NotifyResize(func() { resized <- struct{}{} })
	tty.NotifyResize(func() { resized <- struct{}{} })

	winCh <- gossh.Window{Width: 120, Height: 40}
	select {
	case <-resized:
	case <-time.After(2 * time.Second):
		t.Fatal("resize callback not called")
	}
	ws, _ = tty.WindowSize()
	if ws.Width != 120 || ws.Height != 40 {
		t.Fatalf("WindowSize after resize = %+v", ws)
	}
	close(winCh)

	select {
	case <-resized:
		t.Fatal("callback ran twice for one resize")
	case <-time.After(50 * time.Millisecond):
	}
}
