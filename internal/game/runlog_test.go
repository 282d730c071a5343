package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunLogDirXDGEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := runLogDir()
	if err != nil {
		t.Fatalf("runLogDir returned error: %v", err)
	}
	want := filepath.Join(tmp, "dungeon-crawler")
	if dir != want {
		t.Errorf("dir = %q; want %q", dir, want)
	}
}

func TestRunLogDirDefaultFallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := runLogDir()
	if err != nil {
		t.Skip("skipping: no user home directory available in test environment")
	}
	suffix := filepath.Join(".local", "share", "dungeon-crawler")
	if !strings.HasSuffix(dir, suffix) {
		t.Errorf("dir %q does not end with %q", dir, suffix)
	}
}

func TestSaveRunLogAppendsLines(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	for i := range 3 {
		if err := saveRunLog(RunLog{Map: "arena", Outcome: "game_over", Turns: i + 1}); err != nil {
			t.Fatalf("saveRunLog: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmp, "dungeon-crawler", "runs.jsonl"))
	if err != nil {
		t.Fatalf("runs.jsonl not created: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(lines))
	}
	var last RunLog
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("last line is not JSON: %v", err)
	}
	if last.Map != "arena" || last.Turns != 3 {
		t.Errorf("last entry = %+v", last)
	}
}

func TestGameWritesRunLogOnLevelComplete(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	h := newHarness(t, "exit", nil)
	h.g.runLog = true
	h.g.Move(1, 0)

	data, err := os.ReadFile(filepath.Join(tmp, "dungeon-crawler", "runs.jsonl"))
	if err != nil {
		t.Fatalf("runs.jsonl not created: %v", err)
	}
	if !strings.Contains(string(data), `"outcome":"level_complete"`) || !strings.Contains(string(data), `"map":"exit"`) {
		t.Errorf("log = %q", data)
	}
}
