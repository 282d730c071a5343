package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog records statistics gathered while playing one level.
type RunLog struct {
	Map           string    `json:"map"`
	Outcome       string    `json:"outcome"`
	Turns         int       `json:"turns"`
	LevelsCleared int       `json:"levelsCleared"`
	EnemiesKilled int       `json:"enemiesKilled"`
	DamageDealt   int       `json:"damageDealt"`
	DamageTaken   int       `json:"damageTaken"`
	Started       time.Time `json:"started"`
}

func newRunLog() RunLog {
	return RunLog{Started: time.Now().UTC()}
}

// Stats returns a copy of the statistics for the current level.
func (g *Game) Stats() RunLog {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// saveRunLog appends the record as a single JSON line to runs.jsonl.
func saveRunLog(log RunLog) error {
	dir, err := runLogDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// runLogDir returns the directory where run logs are stored:
// $XDG_DATA_HOME/dungeon-crawler, defaulting to ~/.local/share/dungeon-crawler.
func runLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "dungeon-crawler"), nil
}
