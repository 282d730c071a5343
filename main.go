// dungeon-crawler plays the turn-based dungeon crawler in the local
// terminal.
//
//	go run . [--settings game_settings.json] [--maps maps/] [--theme ascii]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"

	"dungeon-crawler/assets"
	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/render"
	"dungeon-crawler/internal/session"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "dungeon-crawler",
		Usage: "turn-based dungeon crawler",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "settings file (.json or .yaml); bundled settings if empty",
				Sources: cli.EnvVars("DUNGEON_SETTINGS"),
			},
			&cli.StringFlag{
				Name:    "maps",
				Usage:   "directory of .txt maps; bundled maps if empty",
				Sources: cli.EnvVars("DUNGEON_MAPS"),
			},
			&cli.StringFlag{
				Name:    "theme",
				Value:   "emoji",
				Usage:   "emoji or ascii",
				Sources: cli.EnvVars("DUNGEON_THEME"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs here; the terminal is busy with the game",
				Sources: cli.EnvVars("DUNGEON_LOG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "run-log",
				Usage:   "append finished runs to $XDG_DATA_HOME/dungeon-crawler/runs.jsonl",
				Sources: cli.EnvVars("DUNGEON_RUN_LOG"),
			},
		},
		Action: play,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func play(ctx context.Context, cmd *cli.Command) error {
	var out io.Writer = io.Discard
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, nil))

	settings := config.NewStore(assets.SettingsLoader(cmd.String("settings")), logger)
	var theme *render.Theme
	switch cmd.String("theme") {
	case "emoji":
	case "ascii":
		t := render.CharTheme(settings.Current().Tiles)
		theme = &t
	default:
		return fmt.Errorf("unknown theme %q", cmd.String("theme"))
	}

	games := session.NewServer(session.Options{
		Settings: settings,
		Maps:     assets.MapStore(cmd.String("maps")),
		Theme:    theme,
		Logger:   logger,
		RunLog:   cmd.Bool("run-log"),
	})

	name := playerName(logger)
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	sess, err := games.NewSession(name, screen)
	if err != nil {
		return err
	}
	games.Run(ctx, sess)
	return nil
}

func playerName(logger *slog.Logger) string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		logger.Warn("could not determine user name", "err", err)
		return "adventurer"
	}
	return u.Username
}
