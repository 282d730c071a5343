// dungeon-server serves the dungeon crawler over SSH. Every connection gets
// its own game; all games share one settings file, so F5 in any session
// reloads it for everyone. Build:
//
//	go build -o dungeon-server ./cmd/server
//
// Usage:
//
//	./dungeon-server [--addr :2222] [--key server_host_key] [--spectate :8080]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
//
// Settings may also come from the environment or a .env file
// (DUNGEON_ADDR, DUNGEON_HOST_KEY, DUNGEON_SETTINGS, DUNGEON_MAPS,
// DUNGEON_SPECTATE_ADDR, DUNGEON_RUN_LOG, DUNGEON_DEBUG).
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"dungeon-crawler/assets"
	"dungeon-crawler/internal/config"
	"dungeon-crawler/internal/session"
	"dungeon-crawler/internal/spectate"
	internalssh "dungeon-crawler/internal/ssh"

	gossh "github.com/gliderlabs/ssh"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	xssh "golang.org/x/crypto/ssh"
)

// maxNameBytes caps player names taken from the SSH user.
const maxNameBytes = 16

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:  "dungeon-server",
		Usage: "serve the dungeon crawler over SSH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":2222",
				Usage:   "SSH listen address",
				Sources: cli.EnvVars("DUNGEON_ADDR"),
			},
			&cli.StringFlag{
				Name:    "key",
				Value:   "server_host_key",
				Usage:   "PEM-encoded host key (generated if absent)",
				Sources: cli.EnvVars("DUNGEON_HOST_KEY"),
			},
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
				Name:    "spectate",
				Usage:   "HTTP address for the websocket spectator feed; disabled if empty",
				Sources: cli.EnvVars("DUNGEON_SPECTATE_ADDR"),
			},
			&cli.BoolFlag{
				Name:    "run-log",
				Usage:   "append finished runs to $XDG_DATA_HOME/dungeon-crawler/runs.jsonl",
				Sources: cli.EnvVars("DUNGEON_RUN_LOG"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "debug logging",
				Sources: cli.EnvVars("DUNGEON_DEBUG"),
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	level := slog.LevelInfo
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	signer, err := loadOrCreateHostKey(cmd.String("key"), logger)
	if err != nil {
		return err
	}

	settings := config.NewStore(assets.SettingsLoader(cmd.String("settings")), logger)
	games := session.NewServer(session.Options{
		Settings: settings,
		Maps:     assets.MapStore(cmd.String("maps")),
		Logger:   logger,
		RunLog:   cmd.Bool("run-log"),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := cmd.String("spectate"); addr != "" {
		hub := spectate.NewHub(games, logger)
		go hub.Run(ctx)
		games.SetFeed(hub)
		go serveSpectators(ctx, addr, hub, logger)
	}

	srv := &gossh.Server{
		Addr: cmd.String("addr"),
		Handler: func(s gossh.Session) {
			play(s, games)
		},
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication; add gossh.PublicKeyAuth for real auth.
		HostSigners: []gossh.Signer{signer},
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("SSH shutdown", "err", err)
		}
	}()

	logger.Info("dungeon SSH server listening", "addr", srv.Addr,
		"connect", fmt.Sprintf("ssh -t -p %s localhost", strings.TrimPrefix(srv.Addr, ":")))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return err
	}
	return nil
}

// play is the gliderlabs SSH handler for one connection. It blocks for the
// duration of the game so the SSH session stays open.
func play(s gossh.Session, games *session.Server) {
	screen, err := internalssh.NewScreen(s)
	if errors.Is(err, internalssh.ErrNoPTY) {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}

	name := sanitizeName(s.User())
	if name == "" {
		name = "adventurer"
	}
	sess, err := games.NewSession(name, screen)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(s, "Could not start a game: %v\n", err)
		return
	}
	games.Run(s.Context(), sess)
	screen.Fini()
}

func serveSpectators(ctx context.Context, addr string, hub *spectate.Hub, logger *slog.Logger) {
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     hub.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("spectator feed listening", "url", fmt.Sprintf("http://%s/ws?session=<id>", addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("spectator server", "err", err)
	}
}

// sanitizeName drops control characters and cuts the name to maxNameBytes
// without splitting a rune.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == utf8.RuneError || unicode.IsControl(r) {
			continue
		}
		if b.Len()+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *slog.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", "path", path)
			return signer, nil
		}
	}

	logger.Info("generating ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "dungeon-crawler server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0600); err != nil {
			logger.Warn("host key not saved", "path", path, "err", err)
		}
	}
	return signer, nil
}
