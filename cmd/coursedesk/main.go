package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/notify"
	"github.com/coursedesk/coursedesk/internal/platform/cache"
	"github.com/coursedesk/coursedesk/internal/platform/config"
	"github.com/coursedesk/coursedesk/internal/platform/database"
	"github.com/coursedesk/coursedesk/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	// Ctrl-C cancels in-flight requests and streams.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	archive, closeArchive, err := newArchive(ctx, cfg)
	if err != nil {
		slog.Error("failed to open history backend", "backend", cfg.History.Backend, "error", err)
		os.Exit(1)
	}
	defer closeArchive()

	store, err := session.NewStore(ctx, archive)
	if err != nil {
		slog.Error("failed to load history", "error", err)
		os.Exit(1)
	}

	cli := &commandLine{
		client:    api.New(cfg.API.BaseURL),
		store:     store,
		notifier:  &notify.Console{W: os.Stdout},
		exportDir: cfg.Export.Dir,
		in:        os.Stdin,
		out:       os.Stdout,
	}

	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// newArchive opens the configured history backend and returns it with
// its cleanup func.
func newArchive(ctx context.Context, cfg *config.Config) (session.Archive, func(), error) {
	switch cfg.History.Backend {
	case "file":
		return session.NewFileArchive(cfg.History.File), func() {}, nil

	case "redis":
		c, err := cache.New(ctx, cfg.History.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisArchive(c.Client), func() { c.Close() }, nil

	case "postgres":
		db, err := database.New(ctx, cfg.History.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		arch, err := session.NewPostgresArchive(db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return arch, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}
