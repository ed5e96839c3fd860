// Package main is the entrypoint for the Sessiongate workflow worker.
// It registers the sign-up and login workflows and processes them from
// the configured task queue.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sessiongate/sessiongate/internal/config"
	"github.com/sessiongate/sessiongate/internal/repository"
	"github.com/sessiongate/sessiongate/internal/workflow"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize worker
	w, err := workflow.NewWorker(cfg.TemporalAddress, cfg.TemporalNamespace, cfg.TemporalTaskQueue, cfg.SessionTTL, repo, logger)
	if err != nil {
		logger.Error("failed to connect to Temporal",
			slog.String("error", err.Error()),
			slog.String("address", cfg.TemporalAddress),
		)
		os.Exit(1)
	}
	defer w.Close()

	logger.Info("starting worker",
		"task_queue", cfg.TemporalTaskQueue,
		"namespace", cfg.TemporalNamespace,
	)

	if err := w.Run(); err != nil {
		logger.Error("worker error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
