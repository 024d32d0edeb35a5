package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/packwatch/packwatch/internal/annotate"
	"github.com/packwatch/packwatch/internal/bot"
	"github.com/packwatch/packwatch/internal/config"
	"github.com/packwatch/packwatch/internal/parser"
	"github.com/packwatch/packwatch/internal/repository/sqlite"
	"github.com/packwatch/packwatch/internal/services/runner"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to init repository: %v", err)
	}
	defer repo.Close()

	pageParser := parser.NewParser(logger, cfg.URL)
	annotator := annotate.NewAnnotator(logger)
	watcher := runner.NewRunner(logger, pageParser, repo, annotator, cfg.PollInterval, cfg.OutputPath)

	var watchBot *bot.Bot
	if cfg.Tg.Token != "" {
		watchBot, err = bot.NewBot(logger, cfg.Tg.Token, cfg.Tg.Timeout, repo, watcher)
		if err != nil {
			log.Fatalf("Failed to init bot: %v", err)
		}
		watcher.SetNotifier(watchBot)

		// Start the bot in a goroutine to allow main to listen for signals.
		go watchBot.Start()
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Watch(ctx) }()

	select {
	case <-ctx.Done():
		// Log that a shutdown signal has been received.
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorContext(ctx, "Watch cycle failed", "error", err)
		}
	}

	// Stop the bot gracefully.
	if watchBot != nil {
		watchBot.Stop()
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
