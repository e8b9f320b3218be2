package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/quill/internal/api"
	"github.com/MikeSquared-Agency/quill/internal/backfill"
	"github.com/MikeSquared-Agency/quill/internal/clock"
	"github.com/MikeSquared-Agency/quill/internal/config"
	"github.com/MikeSquared-Agency/quill/internal/detector"
	"github.com/MikeSquared-Agency/quill/internal/hermes"
	"github.com/MikeSquared-Agency/quill/internal/patterns"
	"github.com/MikeSquared-Agency/quill/internal/processor"
	"github.com/MikeSquared-Agency/quill/internal/prompt"
	"github.com/MikeSquared-Agency/quill/internal/slack"
	"github.com/MikeSquared-Agency/quill/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("quill starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (optional — without it runs are not persisted)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — running without run history")
	}

	// Extraction engines
	det := detector.New(patterns.Default(), slog.Default())
	eng := &prompt.Engine{ExcludeNow: cfg.ExcludeNow}
	clk := clock.New(cfg.Timezone, slog.Default())

	// NATS/Hermes (optional — without it no config events are consumed)
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		var err error
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — running without event bus")
	}

	// Slack poster (optional — Quill works without Slack, just no summaries)
	var slackPoster *slack.Poster
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		slackPoster = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured — running without summaries")
	}

	// Processor — the main pipeline
	proc := processor.New(db, det, eng, hermesClient, slackPoster, clk, slog.Default())

	// Subscribe to submitted configs
	if hermesClient != nil {
		if err := hermesClient.Subscribe(hermes.SubjectConfigSubmitted, proc.HandleConfigSubmitted); err != nil {
			slog.Error("failed to subscribe to config events", "error", err)
			os.Exit(1)
		}
	}

	// One-shot backfill of an existing config directory
	if cfg.BackfillDir != "" {
		runner := backfill.NewRunner(proc, slog.Default())
		go func() {
			summary, err := runner.Run(ctx, cfg.BackfillDir)
			if err != nil {
				slog.Error("backfill failed", "dir", cfg.BackfillDir, "error", err)
				return
			}
			slog.Info("backfill done",
				"found", summary.FilesFound,
				"processed", summary.FilesProcessed,
				"skipped", summary.FilesSkipped,
				"errors", summary.Errors,
			)
		}()
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, proc, eng, db, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if hermesClient != nil {
		if err := hermesClient.Publish("swarm.agent.quill.registered", map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("quill ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("quill stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
