package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/unistay/internal/config"
	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/events"
	"github.com/gosuda/unistay/internal/jobs"
	"github.com/gosuda/unistay/internal/ledger"
	"github.com/gosuda/unistay/internal/messenger"
	"github.com/gosuda/unistay/internal/messenger/slack"
	"github.com/gosuda/unistay/internal/metrics"
	"github.com/gosuda/unistay/internal/notify"
	"github.com/gosuda/unistay/internal/reminder"
	"github.com/gosuda/unistay/internal/server"
	"github.com/gosuda/unistay/internal/store/memory"
	redisstore "github.com/gosuda/unistay/internal/store/redis"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, event stream and background jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	initial, err := initialState(cfg)
	if err != nil {
		return err
	}

	rec := metrics.New()

	// State events go through Redis when configured, in-process otherwise.
	var (
		pubsub events.PubSub
		pinger server.Pinger
	)
	if cfg.Redis.Enabled() {
		rps, redisErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if redisErr != nil {
			return redisErr
		}
		defer rps.Close()
		pubsub, pinger = rps, rps
		log.Info().Str("addr", cfg.Redis.Addr).Msg("state events via redis")
	} else {
		pubsub = events.NewLocal()
		log.Info().Msg("state events in-process")
	}
	bus := events.NewBus(pubsub, redisstore.StateChannel())

	store, err := memory.New(initial, memory.WithMetrics(rec), memory.WithPublisher(bus))
	if err != nil {
		return err
	}

	// A nil Generator makes every draft the fallback template.
	var gen reminder.Generator
	if cfg.Gemini.APIKey != "" {
		gemini, geminiErr := reminder.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, &http.Client{})
		if geminiErr != nil {
			return geminiErr
		}
		gen = gemini
	}
	drafter := reminder.NewDrafter(gen, cfg.Gemini.Timeout, rec)

	var messengers []messenger.Messenger
	platform := ""
	if cfg.Slack.BotToken != "" {
		messengers = append(messengers, slack.NewFromToken(cfg.Slack.BotToken))
		platform = slack.Platform
	}
	registry := notify.NewRegistry(messengers...)
	notifier := notify.New(registry, platform, cfg.Slack.Channel)
	log.Info().Strs("platforms", registry.Platforms()).Bool("gemini", gen != nil).Msg("reminder delivery configured")

	reminders := reminder.NewService(store, drafter, notifier, rec)

	scheduler, err := jobs.NewScheduler(ctx, store, bus, cfg.Jobs.DashboardRefresh)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if stopErr := scheduler.Stop(); stopErr != nil {
			log.Error().Err(stopErr).Msg("stop scheduler")
		}
	}()

	srv := server.New(ctx, cfg, server.Deps{
		Store:     store,
		Reminders: reminders,
		Events:    bus,
		Metrics:   rec,
		Redis:     pinger,
	})

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Uint64("version", store.Snapshot().Version).Msg("stopped")
	return nil
}

// initialState returns the starting snapshot on the configured plan.
func initialState(cfg *config.Config) (*domain.State, error) {
	if !cfg.Seed {
		return ledger.Empty(cfg.InitialPlan), nil
	}

	s, err := ledger.Seed()
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	s.Subscription.Plan = cfg.InitialPlan
	log.Info().
		Int("properties", len(s.Properties)).
		Int("tenants", len(s.Tenants)).
		Str("plan", string(s.Subscription.Plan)).
		Msg("loaded example portfolio")
	return s, nil
}
