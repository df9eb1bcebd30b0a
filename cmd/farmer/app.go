package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poseidon-tools/farmer/internal/api"
	"github.com/poseidon-tools/farmer/internal/config"
	"github.com/poseidon-tools/farmer/internal/domain"
	"github.com/poseidon-tools/farmer/internal/metrics"
	"github.com/poseidon-tools/farmer/internal/platform/logger"
	"github.com/poseidon-tools/farmer/internal/platform/poseidon"
	"github.com/poseidon-tools/farmer/internal/platform/tts"
	"github.com/poseidon-tools/farmer/internal/request"
	"github.com/poseidon-tools/farmer/internal/service"
	"github.com/poseidon-tools/farmer/internal/task"

	"github.com/google/uuid"
)

// App holds the wired application graph.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	scheduler *task.Scheduler
	status    *api.Server
}

// initializeApp loads configuration, sets up logging, and wires the
// pipeline components together. Flag overrides are applied on top of
// the loaded configuration before validation-sensitive components are
// built.
func initializeApp() (*App, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if tokenFile != "" {
		cfg.Farmer.TokenFile = tokenFile
	}
	if proxyFile != "" {
		cfg.Farmer.ProxyFile = proxyFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"token_file", cfg.Farmer.TokenFile,
		"proxy_file", cfg.Farmer.ProxyFile,
		"base_url", cfg.HTTP.BaseURL,
		"cycle_interval", cfg.Farmer.CycleInterval.String(),
		"status_server", cfg.Status.Enabled)

	metrics.Init()

	clock := request.NewClock()
	exec := request.NewExecutor(clock, log)
	exec.OnRetry = metrics.RequestRetries.Inc
	exec.OnRateLimited = metrics.RateLimitHits.Inc
	exec.DefaultRetryBudget = cfg.HTTP.MaxRetries
	exec.DefaultBackoff = cfg.HTTP.InitialBackoff

	client, err := poseidon.NewClient(poseidon.Config{
		BaseURL: cfg.HTTP.BaseURL,
		Retries: cfg.HTTP.GatewayRetries,
		Backoff: cfg.HTTP.GatewayBackoff,
		Timeout: cfg.HTTP.RequestTimeout,
	}, exec, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway client: %w", err)
	}

	synth := tts.NewGoogleSynthesizer(tts.Config{
		Endpoint: cfg.TTS.Endpoint,
		Timeout:  cfg.TTS.Timeout,
	}, log)

	runner := service.NewCampaignRunner(
		synth, clock, log,
		cfg.Farmer.MaxUploadsPerCampaign,
		cfg.Farmer.PolitenessDelay)

	factory := service.GatewayFactory(func(token, proxyURI string) (service.Gateway, error) {
		return client.Account(token, proxyURI)
	})

	processor := service.NewAccountProcessor(factory, runner, clock, log, service.ProcessorConfig{
		InterAccountDelay: cfg.Farmer.InterAccountDelay,
		CooldownMin:       cfg.Farmer.CooldownMin,
		CooldownMax:       cfg.Farmer.CooldownMax,
	})

	scheduler := task.NewScheduler(processor, clock, log, cfg.Farmer)

	app := &App{cfg: cfg, logger: log, scheduler: scheduler}

	if cfg.Status.Enabled {
		board := api.NewBoard(clock.Now())
		processor.OnAccountDone = board.RecordAccount
		scheduler.OnCycleDone = func(cycleID uuid.UUID, summaries []domain.AccountSummary) {
			board.RecordCycle(cycleID, summaries, clock.Now())
		}
		app.status = api.NewServer(cfg.Status.Addr, board, log)
	}

	return app, nil
}

// Run starts the status server if enabled and drives the scheduler
// until it returns. Signals stop the scheduler at the next cycle
// boundary; in-flight waits are not interrupted by design.
func (a *App) Run(ctx context.Context, oneShot bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.status != nil {
		a.status.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.status.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("status server shutdown failed", "error", err.Error())
			}
		}()
	}

	err := a.scheduler.Run(ctx, oneShot)
	if err != nil && ctx.Err() != nil {
		// Normal signal-driven stop.
		a.logger.Info("shutting down", "reason", ctx.Err())
		return nil
	}
	return err
}
