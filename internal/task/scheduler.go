// Package task runs the outer scheduling loop: one full pass over all
// loaded accounts per cycle, repeated on a fixed interval for as long
// as the process lives.
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poseidon-tools/farmer/internal/config"
	"github.com/poseidon-tools/farmer/internal/domain"
	"github.com/poseidon-tools/farmer/internal/metrics"
	"github.com/poseidon-tools/farmer/internal/request"
	"github.com/poseidon-tools/farmer/internal/service"
	"github.com/poseidon-tools/farmer/internal/store"
)

// Scheduler owns the run-forever loop. Each cycle loads credentials and
// proxies fresh, processes every account sequentially, then sleeps the
// cycle interval. A cycle that blows up is logged and the next one is
// still scheduled; the process never crashes silently.
type Scheduler struct {
	processor *service.AccountProcessor
	clock     request.Clock
	logger    *slog.Logger
	cfg       config.FarmerConfig

	// OnCycleDone, when set, receives every finished cycle's
	// summaries. The status server uses it.
	OnCycleDone func(cycleID uuid.UUID, summaries []domain.AccountSummary)
}

// NewScheduler creates the outer loop driver.
func NewScheduler(
	processor *service.AccountProcessor,
	clock request.Clock,
	logger *slog.Logger,
	cfg config.FarmerConfig,
) *Scheduler {
	return &Scheduler{
		processor: processor,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run executes cycles until the context is cancelled. Cancellation is
// only observed between cycles: in-flight waits are deliberately not
// cancellable, matching the single-threaded cooperative model the
// pipeline is built around. When oneShot is set a single cycle runs and
// Run returns.
func (s *Scheduler) Run(ctx context.Context, oneShot bool) error {
	for {
		s.runCycleSafe(ctx)

		if oneShot {
			return nil
		}

		next := s.clock.Now().Add(s.cfg.CycleInterval)
		s.logger.InfoContext(ctx, "cycle completed, waiting for next run",
			"interval", s.cfg.CycleInterval.String(),
			"next_run", next.UTC().Format(time.RFC3339))
		s.clock.Sleep(s.cfg.CycleInterval)

		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler stopping", "reason", ctx.Err())
			return ctx.Err()
		default:
		}
	}
}

// runCycleSafe runs one cycle with a top-level catch so an escaping
// failure is logged instead of killing the scheduler.
func (s *Scheduler) runCycleSafe(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "cycle aborted by panic", "panic", r)
		}
	}()

	s.runCycle(ctx)
}

func (s *Scheduler) runCycle(ctx context.Context) {
	cycleID := uuid.New()
	log := s.logger.With("cycle_id", cycleID.String())

	tokens, err := store.LoadTokens(s.cfg.TokenFile)
	if err != nil {
		log.ErrorContext(ctx, "failed to load tokens", "error", err.Error())
		return
	}
	proxies, err := store.LoadProxies(s.cfg.ProxyFile)
	if err != nil {
		log.ErrorContext(ctx, "failed to load proxies", "error", err.Error())
		return
	}

	log.InfoContext(ctx, "cycle starting",
		"tokens_loaded", len(tokens),
		"proxies_loaded", len(proxies),
		"proxy_usage", len(proxies) > 0)

	if len(tokens) == 0 {
		log.ErrorContext(ctx, "no tokens loaded, ending cycle",
			"token_file", s.cfg.TokenFile,
			"error", domain.ErrNoTokens.Error())
		return
	}

	summaries := s.processor.RunCycle(ctx, tokens, proxies)

	metrics.CyclesCompleted.Inc()
	if s.OnCycleDone != nil {
		s.OnCycleDone(cycleID, summaries)
	}

	var totals domain.AttemptCounters
	for _, summary := range summaries {
		totals.Add(summary.Counters)
	}
	log.InfoContext(ctx, "cycle finished",
		"accounts", len(summaries),
		"uploads_attempted", totals.Attempted,
		"completed", totals.Completed,
		"skipped", totals.Skipped,
		"failed", totals.Failed)
}
