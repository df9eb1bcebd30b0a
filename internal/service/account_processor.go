package service

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/poseidon-tools/farmer/internal/domain"
	"github.com/poseidon-tools/farmer/internal/metrics"
	"github.com/poseidon-tools/farmer/internal/redact"
	"github.com/poseidon-tools/farmer/internal/request"
	"github.com/poseidon-tools/farmer/internal/store"
)

// countdownInterval is how often the cooldown remaining time is logged.
const countdownInterval = 30 * time.Second

// ProcessorConfig holds the orchestrator delays.
type ProcessorConfig struct {
	InterAccountDelay time.Duration
	CooldownMin       time.Duration
	CooldownMax       time.Duration
}

// AccountProcessor drives one run cycle: for every account it
// authenticates, lists eligible campaigns, runs the campaign upload
// workflow over each, and accumulates summary counters. Accounts are
// processed strictly sequentially.
type AccountProcessor struct {
	factory GatewayFactory
	runner  *CampaignRunner
	clock   request.Clock
	logger  *slog.Logger
	cfg     ProcessorConfig
	rng     *rand.Rand

	// OnAccountDone, when set, receives every finished account
	// summary. The status server uses it to keep its board current.
	OnAccountDone func(domain.AccountSummary)
}

// NewAccountProcessor creates an orchestrator.
func NewAccountProcessor(
	factory GatewayFactory,
	runner *CampaignRunner,
	clock request.Clock,
	logger *slog.Logger,
	cfg ProcessorConfig,
) *AccountProcessor {
	return &AccountProcessor{
		factory: factory,
		runner:  runner,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RunCycle processes every token once, in order, with the configured
// inter-account delay between accounts. One account's failure never
// stops the batch.
func (p *AccountProcessor) RunCycle(ctx context.Context, tokens, proxies []string) []domain.AccountSummary {
	summaries := make([]domain.AccountSummary, 0, len(tokens))

	for i, token := range tokens {
		proxy := store.ProxyFor(proxies, i)
		summary := p.processAccount(ctx, i, len(tokens), token, proxy)

		metrics.AccountsProcessed.Inc()
		summaries = append(summaries, summary)
		if p.OnAccountDone != nil {
			p.OnAccountDone(summary)
		}

		if i < len(tokens)-1 {
			p.clock.Sleep(p.cfg.InterAccountDelay)
		}
	}

	return summaries
}

// processAccount handles a single account end to end. Any panic or
// otherwise-uncaught failure is absorbed here so the outer loop moves
// on to the next account.
func (p *AccountProcessor) processAccount(ctx context.Context, index, total int, token, proxy string) (summary domain.AccountSummary) {
	summary = domain.AccountSummary{Index: index + 1}

	log := p.logger.With(
		"account", index+1,
		"total_accounts", total,
		"token", redact.Token(token))

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "account processing aborted by panic", "panic", r)
		}
	}()

	log.InfoContext(ctx, "processing account")

	if expiry, ok := store.TokenExpiry(token); ok && expiry.Before(p.clock.Now()) {
		log.WarnContext(ctx, "bearer token is expired, authentication will likely fail",
			"expired_at", expiry.UTC().Format(time.RFC3339))
	}

	gw, err := p.factory(token, proxy)
	if err != nil {
		log.ErrorContext(ctx, "failed to build account gateway", "error", redact.Error(err))
		summary.AuthError = redact.Error(err)
		p.logSummary(ctx, log, summary)
		return summary
	}

	if proxy != "" {
		ip, err := gw.PublicIP(ctx)
		if err != nil {
			log.WarnContext(ctx, "public IP lookup failed", "error", redact.Error(err))
		}
		summary.PublicIP = ip
		log.InfoContext(ctx, "routing through proxy",
			"proxy", redact.ProxyURL(proxy),
			"public_ip", ip)
	}

	profile, err := gw.Profile(ctx)
	summary.ProfileName = profile.Name
	summary.Points = profile.Points
	if err != nil {
		log.WarnContext(ctx, "authentication failed, no campaigns processed",
			"error", redact.Error(err))
		summary.AuthError = redact.Error(err)
		p.logSummary(ctx, log, summary)
		return summary
	}
	summary.Authenticated = true
	log.InfoContext(ctx, "authenticated",
		"username", profile.Name,
		"points", profile.Points,
		"wallet", profile.Wallet)

	campaigns, err := gw.Campaigns(ctx)
	if err != nil {
		log.WarnContext(ctx, "campaign fetch failed", "error", redact.Error(err))
		p.logSummary(ctx, log, summary)
		return summary
	}
	summary.Campaigns = len(campaigns)
	log.InfoContext(ctx, "campaigns found", "count", len(campaigns))

	for i, campaign := range campaigns {
		outcome := p.runner.Run(ctx, gw, campaign)
		summary.Counters.Add(outcome.Counters)

		if i < len(campaigns)-1 {
			p.cooldown(ctx, log)
		}
	}

	p.logSummary(ctx, log, summary)
	return summary
}

// cooldown sleeps a randomized duration between campaigns, logging a
// coarse countdown so operators can see the pipeline is waiting rather
// than wedged.
func (p *AccountProcessor) cooldown(ctx context.Context, log *slog.Logger) {
	span := p.cfg.CooldownMax - p.cfg.CooldownMin
	wait := p.cfg.CooldownMin
	if span > 0 {
		wait += time.Duration(p.rng.Int63n(int64(span) + 1))
	}

	remaining := wait
	for remaining > 0 {
		log.InfoContext(ctx, "cooldown before next campaign",
			"remaining", remaining.Round(time.Second).String())
		step := countdownInterval
		if remaining < step {
			step = remaining
		}
		p.clock.Sleep(step)
		remaining -= step
	}
}

func (p *AccountProcessor) logSummary(ctx context.Context, log *slog.Logger, s domain.AccountSummary) {
	log.InfoContext(ctx, "account summary",
		"authenticated", s.Authenticated,
		"auth_error", s.AuthError,
		"campaigns_scanned", s.Campaigns,
		"uploads_attempted", s.Counters.Attempted,
		"completed", s.Counters.Completed,
		"skipped", s.Counters.Skipped,
		"failed", s.Counters.Failed)
}
