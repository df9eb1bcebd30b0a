package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poseidon-tools/farmer/internal/domain"
	"github.com/poseidon-tools/farmer/internal/metrics"
	"github.com/poseidon-tools/farmer/internal/platform/tts"
	"github.com/poseidon-tools/farmer/internal/request"
)

// CampaignStatus is the terminal state of one campaign pass.
type CampaignStatus string

// Campaign terminal states: skipped campaigns performed no upload
// calls at all; processed campaigns ran the attempt loop to exhaustion.
const (
	CampaignSkipped   CampaignStatus = "skipped"
	CampaignProcessed CampaignStatus = "processed"
)

// CampaignOutcome reports one campaign pass: the terminal state and the
// attempt accounting accumulated along the way.
type CampaignOutcome struct {
	Status   CampaignStatus
	Counters domain.AttemptCounters
}

// CampaignRunner walks one campaign's upload loop: quota check, then
// generate→upload→confirm attempts until the remote quota runs out or
// the per-cycle attempt cap is reached. Attempt failures are absorbed
// and counted, never propagated.
type CampaignRunner struct {
	synth  tts.Synthesizer
	clock  request.Clock
	logger *slog.Logger

	// maxUploads caps attempts per campaign per cycle, applied as
	// min(quota cap, maxUploads).
	maxUploads int

	// politeness is the delay between consecutive attempts when more
	// work remains.
	politeness time.Duration
}

// NewCampaignRunner creates a runner with the given collaborators.
func NewCampaignRunner(
	synth tts.Synthesizer,
	clock request.Clock,
	logger *slog.Logger,
	maxUploads int,
	politeness time.Duration,
) *CampaignRunner {
	if maxUploads < 1 {
		maxUploads = 1
	}
	return &CampaignRunner{
		synth:      synth,
		clock:      clock,
		logger:     logger,
		maxUploads: maxUploads,
		politeness: politeness,
	}
}

// Run executes the campaign state machine. The quota is re-fetched
// after every attempt that reached the confirm step because the remote
// service is authoritative; attempts that fail earlier leave the
// remaining count untouched and retry against the stale value.
func (r *CampaignRunner) Run(ctx context.Context, gw Gateway, campaign domain.Campaign) CampaignOutcome {
	lang := campaign.Language()
	log := r.logger.With(
		"campaign_id", campaign.ID,
		"language", lang,
		"language_name", domain.LanguageName(lang))

	var counters domain.AttemptCounters

	quota, err := gw.Quota(ctx, campaign.ID)
	if err != nil {
		log.WarnContext(ctx, "quota fetch failed, skipping campaign", "error", err.Error())
		counters.Skipped++
		metrics.CampaignsSkipped.Inc()
		return CampaignOutcome{Status: CampaignSkipped, Counters: counters}
	}

	if quota.Exhausted() {
		log.InfoContext(ctx, "no quota remaining, skipping campaign",
			"remaining", quota.Remaining,
			"cap", quota.Cap)
		counters.Skipped++
		metrics.CampaignsSkipped.Inc()
		return CampaignOutcome{Status: CampaignSkipped, Counters: counters}
	}

	log.InfoContext(ctx, "campaign active",
		"remaining", quota.Remaining,
		"cap", quota.Cap)

	limit := quota.Cap
	if r.maxUploads < limit {
		limit = r.maxUploads
	}

	remaining := quota.Remaining
	attempts := 0
	for remaining > 0 && attempts < limit {
		counters.Attempted++
		metrics.UploadsAttempted.Inc()

		confirmed, err := r.attempt(ctx, gw, campaign, lang)
		attempts++

		if err != nil {
			counters.Failed++
			metrics.UploadsFailed.Inc()
			log.WarnContext(ctx, "upload attempt failed", "error", err.Error())
		} else {
			counters.Completed++
			metrics.UploadsCompleted.Inc()
		}

		// Only attempts that reached the confirm step consumed quota;
		// anything that failed earlier retries on the stale count.
		if !confirmed {
			continue
		}

		// Authoritative requota after every confirm-stage attempt. A
		// fetch failure yields an exhausted quota, ending the loop.
		requota, err := gw.Quota(ctx, campaign.ID)
		if err != nil {
			log.WarnContext(ctx, "requota fetch failed, ending campaign", "error", err.Error())
		}
		remaining = requota.Remaining

		if remaining > 0 && attempts < limit {
			r.clock.Sleep(r.politeness)
		}
	}

	log.InfoContext(ctx, "campaign finished",
		"uploads_completed", counters.Completed,
		"attempts", attempts)

	return CampaignOutcome{Status: CampaignProcessed, Counters: counters}
}

// attempt drives one generate→upload→confirm transaction. Any step
// failing fails the whole attempt; the artifact is discarded either
// way. The bool reports whether the attempt reached the confirm step,
// which is the point at which quota may have been consumed.
func (r *CampaignRunner) attempt(ctx context.Context, gw Gateway, campaign domain.Campaign, lang string) (bool, error) {
	attemptID := uuid.New()

	script, err := gw.NextScript(ctx, lang, campaign.ID)
	if err != nil || script == nil {
		return false, fmt.Errorf("fetching script (attempt %s): %w", attemptID, err)
	}

	audio, err := r.synth.Synthesize(ctx, script.Content, lang)
	if err != nil {
		return false, fmt.Errorf("synthesizing audio (attempt %s): %w", attemptID, err)
	}

	artifact := domain.NewUploadArtifact(audio, r.clock.Now())

	slot, err := gw.PresignUpload(ctx, campaign.ID, artifact.FileName, script.AssignmentID)
	if err != nil || slot == nil {
		return false, fmt.Errorf("requesting presigned slot (attempt %s): %w", attemptID, err)
	}

	if err := gw.UploadBinary(ctx, slot.URL, artifact.Payload); err != nil {
		return false, fmt.Errorf("uploading audio (attempt %s): %w", attemptID, err)
	}

	confirmation := domain.NewUploadConfirmation(artifact, *slot, campaign.ID)
	receipt, err := gw.ConfirmUpload(ctx, confirmation)
	if err != nil || receipt == nil {
		// The binary PUT succeeded but the two-phase protocol requires
		// the confirm step; this attempt counts as failed.
		return true, fmt.Errorf("confirming upload (attempt %s): %w", attemptID, err)
	}

	r.logger.DebugContext(ctx, "upload confirmed",
		"attempt_id", attemptID.String(),
		"campaign_id", campaign.ID,
		"file_name", artifact.FileName,
		"filesize", artifact.Size())
	return true, nil
}
