// Package metrics exposes Prometheus counters for the upload pipeline.
// Registration happens once from main; the service layer increments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UploadsAttempted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "uploads_attempted_total",
		Help:      "Total upload attempts started.",
	})
	UploadsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "uploads_completed_total",
		Help:      "Total uploads confirmed by the remote service.",
	})
	UploadsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "uploads_failed_total",
		Help:      "Total upload attempts that failed at any step.",
	})
	CampaignsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "campaigns_skipped_total",
		Help:      "Total campaigns skipped for missing or exhausted quota.",
	})
	RequestRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "request_retries_total",
		Help:      "Total HTTP attempt retries after a failure.",
	})
	RateLimitHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "rate_limit_hits_total",
		Help:      "Total 429 responses observed.",
	})
	CyclesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "cycles_completed_total",
		Help:      "Total full passes over the account list.",
	})
	AccountsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "farmer",
		Name:      "accounts_processed_total",
		Help:      "Total accounts processed across all cycles.",
	})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(
		UploadsAttempted, UploadsCompleted, UploadsFailed, CampaignsSkipped,
		RequestRetries, RateLimitHits, CyclesCompleted, AccountsProcessed,
	)
}
