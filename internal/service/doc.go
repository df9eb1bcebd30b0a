// Package service implements the task execution pipeline: the
// per-campaign upload workflow and the per-account orchestrator that
// drives it. Failures stay local: a failed attempt never
// aborts a campaign, a failed campaign never aborts an account, and a
// failed account never stops the batch.
package service
