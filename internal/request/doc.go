// Package request implements the resilient HTTP layer every remote
// call is routed through: bounded retry with multiplicative backoff, a
// rate-limit backoff override, terminal client errors, per-account
// proxy transports, and the fixed browser-impersonation header set the
// remote service expects.
//
// Failures never surface as raw transport errors. Every call settles
// into a Result whose Kind tags the failure class so callers branch on
// data instead of duck-typing error shapes.
package request
