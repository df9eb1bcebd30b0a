// Package api implements the optional local status server: liveness,
// a JSON snapshot of the latest cycle, and Prometheus metrics. It is a
// read-only observation surface; nothing in the pipeline depends on it.
package api
