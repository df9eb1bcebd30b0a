package request

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Retry behavior constants. The multiplier and rate-limit floor are
// part of the remote service contract, not tuning knobs.
const (
	// backoffMultiplier grows the delay after every failed attempt.
	backoffMultiplier = 1.5

	// rateLimitBackoff replaces the caller-supplied delay whenever a
	// 429 is observed. The rate-limit signal takes precedence.
	rateLimitBackoff = 30 * time.Second

	// DefaultTimeout bounds a single HTTP attempt when the caller does
	// not override it.
	DefaultTimeout = 60 * time.Second

	// DefaultRetries and DefaultInitialBackoff are the budget applied
	// when a call passes a non-positive budget and the executor carries
	// no configured one.
	DefaultRetries        = 5
	DefaultInitialBackoff = 5 * time.Second
)

// Options configures the transport-level details of one logical
// request: extra headers, an optional proxy transport, and the
// per-attempt timeout.
type Options struct {
	Headers   http.Header
	Transport http.RoundTripper

	// Timeout bounds each attempt; zero means DefaultTimeout.
	Timeout time.Duration
}

// Executor issues logical HTTP calls with bounded retry and
// multiplicative backoff. It is safe for sequential reuse across
// accounts; per-account routing comes in through Options.Transport.
type Executor struct {
	clock  Clock
	logger *slog.Logger

	// OnRetry and OnRateLimited are optional observation hooks,
	// invoked before each backoff sleep and on each 429 respectively.
	OnRetry       func()
	OnRateLimited func()

	// DefaultRetryBudget and DefaultBackoff replace a non-positive
	// per-call budget. Zero values fall back to the package defaults.
	DefaultRetryBudget int
	DefaultBackoff     time.Duration
}

// NewExecutor creates an Executor with the given clock and logger.
func NewExecutor(clock Clock, logger *slog.Logger) *Executor {
	return &Executor{
		clock:  clock,
		logger: logger,
	}
}

// Execute performs one logical request with up to retries attempts,
// sleeping the current backoff between attempts and growing it by
// backoffMultiplier after each failure. A non-positive retries or
// backoff falls back to the executor's configured budget.
//
// Terminal conditions short-circuit the budget: unsupported methods
// fail immediately, as do 400 and 404 responses, which indicate a
// non-recoverable client error. A 429 overrides the next delay with
// rateLimitBackoff but stays within the same budget. The returned
// Result always settles; Execute never returns an error.
func (e *Executor) Execute(
	ctx context.Context,
	method string,
	url string,
	payload []byte,
	opts Options,
	retries int,
	backoff time.Duration,
) Result {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return Result{
			Kind:    FailureUnknown,
			Message: ErrUnsupportedMethod.Error() + ": " + method,
		}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{
		Transport: opts.Transport,
		Timeout:   timeout,
	}

	if retries < 1 {
		retries = e.DefaultRetryBudget
		if retries < 1 {
			retries = DefaultRetries
		}
	}
	if backoff <= 0 {
		backoff = e.DefaultBackoff
		if backoff <= 0 {
			backoff = DefaultInitialBackoff
		}
	}

	var last Result
	for attempt := 1; attempt <= retries; attempt++ {
		last = e.attempt(ctx, client, method, url, payload, opts.Headers)
		if last.OK {
			return last
		}

		if last.Status == http.StatusTooManyRequests {
			last.Kind = FailureRateLimited
			backoff = rateLimitBackoff
			if e.OnRateLimited != nil {
				e.OnRateLimited()
			}
		}

		if last.Status == http.StatusBadRequest || last.Status == http.StatusNotFound {
			last.Kind = FailureClient
			return last
		}

		if attempt < retries {
			e.logger.DebugContext(ctx, "request failed, backing off",
				"method", method,
				"attempt", attempt,
				"max_attempts", retries,
				"status", last.Status,
				"backoff", backoff.String())
			if e.OnRetry != nil {
				e.OnRetry()
			}
			e.clock.Sleep(backoff)
			backoff = time.Duration(float64(backoff) * backoffMultiplier)
		}
	}

	return last
}

// attempt performs a single HTTP round trip and settles it into a
// Result. Network errors and timeouts come back as transient failures
// with no status.
func (e *Executor) attempt(
	ctx context.Context,
	client *http.Client,
	method string,
	url string,
	payload []byte,
	headers http.Header,
) Result {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return Result{Kind: FailureUnknown, Message: err.Error()}
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Kind: FailureTransient, Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{
			Status:  resp.StatusCode,
			Kind:    FailureTransient,
			Message: err.Error(),
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{OK: true, Status: resp.StatusCode, Body: respBody}
	}

	return Result{
		Status:  resp.StatusCode,
		Kind:    FailureTransient,
		Message: errorMessage(respBody, http.StatusText(resp.StatusCode)),
	}
}
