package request

import (
	"encoding/json"
	"errors"
)

// FailureKind classifies why a request settled without success.
type FailureKind string

// Failure classes. Transient failures were retried until the budget ran
// out; client failures were returned on first sight.
const (
	FailureNone        FailureKind = ""
	FailureTransient   FailureKind = "transient"
	FailureRateLimited FailureKind = "rate_limited"
	FailureClient      FailureKind = "client"
	FailureUnknown     FailureKind = "unknown"
)

// Errors returned by the executor for calls that never reach the wire.
var (
	// ErrUnsupportedMethod is returned for HTTP methods other than
	// GET, POST, and PUT. Not retryable.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
)

// Result is the settled outcome of one logical request, after all
// retries. Callers branch on OK; the executor never returns a raw
// transport error.
type Result struct {
	// OK reports whether a 2xx response was received.
	OK bool

	// Body holds the raw response body on success.
	Body []byte

	// Status is the last HTTP status observed, 0 when the failure
	// never produced a response.
	Status int

	// Kind tags the failure class. FailureNone on success.
	Kind FailureKind

	// Message carries the failure description: the remote error
	// message when one was decodable, the transport error otherwise.
	Message string
}

// Decode unmarshals a successful result body into v.
func (r Result) Decode(v any) error {
	if !r.OK {
		return errors.New("cannot decode failed result: " + r.Message)
	}
	return json.Unmarshal(r.Body, v)
}

// errorMessage extracts the "message" field the remote service places
// in error bodies, falling back to the given default.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}
