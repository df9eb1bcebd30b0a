package poseidon

import "errors"

// Common errors returned by the poseidon gateway.
var (
	// ErrRequestFailed is returned when an operation exhausts its retry
	// budget or hits a terminal client error. The wrapped message
	// carries the remote service's explanation when one was available.
	ErrRequestFailed = errors.New("poseidon request failed")

	// ErrNoScript is returned when no script assignment is available
	// for the current attempt. It signals "no work this attempt", not a
	// fault.
	ErrNoScript = errors.New("no script assignment available")

	// ErrInvalidConfig is returned when the client configuration is
	// invalid.
	ErrInvalidConfig = errors.New("invalid poseidon client configuration")
)
