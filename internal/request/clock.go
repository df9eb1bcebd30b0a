package request

import "time"

// Clock abstracts time for backoff sleeps and timestamp generation so
// tests can assert full backoff sequences without real delays.
// Version: 1.0
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for the given duration.
	Sleep(d time.Duration)
}

// realClock is the production Clock backed by the time package.
type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// NewClock returns the production Clock.
func NewClock() Clock {
	return realClock{}
}
