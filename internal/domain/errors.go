package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrNoTokens is returned when a run cycle starts with an empty
	// credential list.
	ErrNoTokens = errors.New("no bearer tokens loaded")

	// ErrEmptyScript is returned when a script assignment carries no text.
	ErrEmptyScript = errors.New("script content cannot be empty")
)
