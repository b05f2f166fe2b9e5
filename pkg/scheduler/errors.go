package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete.
	ErrInvalidConfig = errors.New("scheduler: invalid client config")

	// ErrRequestFailed is returned when a scheduler API call fails at the
	// transport level or returns a non-success status.
	ErrRequestFailed = errors.New("scheduler: request failed")

	// ErrEventNotFound is returned by Update when the referenced event no
	// longer exists (it may have fired between Get and Update).
	ErrEventNotFound = errors.New("scheduler: event not found")
)
