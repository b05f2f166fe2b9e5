package channel

import "errors"

var (
	// ErrInvalidConfig is returned when a sender configuration is incomplete.
	ErrInvalidConfig = errors.New("channel: invalid sender config")

	// ErrSendFailed is returned when a provider call fails.
	ErrSendFailed = errors.New("channel: send failed")

	// ErrMissingPayloadField is returned when a payload section lacks a
	// field the channel requires, e.g. an email without a subject.
	ErrMissingPayloadField = errors.New("channel: required payload field missing")
)
