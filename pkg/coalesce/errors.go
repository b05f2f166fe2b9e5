package coalesce

import "errors"

var (
	// ErrMissingType is returned when Send is called without a notification type.
	ErrMissingType = errors.New("coalesce: notification type is required")

	// ErrMissingKey is returned when Send is called without a coalescing key.
	ErrMissingKey = errors.New("coalesce: coalescing key is required")

	// ErrScheduling wraps scheduler client failures. Callers should treat
	// it as non-fatal for the originating business action: notifications
	// are best-effort.
	ErrScheduling = errors.New("coalesce: scheduler call failed")
)
