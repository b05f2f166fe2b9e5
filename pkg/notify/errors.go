package notify

import "errors"

var (
	// ErrMissingType is returned when a spec has no notification type.
	ErrMissingType = errors.New("notify: notification type is required")

	// ErrNoPayload is returned when a spec carries no payload section for
	// any channel; such a notification could never be delivered anywhere.
	ErrNoPayload = errors.New("notify: payload must contain at least one channel section")

	// ErrResolution wraps preference store failures. Unlike channel send
	// failures this is a hard error: without the recipient lists there is
	// nothing to dispatch.
	ErrResolution = errors.New("notify: failed to resolve recipients")

	// ErrUnknownHookType is returned by the hook registry when the
	// scheduler fires a webhook for a type no handler was registered for.
	ErrUnknownHookType = errors.New("notify: no handler registered for notification type")
)
