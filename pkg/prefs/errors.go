package prefs

import "errors"

var (
	// ErrQueryFailed is returned when the preference query cannot be run
	// or scanned.
	ErrQueryFailed = errors.New("prefs: failed to fetch users with settings")
)
