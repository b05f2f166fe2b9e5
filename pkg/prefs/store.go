package prefs

import "context"

// Store resolves abstract recipients into active users and their opt-in
// settings for one notification type.
type Store interface {
	// FetchActiveUsersWithSettings returns every active user matching the
	// given user ids or belonging to one of the given outlets, each paired
	// with their setting row for notifType when one exists. Outlet
	// membership is read at call time - the result is a point-in-time
	// snapshot, not a live view.
	FetchActiveUsersWithSettings(ctx context.Context, userIDs, outletIDs []string, notifType string) ([]UserWithSetting, error)
}
