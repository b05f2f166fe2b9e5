package prefs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketfeed/notifykit/pkg/prefs"
)

func TestMemoryStore_FetchByUserIDs(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemoryStore()
	store.AddUser(prefs.User{ID: "u1", Email: "u1@example.com"})
	store.AddUser(prefs.User{ID: "u2", Phone: "+15550001"})
	store.SetSetting(prefs.Setting{UserID: "u1", Type: "comment-liked", SendEmail: true})

	rows, err := store.FetchActiveUsersWithSettings(context.Background(), []string{"u1", "u2", "missing"}, nil, "comment-liked")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := make(map[string]prefs.UserWithSetting)
	for _, row := range rows {
		byID[row.User.ID] = row
	}

	require.NotNil(t, byID["u1"].Setting)
	assert.True(t, byID["u1"].Setting.SendEmail)
	assert.Nil(t, byID["u2"].Setting)
}

func TestMemoryStore_InactiveUsersExcluded(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemoryStore()
	store.AddUser(prefs.User{ID: "u1"})
	store.Deactivate("u1")

	rows, err := store.FetchActiveUsersWithSettings(context.Background(), []string{"u1"}, nil, "comment-liked")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryStore_OutletExpansion(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemoryStore()
	for _, id := range []string{"u1", "u2", "u3"} {
		store.AddUser(prefs.User{ID: id})
		store.AddOutletMember("outlet-x", id)
	}

	rows, err := store.FetchActiveUsersWithSettings(context.Background(), nil, []string{"outlet-x"}, "assignment")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestMemoryStore_OutletAndUserDeduplicated(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemoryStore()
	store.AddUser(prefs.User{ID: "u1"})
	store.AddOutletMember("outlet-x", "u1")

	rows, err := store.FetchActiveUsersWithSettings(context.Background(), []string{"u1"}, []string{"outlet-x"}, "assignment")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMemoryStore_SnapshotSemantics(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemoryStore()
	for _, id := range []string{"u1", "u2", "u3"} {
		store.AddUser(prefs.User{ID: id})
		store.AddOutletMember("outlet-x", id)
	}

	rows, err := store.FetchActiveUsersWithSettings(context.Background(), nil, []string{"outlet-x"}, "assignment")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Membership changes after the fetch must not affect the snapshot.
	store.RemoveOutletMember("outlet-x", "u2")
	assert.Len(t, rows, 3)
}
