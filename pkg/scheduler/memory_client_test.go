package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketfeed/notifykit/pkg/scheduler"
)

func TestMemoryClient_AddAndGet(t *testing.T) {
	t.Parallel()

	m := scheduler.NewMemoryClient()
	ctx := context.Background()

	ev, err := m.Add(ctx, "comment-liked", "post-7", scheduler.Job{
		RunIn:   15 * time.Minute,
		Request: scheduler.Request{Href: "http://localhost/hooks/comment-liked", Body: map[string]any{"count": 1}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)

	got, err := m.Get(ctx, "comment-liked", "post-7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, map[string]any{"count": 1}, got.Request.Body)
}

func TestMemoryClient_Get_Absent(t *testing.T) {
	t.Parallel()

	m := scheduler.NewMemoryClient()
	got, err := m.Get(context.Background(), "comment-liked", "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryClient_Update_KeepsDeadline(t *testing.T) {
	t.Parallel()

	m := scheduler.NewMemoryClient()
	ctx := context.Background()

	ev, err := m.Add(ctx, "comment-liked", "post-7", scheduler.Job{RunIn: 15 * time.Minute})
	require.NoError(t, err)

	updated, err := m.Update(ctx, ev.ID, scheduler.JobUpdate{Body: map[string]any{"count": 5}})
	require.NoError(t, err)

	assert.Equal(t, ev.RunAt, updated.RunAt)
	assert.Equal(t, map[string]any{"count": 5}, updated.Request.Body)
}

func TestMemoryClient_Update_Missing(t *testing.T) {
	t.Parallel()

	m := scheduler.NewMemoryClient()
	_, err := m.Update(context.Background(), "no-such-id", scheduler.JobUpdate{})
	assert.ErrorIs(t, err, scheduler.ErrEventNotFound)
}

func TestMemoryClient_FireDue(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := now

	var mu sync.Mutex
	var fired []scheduler.Event

	m := scheduler.NewMemoryClient(
		scheduler.WithClock(func() time.Time { return clock }),
		scheduler.WithFireFunc(func(ctx context.Context, ev scheduler.Event) {
			mu.Lock()
			fired = append(fired, ev)
			mu.Unlock()
		}),
	)
	ctx := context.Background()

	_, err := m.Add(ctx, "comment-liked", "post-7", scheduler.Job{RunIn: time.Minute})
	require.NoError(t, err)

	assert.Zero(t, m.FireDue(ctx))

	clock = now.Add(2 * time.Minute)
	assert.Equal(t, 1, m.FireDue(ctx))

	mu.Lock()
	require.Len(t, fired, 1)
	assert.Equal(t, "post-7", fired[0].Key)
	mu.Unlock()

	// Firing consumes the event.
	got, err := m.Get(ctx, "comment-liked", "post-7")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryClient_FireThenAddCreatesFreshEvent(t *testing.T) {
	t.Parallel()

	m := scheduler.NewMemoryClient()
	ctx := context.Background()

	first, err := m.Add(ctx, "comment-liked", "post-7", scheduler.Job{RunIn: time.Minute})
	require.NoError(t, err)

	require.True(t, m.Fire(ctx, "comment-liked", "post-7"))
	assert.False(t, m.Fire(ctx, "comment-liked", "post-7"))

	second, err := m.Add(ctx, "comment-liked", "post-7", scheduler.Job{RunIn: time.Minute})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
