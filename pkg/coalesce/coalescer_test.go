package coalesce_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketfeed/notifykit/pkg/coalesce"
	"github.com/marketfeed/notifykit/pkg/scheduler"
)

// mockClient is a testify mock of the scheduler client.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) Get(ctx context.Context, slug, key string) (*scheduler.Event, error) {
	args := m.Called(ctx, slug, key)
	ev, _ := args.Get(0).(*scheduler.Event)
	return ev, args.Error(1)
}

func (m *mockClient) Add(ctx context.Context, slug, key string, job scheduler.Job) (*scheduler.Event, error) {
	args := m.Called(ctx, slug, key, job)
	ev, _ := args.Get(0).(*scheduler.Event)
	return ev, args.Error(1)
}

func (m *mockClient) Update(ctx context.Context, id string, update scheduler.JobUpdate) (*scheduler.Event, error) {
	args := m.Called(ctx, id, update)
	ev, _ := args.Get(0).(*scheduler.Event)
	return ev, args.Error(1)
}

func newCoalescer(t *testing.T, client scheduler.Client, cfg coalesce.Config) *coalesce.Coalescer {
	t.Helper()
	if cfg.HookBaseURL == "" {
		cfg.HookBaseURL = "https://api.example.com"
	}
	c, err := coalesce.New(client, cfg)
	require.NoError(t, err)
	return c
}

func TestSend_Validation(t *testing.T) {
	t.Parallel()

	c := newCoalescer(t, scheduler.NewMemoryClient(), coalesce.Config{})

	err := c.Send(context.Background(), coalesce.SendParams{Key: "post-7"})
	assert.ErrorIs(t, err, coalesce.ErrMissingType)

	err = c.Send(context.Background(), coalesce.SendParams{Type: "comment-liked"})
	assert.ErrorIs(t, err, coalesce.ErrMissingKey)
}

func TestSend_FirstCallCreatesEvent(t *testing.T) {
	t.Parallel()

	client := new(mockClient)
	client.On("Get", mock.Anything, "comment-liked", "post-7").Return(nil, nil)
	client.On("Add", mock.Anything, "comment-liked", "post-7", mock.MatchedBy(func(job scheduler.Job) bool {
		return job.RunIn == 60*time.Second &&
			job.Request.Href == "https://api.example.com/hooks/comment-liked" &&
			job.Request.Method == "POST"
	})).Return(&scheduler.Event{ID: "ev-1"}, nil)

	c := newCoalescer(t, client, coalesce.Config{})

	err := c.Send(context.Background(), coalesce.SendParams{
		Type:   "comment-liked",
		Key:    "post-7",
		Delay:  60 * time.Second,
		Fields: map[string]any{"count": float64(1)},
	})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSend_DefaultDelay(t *testing.T) {
	t.Parallel()

	client := new(mockClient)
	client.On("Get", mock.Anything, "comment-liked", "post-7").Return(nil, nil)
	client.On("Add", mock.Anything, "comment-liked", "post-7", mock.MatchedBy(func(job scheduler.Job) bool {
		return job.RunIn == 900*time.Second
	})).Return(&scheduler.Event{ID: "ev-1"}, nil)

	c := newCoalescer(t, client, coalesce.Config{})

	err := c.Send(context.Background(), coalesce.SendParams{
		Type:   "comment-liked",
		Key:    "post-7",
		Fields: map[string]any{"count": float64(1)},
	})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSend_SecondCallMergesWithoutRescheduling(t *testing.T) {
	t.Parallel()

	client := new(mockClient)
	client.On("Get", mock.Anything, "comment-liked", "post-7").Return(&scheduler.Event{
		ID:      "ev-1",
		Slug:    "comment-liked",
		Key:     "post-7",
		Request: scheduler.Request{Body: map[string]any{"count": float64(3)}},
	}, nil)
	client.On("Update", mock.Anything, "ev-1", scheduler.JobUpdate{
		Body: map[string]any{"count": float64(5)},
	}).Return(&scheduler.Event{ID: "ev-1"}, nil)

	c := newCoalescer(t, client, coalesce.Config{})

	err := c.Send(context.Background(), coalesce.SendParams{
		Type:      "comment-liked",
		Key:       "post-7",
		Delay:     60 * time.Second, // must be ignored for an existing event
		Fields:    map[string]any{"count": float64(2)},
		Behaviors: coalesce.MergeBehaviors{Increment: []string{"count"}},
	})
	require.NoError(t, err)

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_DeadlineFixedByFirstCall(t *testing.T) {
	t.Parallel()

	mem := scheduler.NewMemoryClient()
	c := newCoalescer(t, mem, coalesce.Config{})
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, coalesce.SendParams{
		Type:   "comment-liked",
		Key:    "post-7",
		Delay:  900 * time.Second,
		Fields: map[string]any{"count": float64(1)},
	}))

	first, err := mem.Get(ctx, "comment-liked", "post-7")
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, c.Send(ctx, coalesce.SendParams{
		Type:      "comment-liked",
		Key:       "post-7",
		Delay:     60 * time.Second,
		Fields:    map[string]any{"count": float64(1)},
		Behaviors: coalesce.MergeBehaviors{Increment: []string{"count"}},
	}))

	second, err := mem.Get(ctx, "comment-liked", "post-7")
	require.NoError(t, err)
	require.NotNil(t, second)

	// The second call's shorter delay must not move the deadline.
	assert.Equal(t, first.RunAt, second.RunAt)
	assert.Equal(t, float64(2), second.Request.Body["count"])
}

func TestSend_FiredEventStartsFreshWindow(t *testing.T) {
	t.Parallel()

	mem := scheduler.NewMemoryClient()
	c := newCoalescer(t, mem, coalesce.Config{})
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, coalesce.SendParams{
		Type:   "comment-liked",
		Key:    "post-7",
		Fields: map[string]any{"count": float64(4)},
	}))

	first, err := mem.Get(ctx, "comment-liked", "post-7")
	require.NoError(t, err)

	require.True(t, mem.Fire(ctx, "comment-liked", "post-7"))

	require.NoError(t, c.Send(ctx, coalesce.SendParams{
		Type:      "comment-liked",
		Key:       "post-7",
		Fields:    map[string]any{"count": float64(1)},
		Behaviors: coalesce.MergeBehaviors{Increment: []string{"count"}},
	}))

	second, err := mem.Get(ctx, "comment-liked", "post-7")
	require.NoError(t, err)
	require.NotNil(t, second)

	// Fresh event: new identity, payload not merged with the fired one.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, float64(1), second.Request.Body["count"])
}

func TestSend_Disabled(t *testing.T) {
	t.Parallel()

	client := new(mockClient)
	c := newCoalescer(t, client, coalesce.Config{Disabled: true})

	err := c.Send(context.Background(), coalesce.SendParams{
		Type:   "comment-liked",
		Key:    "post-7",
		Fields: map[string]any{"count": float64(1)},
	})
	require.NoError(t, err)

	// The scheduler must never be touched in disabled mode.
	client.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_SchedulerFailureWrapped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(*mockClient)
	}{
		{
			name: "get fails",
			setup: func(m *mockClient) {
				m.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("network down"))
			},
		},
		{
			name: "add fails",
			setup: func(m *mockClient) {
				m.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
				m.On("Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("storage full"))
			},
		},
		{
			name: "update fails",
			setup: func(m *mockClient) {
				m.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(&scheduler.Event{ID: "ev-1"}, nil)
				m.On("Update", mock.Anything, "ev-1", mock.Anything).Return(nil, errors.New("conflict"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockClient)
			tt.setup(client)
			c := newCoalescer(t, client, coalesce.Config{})

			err := c.Send(context.Background(), coalesce.SendParams{
				Type:   "comment-liked",
				Key:    "post-7",
				Fields: map[string]any{"count": float64(1)},
			})
			assert.ErrorIs(t, err, coalesce.ErrScheduling)
		})
	}
}

func TestSend_ConcurrentSendsForSameKeyDoNotLoseUpdates(t *testing.T) {
	t.Parallel()

	mem := scheduler.NewMemoryClient()
	c := newCoalescer(t, mem, coalesce.Config{})
	ctx := context.Background()

	const sends = 25

	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.Send(ctx, coalesce.SendParams{
				Type:      "comment-liked",
				Key:       "post-7",
				Fields:    map[string]any{"count": float64(1)},
				Behaviors: coalesce.MergeBehaviors{Increment: []string{"count"}},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ev, err := mem.Get(ctx, "comment-liked", "post-7")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, float64(sends), ev.Request.Body["count"])
}

func TestSend_IndependentKeysDoNotInterfere(t *testing.T) {
	t.Parallel()

	mem := scheduler.NewMemoryClient()
	c := newCoalescer(t, mem, coalesce.Config{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("post-%d", i)
		require.NoError(t, c.Send(ctx, coalesce.SendParams{
			Type:   "comment-liked",
			Key:    key,
			Fields: map[string]any{"post": key},
		}))
	}

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("post-%d", i)
		ev, err := mem.Get(ctx, "comment-liked", key)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, key, ev.Request.Body["post"])
	}
}
