package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketfeed/notifykit/pkg/async"
)

func TestGo_Success(t *testing.T) {
	t.Parallel()

	f := async.Go(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	result, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestGo_Error(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	f := async.Go(context.Background(), func(ctx context.Context) (string, error) {
		return "", wantErr
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, wantErr)
}

func TestGo_PreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	f := async.Go(ctx, func(ctx context.Context) (int, error) {
		called.Store(true)
		return 1, nil
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load())
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	f := async.Go(context.Background(), func(ctx context.Context) (int, error) {
		<-block
		return 7, nil
	})

	_, err := f.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)

	close(block)
	result, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 7, result)
}

func TestIsComplete(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	f := async.Go(context.Background(), func(ctx context.Context) (int, error) {
		<-block
		return 0, nil
	})

	assert.False(t, f.IsComplete())
	close(block)

	_, _ = f.Await()
	assert.True(t, f.IsComplete())
}

func TestWaitAll_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("second failed")
	f1 := async.Go(context.Background(), func(ctx context.Context) (int, error) { return 1, nil })
	f2 := async.Go(context.Background(), func(ctx context.Context) (int, error) { return 0, wantErr })
	f3 := async.Go(context.Background(), func(ctx context.Context) (int, error) { return 3, nil })

	results, err := async.WaitAll(f1, f2, f3)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, results[0])
}

func TestWaitAllSettled_IsolatesFailures(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("branch failed")
	f1 := async.Go(context.Background(), func(ctx context.Context) (string, error) { return "a", nil })
	f2 := async.Go(context.Background(), func(ctx context.Context) (string, error) { return "", wantErr })
	f3 := async.Go(context.Background(), func(ctx context.Context) (string, error) { return "c", nil })

	settled := async.WaitAllSettled(f1, f2, f3)

	require.Len(t, settled, 3)
	assert.True(t, settled[0].OK())
	assert.Equal(t, "a", settled[0].Value)
	assert.ErrorIs(t, settled[1].Err, wantErr)
	assert.True(t, settled[2].OK())
	assert.Equal(t, "c", settled[2].Value)
}

func TestWaitAllSettled_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, async.WaitAllSettled[int]())
}

func TestGo_RunsConcurrently(t *testing.T) {
	t.Parallel()

	start := time.Now()
	futures := make([]*async.Future[int], 4)
	for i := range futures {
		i := i
		futures[i] = async.Go(context.Background(), func(ctx context.Context) (int, error) {
			time.Sleep(50 * time.Millisecond)
			return i, nil
		})
	}

	_, err := async.WaitAll(futures...)
	require.NoError(t, err)

	// Four 50ms tasks running concurrently should finish well under 200ms.
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}
