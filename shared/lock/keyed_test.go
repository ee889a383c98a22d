package lock_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/shared/lock"
)

func TestKeyed_AcquireAndRelease(t *testing.T) {
	keyed := lock.NewKeyed()

	release, err := keyed.Acquire(context.Background(), "area-1", time.Second)
	require.NoError(t, err)

	release()

	// Re-acquire after release must succeed immediately.
	release, err = keyed.Acquire(context.Background(), "area-1", time.Second)
	require.NoError(t, err)
	release()
}

func TestKeyed_ContentionTimesOut(t *testing.T) {
	keyed := lock.NewKeyed()

	release, err := keyed.Acquire(context.Background(), "area-1", time.Second)
	require.NoError(t, err)
	defer release()

	_, err = keyed.Acquire(context.Background(), "area-1", 50*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestKeyed_DifferentKeysDoNotBlock(t *testing.T) {
	keyed := lock.NewKeyed()

	releasePool, err := keyed.Acquire(context.Background(), "pool", time.Second)
	require.NoError(t, err)
	defer releasePool()

	releaseGym, err := keyed.Acquire(context.Background(), "gym", 50*time.Millisecond)
	require.NoError(t, err)
	releaseGym()
}

func TestKeyed_CancelledContext(t *testing.T) {
	keyed := lock.NewKeyed()

	release, err := keyed.Acquire(context.Background(), "area-1", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = keyed.Acquire(ctx, "area-1", time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestKeyed_SerializesWriters(t *testing.T) {
	keyed := lock.NewKeyed()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			release, err := keyed.Acquire(context.Background(), "area-1", 5*time.Second)
			if err != nil {
				t.Error(err)

				return
			}

			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()

			release()
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, maxSeen, "at most one holder per key at a time")
}
