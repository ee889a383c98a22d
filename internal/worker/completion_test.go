package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"condo/config"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) SweepCompletions(_ context.Context) (int, error) {
	f.calls.Add(1)

	if f.err != nil {
		return 0, f.err
	}

	return 1, nil
}

func TestCompletion_RunSweepsUntilCancelled(t *testing.T) {
	sweeper := &fakeSweeper{}

	cfg := &config.Config{}
	worker := NewCompletion(sweeper, cfg)
	worker.interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	// One immediate sweep plus at least one tick.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	assert.GreaterOrEqual(t, sweeper.calls.Load(), int32(2))
}

func TestCompletion_SweepErrorDoesNotStopWorker(t *testing.T) {
	sweeper := &fakeSweeper{err: assert.AnError}

	cfg := &config.Config{}
	worker := NewCompletion(sweeper, cfg)
	worker.interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Millisecond)
	defer cancel()

	worker.Run(ctx)

	assert.GreaterOrEqual(t, sweeper.calls.Load(), int32(3))
}

func TestNewCompletion_DefaultInterval(t *testing.T) {
	cfg := &config.Config{}

	worker := NewCompletion(&fakeSweeper{}, cfg)

	assert.Equal(t, time.Minute, worker.interval)
}
