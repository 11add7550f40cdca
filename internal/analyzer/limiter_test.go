package analyzer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(2, 0)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 2, l.InFlight())

	// Cap reached, queue empty: fail fast.
	assert.ErrorIs(t, l.Acquire(ctx), ErrQueueFull)

	l.Release()
	assert.Equal(t, 1, l.InFlight())
	require.NoError(t, l.Acquire(ctx))
}

func TestLimiter_QueuedCallerGetsSlot(t *testing.T) {
	l := NewLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))

	acquired := make(chan error, 1)
	go func() {
		acquired <- l.Acquire(ctx)
	}()

	// Wait until the second caller is queued.
	require.Eventually(t, func() bool { return l.Queued() == 1 }, time.Second, time.Millisecond)

	l.Release()
	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("queued caller never got the released slot")
	}
	assert.Equal(t, 1, l.InFlight())
}

func TestLimiter_QueueOverflowFailsFast(t *testing.T) {
	l := NewLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))

	waiting := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(waiting)
		done <- l.Acquire(ctx)
	}()

	<-waiting
	require.Eventually(t, func() bool { return l.Queued() == 1 }, time.Second, time.Millisecond)

	// Queue is full: this one must not block.
	start := time.Now()
	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	l.Release()
	require.NoError(t, <-done)
}

func TestLimiter_ContextCancelledWhileQueued(t *testing.T) {
	l := NewLimiter(1, 4)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.Acquire(ctx)
	}()

	require.Eventually(t, func() bool { return l.Queued() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("queued caller did not observe cancellation")
	}

	// The abandoned waiter must not leak its queue slot.
	assert.Eventually(t, func() bool { return l.Queued() == 0 }, time.Second, time.Millisecond)

	// And the in-flight slot is still usable after release.
	l.Release()
	require.NoError(t, l.Acquire(context.Background()))
}

func TestLimiter_ConcurrentAcquire(t *testing.T) {
	l := NewLimiter(10, 0)
	var successes, failures atomic.Int64

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := l.Acquire(context.Background()); err == nil {
				successes.Add(1)
			} else {
				failures.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int64(10), successes.Load())
	assert.Equal(t, int64(40), failures.Load())
	assert.Equal(t, 10, l.InFlight())
}
