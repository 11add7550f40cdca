package analyzer

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/nirupam89/SentimentAnalyzer/internal/metrics"
)

// ErrQueueFull is returned by Acquire when both the in-flight cap and the
// wait queue are exhausted.
var ErrQueueFull = errors.New("analysis queue full")

// Limiter bounds the number of in-flight backend calls system-wide.
// Up to maxInflight calls run concurrently; up to maxQueued additional
// callers wait for a slot. Anything beyond that fails fast instead of
// growing unbounded memory.
type Limiter struct {
	slots     chan struct{}
	waiters   atomic.Int64
	maxQueued int64
}

func NewLimiter(maxInflight, maxQueued int) *Limiter {
	return &Limiter{
		slots:     make(chan struct{}, maxInflight),
		maxQueued: int64(maxQueued),
	}
}

// Acquire obtains an in-flight slot, waiting in the bounded queue if none
// is free. Returns ErrQueueFull when the queue is at capacity, or the
// context error if the caller gives up while queued.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		metrics.InflightAnalyses.Set(float64(l.InFlight()))
		return nil
	default:
	}

	if l.waiters.Add(1) > l.maxQueued {
		l.waiters.Add(-1)
		return ErrQueueFull
	}
	metrics.QueuedAnalyses.Set(float64(l.Queued()))
	defer func() {
		l.waiters.Add(-1)
		metrics.QueuedAnalyses.Set(float64(l.Queued()))
	}()

	select {
	case l.slots <- struct{}{}:
		metrics.InflightAnalyses.Set(float64(l.InFlight()))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees an in-flight slot.
func (l *Limiter) Release() {
	<-l.slots
	metrics.InflightAnalyses.Set(float64(l.InFlight()))
}

// InFlight returns the number of occupied slots.
func (l *Limiter) InFlight() int {
	return len(l.slots)
}

// Queued returns the number of callers waiting for a slot.
func (l *Limiter) Queued() int64 {
	return l.waiters.Load()
}

// Cap returns the maximum number of in-flight calls.
func (l *Limiter) Cap() int {
	return cap(l.slots)
}
