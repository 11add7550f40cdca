// Package breaker guards the inference backend with a circuit breaker.
//
// State machine: CLOSED -> OPEN when the failure rate over a sliding window
// exceeds the threshold (given a minimum sample count), OPEN -> HALF_OPEN
// after the cooldown, where a single probe either closes the circuit again
// or reopens it. While OPEN, callers fail fast instead of queueing behind a
// dead backend.
package breaker

import (
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/nirupam89/SentimentAnalyzer/internal/metrics"
)

// Config holds the breaker thresholds. Zero values are replaced by defaults.
type Config struct {
	// FailureRate in (0, 1] that trips the circuit.
	FailureRate float64
	// MinSamples is the minimum number of calls in the window before the
	// rate is evaluated.
	MinSamples uint
	// Window is the sliding window over which the rate is measured.
	Window time.Duration
	// Cooldown is how long the circuit stays OPEN before a probe is allowed.
	Cooldown time.Duration
}

func (c Config) withDefaults() Config {
	if c.FailureRate <= 0 || c.FailureRate > 1 {
		c.FailureRate = 0.5
	}
	if c.MinSamples == 0 {
		c.MinSamples = 5
	}
	if c.Window <= 0 {
		c.Window = 30 * time.Second
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 15 * time.Second
	}
	return c
}

// Breaker is an explicit, injectable circuit breaker component. Each instance
// owns its own state; tests construct fresh ones.
type Breaker struct {
	name string
	cb   circuitbreaker.CircuitBreaker[any]
}

// New creates a breaker for the named component.
func New(name string, cfg Config) *Breaker {
	cfg = cfg.withDefaults()

	// failsafe-go takes the failure rate as a whole percentage.
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(uint(cfg.FailureRate*100), cfg.MinSamples, cfg.Window).
		WithDelay(cfg.Cooldown).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)

			metrics.CircuitBreakerStateChanges.WithLabelValues(name, e.NewState.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(e.NewState))
		}).
		Build()

	return &Breaker{name: name, cb: cb}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// Allow reports whether a backend call may be dispatched. In HALF_OPEN state
// this acquires the single probe permit.
func (b *Breaker) Allow() bool {
	return b.cb.TryAcquirePermit()
}

// RecordSuccess records a successful backend call.
func (b *Breaker) RecordSuccess() {
	b.cb.RecordSuccess()
}

// RecordFailure records a failed backend call.
func (b *Breaker) RecordFailure(err error) {
	b.cb.RecordError(err)
}

// State returns the current circuit state as a string (closed/open/half-open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// IsOpen reports whether the circuit currently sheds load.
func (b *Breaker) IsOpen() bool {
	return b.cb.State() == circuitbreaker.OpenState
}
