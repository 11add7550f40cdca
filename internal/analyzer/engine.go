package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	apperrors "github.com/nirupam89/SentimentAnalyzer/internal/errors"
	"github.com/nirupam89/SentimentAnalyzer/internal/metrics"
)

// Config holds the coordinator tunables.
type Config struct {
	// MaxTextLength is the inclusive upper bound on input size in bytes.
	MaxTextLength int
	// ResultTTL is the freshness window: a stored result younger than this
	// is served without a backend call.
	ResultTTL time.Duration
	// MaxConcurrent caps in-flight backend calls system-wide.
	MaxConcurrent int
	// QueueDepth bounds how many requests may wait for a backend slot.
	QueueDepth int
}

// Engine coordinates a single analysis request through validation, result
// reuse, backpressure, dispatch, and persistence.
type Engine struct {
	classifier domain.Classifier
	store      domain.ResultStore
	cache      domain.ResultCache
	breaker    domain.Breaker
	limiter    *Limiter
	group      singleflight.Group
	clock      clockwork.Clock
	cfg        Config
}

var _ domain.AnalysisService = (*Engine)(nil)

// NewEngine creates the coordinator. cache may be nil to run without a hot
// cache (lookups then go straight to the store).
func NewEngine(classifier domain.Classifier, store domain.ResultStore, cache domain.ResultCache, breaker domain.Breaker, clock clockwork.Clock, cfg Config) *Engine {
	return &Engine{
		classifier: classifier,
		store:      store,
		cache:      cache,
		breaker:    breaker,
		limiter:    NewLimiter(cfg.MaxConcurrent, cfg.QueueDepth),
		clock:      clock,
		cfg:        cfg,
	}
}

// Analyze validates the request, serves a fresh stored result when one
// exists, and otherwise dispatches exactly one backend call per distinct
// fingerprint. The bool reports whether the result was served from storage.
func (e *Engine) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, bool, error) {
	start := e.clock.Now()
	defer func() {
		metrics.AnalysisDuration.Observe(e.clock.Since(start).Seconds())
	}()

	if err := e.validate(req); err != nil {
		metrics.AnalysesTotal.WithLabelValues("invalid").Inc()
		return nil, false, err
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	fingerprint := domain.Fingerprint(req.Text)
	slog.DebugContext(ctx, "Analysis requested", "request_id", req.RequestID, "fingerprint", fingerprint)

	if result := e.lookup(ctx, fingerprint); result != nil {
		return result, true, nil
	}

	result, err, shared := e.group.Do(fingerprint, func() (any, error) {
		return e.dispatch(ctx, fingerprint, req.Text)
	})
	if err != nil {
		if apperrors.IsType(err, apperrors.TypeOverloaded) {
			metrics.AnalysesTotal.WithLabelValues("shed").Inc()
		} else {
			metrics.AnalysesTotal.WithLabelValues("error").Inc()
		}
		return nil, false, err
	}

	if shared {
		metrics.AnalysesTotal.WithLabelValues("coalesced").Inc()
	} else {
		metrics.AnalysesTotal.WithLabelValues("fresh").Inc()
	}
	return result.(*domain.AnalysisResult), false, nil
}

func (e *Engine) validate(req domain.AnalysisRequest) error {
	if domain.NormalizeText(req.Text) == "" {
		return apperrors.ValidationError("text must not be empty")
	}
	if len(req.Text) > e.cfg.MaxTextLength {
		return apperrors.ValidationError("text exceeds maximum length").
			WithField("max_length", e.cfg.MaxTextLength).
			WithField("length", len(req.Text))
	}
	return nil
}

// lookup serves a prior result for the fingerprint if one is still fresh.
// Cache entries expire with the TTL, so a cache hit is fresh by
// construction; store rows carry their age explicitly.
func (e *Engine) lookup(ctx context.Context, fingerprint string) *domain.AnalysisResult {
	if e.cache != nil {
		cached, err := e.cache.Get(ctx, fingerprint)
		if err != nil {
			slog.WarnContext(ctx, "Result cache lookup failed", "fingerprint", fingerprint, "error", err)
		} else if cached != nil {
			metrics.AnalysesTotal.WithLabelValues("cache_hit").Inc()
			return cached
		}
	}

	stored, err := e.store.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, domain.ErrResultNotFound) {
			slog.WarnContext(ctx, "Result store lookup failed", "fingerprint", fingerprint, "error", err)
		}
		return nil
	}

	if e.clock.Since(stored.CreatedAt) >= e.cfg.ResultTTL {
		return nil
	}

	metrics.AnalysesTotal.WithLabelValues("store_hit").Inc()
	e.cacheResult(ctx, stored)
	return stored
}

// dispatch runs the single backend call for a fingerprint. Concurrent
// duplicate requests wait on this call via singleflight instead of issuing
// their own.
func (e *Engine) dispatch(ctx context.Context, fingerprint, text string) (*domain.AnalysisResult, error) {
	if err := e.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, ErrQueueFull) {
			return nil, apperrors.OverloadedError("analysis queue full").
				WithField("max_concurrent", e.limiter.Cap())
		}
		return nil, fmt.Errorf("gave up waiting for an analysis slot: %w", err)
	}
	defer e.limiter.Release()

	// The breaker permit is consumed only once a slot is held: in HALF_OPEN
	// it grants the single probe, and every consumed permit must reach the
	// backend so an outcome gets recorded. Consuming it before a failed
	// Acquire would strand the probe and leave the circuit half-open with
	// no way to close.
	if !e.breaker.Allow() {
		return nil, apperrors.OverloadedError("inference backend temporarily unavailable").
			WithField("circuit_state", e.breaker.State())
	}

	// Once dispatched, the call keeps running if the original caller
	// disconnects; coalesced waiters may still want the result, and the
	// slot is released either way. The client enforces its own deadline.
	detached := context.WithoutCancel(ctx)

	classification, err := e.classifier.Classify(detached, text)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Fingerprint: fingerprint,
		Label:       classification.Label,
		Confidence:  classification.Confidence,
		Model:       classification.Model,
		CreatedAt:   e.clock.Now().UTC(),
	}

	if err := e.store.Upsert(detached, result); err != nil {
		return nil, apperrors.StorageError("failed to persist analysis result", err).
			WithField("fingerprint", fingerprint)
	}

	e.cacheResult(detached, result)
	return result, nil
}

func (e *Engine) cacheResult(ctx context.Context, result *domain.AnalysisResult) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, result); err != nil {
		slog.WarnContext(ctx, "Failed to cache analysis result", "fingerprint", result.Fingerprint, "error", err)
	}
}
