// Package metrics defines the Prometheus instrumentation shared across components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis Pipeline Metrics
var (
	// AnalysesTotal tracks analyze calls by outcome
	// (fresh, cache_hit, store_hit, coalesced, shed, error)
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total analyze calls by outcome",
		},
		[]string{"outcome"},
	)

	// AnalysisDuration tracks end-to-end analyze latency in seconds
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "End-to-end analyze duration in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// InflightAnalyses tracks currently dispatched backend calls
	InflightAnalyses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inflight_analyses",
			Help: "Number of backend calls currently in flight",
		},
	)

	// QueuedAnalyses tracks requests waiting for a backend slot
	QueuedAnalyses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "queued_analyses",
			Help: "Number of requests waiting for a backend slot",
		},
	)
)

// Inference Backend Metrics
var (
	// BackendRequestsTotal tracks backend attempts by status (success/failure)
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total inference backend attempts by status",
		},
		[]string{"status"},
	)

	// BackendRequestDuration tracks backend round-trip latency in seconds
	BackendRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Inference backend round-trip duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Result Cache Metrics
var (
	// ResultCacheTotal tracks cache lookups by result (hit/miss/error)
	ResultCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_total",
			Help: "Result cache lookups by result",
		},
		[]string{"result"},
	)
)

// Circuit Breaker Metrics
var (
	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Redis Operations Metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)
)

// Rate Limiting Metrics
var (
	// RateLimitRejections tracks inbound requests rejected by the per-IP limiter
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Inbound requests rejected by the per-IP rate limiter",
		},
	)
)

// Storage Metrics
var (
	// StaleResultsDeleted tracks rows removed by the stale-result janitor
	StaleResultsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stale_results_deleted_total",
			Help: "Analysis results removed after exceeding their freshness window",
		},
	)
)
