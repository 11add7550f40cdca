package domain

import (
	"context"
	"time"
)

// Sentiment is a classification label produced by the inference backend.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentMixed    Sentiment = "MIXED"
)

// ParseSentiment maps a backend-provided label onto the fixed taxonomy.
// Returns false for anything outside it.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return Sentiment(s), true
	}
	return "", false
}

// AnalysisRequest is a single inbound classification request. Ephemeral;
// owned by the coordinator for the duration of the call.
type AnalysisRequest struct {
	Text      string
	RequestID string
}

// AnalysisResult is a persisted classification keyed by content fingerprint.
type AnalysisResult struct {
	Fingerprint string    `json:"fingerprint"`
	Label       Sentiment `json:"label"`
	Confidence  float64   `json:"confidence"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
}

// Classification is the raw output of one inference backend call.
type Classification struct {
	Label      Sentiment
	Confidence float64
	Model      string
}

// Classifier is the inference backend contract.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}

// ResultStore persists analysis results keyed by fingerprint.
// Upsert is idempotent: writing the same fingerprint with the same payload
// twice is observably a no-op.
type ResultStore interface {
	Upsert(ctx context.Context, result *AnalysisResult) error
	Get(ctx context.Context, fingerprint string) (*AnalysisResult, error)
	Recent(ctx context.Context, limit int) ([]*AnalysisResult, error)
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// ResultCache is a best-effort hot cache in front of the result store.
// Get returns (nil, nil) on a miss; implementations must never fail a
// request on cache errors.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) (*AnalysisResult, error)
	Set(ctx context.Context, result *AnalysisResult) error
}

// Breaker guards the inference backend against cascading overload.
// Allow reports whether a call may be dispatched; outcomes are recorded by
// the inference client after each attempt.
type Breaker interface {
	Allow() bool
	RecordSuccess()
	RecordFailure(err error)
	State() string
}

// AnalysisService is the coordinator surface consumed by the HTTP layer.
// The returned bool reports whether the result was served from storage
// rather than a fresh backend call.
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, bool, error)
}
