package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
)

// StoreTestResult is a helper that persists a result with default values for
// testing. Returns the stored result.
func StoreTestResult(t *testing.T, repo *ResultRepo, text string, label domain.Sentiment) *domain.AnalysisResult {
	t.Helper()

	result := &domain.AnalysisResult{
		Fingerprint: domain.Fingerprint(text),
		Label:       label,
		Confidence:  0.9,
		Model:       "test-model",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	err := repo.Upsert(context.Background(), result)
	require.NoError(t, err)

	return result
}
