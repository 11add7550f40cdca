package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
)

// ResultRepo persists analysis results keyed by content fingerprint.
type ResultRepo struct {
	pool *pgxpool.Pool
}

var _ domain.ResultStore = (*ResultRepo)(nil)

func NewResultRepo(pool *pgxpool.Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

// Upsert writes a result, replacing any previous row for the same
// fingerprint. Writing an identical payload twice is observably a no-op.
func (r *ResultRepo) Upsert(ctx context.Context, result *domain.AnalysisResult) error {
	const q = `
		INSERT INTO analysis_results (fingerprint, label, confidence, model, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fingerprint) DO UPDATE
		SET label = EXCLUDED.label,
		    confidence = EXCLUDED.confidence,
		    model = EXCLUDED.model,
		    created_at = EXCLUDED.created_at`

	_, err := r.pool.Exec(ctx, q,
		result.Fingerprint, string(result.Label), result.Confidence, result.Model, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert analysis result: %w", err)
	}
	return nil
}

// Get returns the stored result for a fingerprint, or ErrResultNotFound.
func (r *ResultRepo) Get(ctx context.Context, fingerprint string) (*domain.AnalysisResult, error) {
	const q = `
		SELECT fingerprint, label, confidence, model, created_at
		FROM analysis_results
		WHERE fingerprint = $1`

	result, err := scanResult(r.pool.QueryRow(ctx, q, fingerprint))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}
	return result, nil
}

// Recent returns the most recently analyzed results, newest first.
func (r *ResultRepo) Recent(ctx context.Context, limit int) ([]*domain.AnalysisResult, error) {
	const q = `
		SELECT fingerprint, label, confidence, model, created_at
		FROM analysis_results
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	defer rows.Close()

	var results []*domain.AnalysisResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analysis results: %w", err)
	}
	return results, nil
}

// DeleteStale removes results created before the given cutoff and returns
// the number of rows deleted.
func (r *ResultRepo) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM analysis_results WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale results: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountStale reports how many results DeleteStale would remove.
func (r *ResultRepo) CountStale(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analysis_results WHERE created_at < $1`, olderThan).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stale results: %w", err)
	}
	return count, nil
}

func scanResult(row pgx.Row) (*domain.AnalysisResult, error) {
	var result AnalysisRow
	if err := row.Scan(&result.Fingerprint, &result.Label, &result.Confidence, &result.Model, &result.CreatedAt); err != nil {
		return nil, err
	}

	label, ok := domain.ParseSentiment(result.Label)
	if !ok {
		return nil, fmt.Errorf("stored label %q outside sentiment taxonomy", result.Label)
	}

	return &domain.AnalysisResult{
		Fingerprint: result.Fingerprint,
		Label:       label,
		Confidence:  result.Confidence,
		Model:       result.Model,
		CreatedAt:   result.CreatedAt,
	}, nil
}

// AnalysisRow mirrors the analysis_results table layout.
type AnalysisRow struct {
	Fingerprint string
	Label       string
	Confidence  float64
	Model       string
	CreatedAt   time.Time
}
