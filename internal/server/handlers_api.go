package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	apperrors "github.com/nirupam89/SentimentAnalyzer/internal/errors"
)

type analyzeRequest struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id"`
}

type analyzeResponse struct {
	Fingerprint string    `json:"fingerprint"`
	Label       string    `json:"label"`
	Confidence  float64   `json:"confidence"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
	Cached      bool      `json:"cached"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ctx := c.Request().Context()

	result, reused, err := s.analyzer.Analyze(ctx, domain.AnalysisRequest{
		Text:      req.Text,
		RequestID: req.RequestID,
	})
	if err != nil {
		return err
	}

	if err := c.JSON(200, analyzeResponse{
		Fingerprint: result.Fingerprint,
		Label:       string(result.Label),
		Confidence:  result.Confidence,
		Model:       result.Model,
		CreatedAt:   result.CreatedAt,
		Cached:      reused,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetResult(c echo.Context) error {
	fingerprint := c.Param("fingerprint")
	if !domain.IsFingerprint(fingerprint) {
		return apperrors.ValidationError("invalid fingerprint format").WithField("fingerprint", fingerprint)
	}

	ctx := c.Request().Context()

	result, err := s.store.Get(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			return apperrors.NotFoundError("result not found").WithField("fingerprint", fingerprint)
		}
		return apperrors.StorageError("failed to load result", err).WithField("fingerprint", fingerprint)
	}

	if err := c.JSON(200, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListResults(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
		}
		limit = min(parsed, 100)
	}

	ctx := c.Request().Context()

	results, err := s.store.Recent(ctx, limit)
	if err != nil {
		return apperrors.StorageError("failed to list results", err)
	}

	if results == nil {
		results = []*domain.AnalysisResult{}
	}

	if err := c.JSON(200, map[string]any{
		"results": results,
		"count":   len(results),
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
