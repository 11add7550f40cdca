package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nirupam89/SentimentAnalyzer/internal/config"
	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	apperrors "github.com/nirupam89/SentimentAnalyzer/internal/errors"
)

// --- Mock implementations ---

type mockAnalysisService struct {
	analyzeFn func(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, bool, error)
}

func (m *mockAnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, bool, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, req)
	}
	return nil, false, fmt.Errorf("not implemented")
}

type mockResultStore struct {
	getFn         func(ctx context.Context, fingerprint string) (*domain.AnalysisResult, error)
	recentFn      func(ctx context.Context, limit int) ([]*domain.AnalysisResult, error)
	upsertFn      func(ctx context.Context, result *domain.AnalysisResult) error
	deleteStaleFn func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (m *mockResultStore) Get(ctx context.Context, fingerprint string) (*domain.AnalysisResult, error) {
	if m.getFn != nil {
		return m.getFn(ctx, fingerprint)
	}
	return nil, domain.ErrResultNotFound
}

func (m *mockResultStore) Recent(ctx context.Context, limit int) ([]*domain.AnalysisResult, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockResultStore) Upsert(ctx context.Context, result *domain.AnalysisResult) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, result)
	}
	return nil
}

func (m *mockResultStore) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	if m.deleteStaleFn != nil {
		return m.deleteStaleFn(ctx, olderThan)
	}
	return 0, nil
}

type mockBackendChecker struct {
	err error
}

func (m *mockBackendChecker) Ping(_ context.Context) error {
	return m.err
}

type mockPostgresChecker struct {
	err error
}

func (m *mockPostgresChecker) Ping(_ context.Context) error {
	return m.err
}

type mockRedisChecker struct {
	err error
}

func (m *mockRedisChecker) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

// --- Test helpers ---

func newTestServer(t *testing.T, analyzer domain.AnalysisService, store domain.ResultStore, opts ...func(*Server)) *Server {
	t.Helper()

	e := echo.New()
	// Install error middleware for tests to match production behavior
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      &config.Config{Port: "8080"},
		analyzer:    analyzer,
		store:       store,
		backend:     &mockBackendChecker{},
		db:          &mockPostgresChecker{},
		redisClient: &mockRedisChecker{},
		rateLimiter: NewRateLimiter(1000, 1000),
		startTime:   time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withBackendCheck(backend backendHealthChecker) func(*Server) {
	return func(s *Server) {
		s.backend = backend
	}
}

func withPostgresCheck(pg postgresHealthChecker) func(*Server) {
	return func(s *Server) {
		s.db = pg
	}
}

func withRedisCheck(redis redisHealthChecker) func(*Server) {
	return func(s *Server) {
		s.redisClient = redis
	}
}

func withRateLimiter(limiter *RateLimiter) func(*Server) {
	return func(s *Server) {
		s.rateLimiter = limiter
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}
