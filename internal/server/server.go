package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nirupam89/SentimentAnalyzer/internal/config"
	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	apperrors "github.com/nirupam89/SentimentAnalyzer/internal/errors"
	"github.com/nirupam89/SentimentAnalyzer/internal/platform/correlation"
)

// backendHealthChecker is a minimal interface for inference backend health checks
type backendHealthChecker interface {
	Ping(ctx context.Context) error
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

// redisHealthChecker is a minimal interface for Redis health checks
type redisHealthChecker interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	analyzer    domain.AnalysisService
	store       domain.ResultStore
	backend     backendHealthChecker
	db          postgresHealthChecker
	redisClient redisHealthChecker
	rateLimiter *RateLimiter
	startTime   time.Time
}

func NewServer(cfg *config.Config, analyzer domain.AnalysisService, store domain.ResultStore, backend backendHealthChecker, pool *pgxpool.Pool, redisClient *goredis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(correlationMiddleware())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		analyzer:    analyzer,
		store:       store,
		backend:     backend,
		db:          pool,
		redisClient: redisClient,
		rateLimiter: NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		startTime:   time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// correlationMiddleware tags each request context with a correlation ID,
// reusing the caller-provided X-Request-ID when present.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Request-ID")
			if id == "" {
				id = correlation.NewID()
			}

			ctx := correlation.WithID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Request-ID", id)

			return next(c)
		}
	}
}
