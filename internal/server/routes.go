package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no rate limiting)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Analysis API (rate limited per client IP)
	api := s.echo.Group("/api/v1", s.rateLimitMiddleware())
	api.POST("/analyze", s.handleAnalyze)
	api.GET("/results", s.handleListResults)
	api.GET("/results/:fingerprint", s.handleGetResult)
}
