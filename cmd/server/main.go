package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nirupam89/SentimentAnalyzer/internal/analyzer"
	"github.com/nirupam89/SentimentAnalyzer/internal/breaker"
	"github.com/nirupam89/SentimentAnalyzer/internal/config"
	"github.com/nirupam89/SentimentAnalyzer/internal/database"
	"github.com/nirupam89/SentimentAnalyzer/internal/llm"
	"github.com/nirupam89/SentimentAnalyzer/internal/logging"
	"github.com/nirupam89/SentimentAnalyzer/internal/redis"
	"github.com/nirupam89/SentimentAnalyzer/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrationsWithLock(ctx, db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return db
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	resultRepo := database.NewResultRepo(pool)
	resultCache := redis.NewResultCache(redisClient, cfg.ResultTTL)

	// Prune rows that have aged out of the freshness window
	stopJanitor := database.StartJanitor(resultRepo, clock, cfg.ResultTTL, time.Hour)
	defer stopJanitor()

	backendBreaker := breaker.New("ollama", breaker.Config{
		FailureRate: cfg.BreakerFailureRate,
		MinSamples:  cfg.BreakerMinSamples,
		Window:      cfg.BreakerWindow,
		Cooldown:    cfg.BreakerCooldown,
	})

	classifier := llm.NewClient(llm.Config{
		BaseURL:    cfg.OllamaBaseURL,
		Model:      cfg.OllamaModel,
		Timeout:    cfg.BackendTimeout,
		MaxRetries: cfg.BackendMaxRetries,
	}, backendBreaker)

	engine := analyzer.NewEngine(classifier, resultRepo, resultCache, backendBreaker, clock, analyzer.Config{
		MaxTextLength: cfg.MaxTextLength,
		ResultTTL:     cfg.ResultTTL,
		MaxConcurrent: cfg.MaxConcurrentAnalyses,
		QueueDepth:    cfg.AnalysisQueueDepth,
	})

	srv := server.NewServer(cfg, engine, resultRepo, classifier, pool, redisClient)

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
