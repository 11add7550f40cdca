package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// Inference backend
	OllamaBaseURL     string        `env:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OllamaModel       string        `env:"OLLAMA_MODEL" default:"llama3.2"`
	BackendTimeout    time.Duration `env:"BACKEND_TIMEOUT" default:"10s"`
	BackendMaxRetries int           `env:"BACKEND_MAX_RETRIES" default:"3"`

	// Coordinator
	MaxTextLength         int           `env:"MAX_TEXT_LENGTH" default:"4096"`
	MaxConcurrentAnalyses int           `env:"MAX_CONCURRENT_ANALYSES" default:"8"`
	AnalysisQueueDepth    int           `env:"ANALYSIS_QUEUE_DEPTH" default:"32"`
	ResultTTL             time.Duration `env:"RESULT_TTL" default:"24h"`

	// Circuit breaker
	BreakerFailureRate float64       `env:"BREAKER_FAILURE_RATE" default:"0.5"`
	BreakerMinSamples  uint          `env:"BREAKER_MIN_SAMPLES" default:"5"`
	BreakerWindow      time.Duration `env:"BREAKER_WINDOW" default:"30s"`
	BreakerCooldown    time.Duration `env:"BREAKER_COOLDOWN" default:"15s"`

	// Inbound rate limiting
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"20"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"40"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"REDIS_URL":    cfg.RedisURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.MaxTextLength <= 0 {
		return fmt.Errorf("MAX_TEXT_LENGTH must be positive, got %d", cfg.MaxTextLength)
	}
	if cfg.MaxConcurrentAnalyses <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_ANALYSES must be positive, got %d", cfg.MaxConcurrentAnalyses)
	}
	if cfg.AnalysisQueueDepth < 0 {
		return fmt.Errorf("ANALYSIS_QUEUE_DEPTH must not be negative, got %d", cfg.AnalysisQueueDepth)
	}
	if cfg.BackendMaxRetries < 1 {
		return fmt.Errorf("BACKEND_MAX_RETRIES must be at least 1, got %d", cfg.BackendMaxRetries)
	}
	if cfg.BreakerFailureRate <= 0 || cfg.BreakerFailureRate > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATE must be in (0, 1], got %v", cfg.BreakerFailureRate)
	}

	return nil
}
