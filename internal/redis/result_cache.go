package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	"github.com/nirupam89/SentimentAnalyzer/internal/metrics"
)

const resultKeyPrefix = "result:"

// ResultCache caches analysis results by fingerprint with the freshness TTL.
// Entry expiry doubles as the freshness policy: a cache hit is always fresh.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ domain.ResultCache = (*ResultCache)(nil)

func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached result for a fingerprint, or (nil, nil) on a miss.
func (c *ResultCache) Get(ctx context.Context, fingerprint string) (*domain.AnalysisResult, error) {
	data, err := c.rdb.Get(ctx, resultKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ResultCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.ResultCacheTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		metrics.ResultCacheTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}

	metrics.ResultCacheTotal.WithLabelValues("hit").Inc()
	return &result, nil
}

// Set stores a result under its fingerprint with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, result *domain.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result for cache: %w", err)
	}

	if err := c.rdb.Set(ctx, resultKeyPrefix+result.Fingerprint, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// Invalidate drops the cached result for a fingerprint.
func (c *ResultCache) Invalidate(ctx context.Context, fingerprint string) error {
	if err := c.rdb.Del(ctx, resultKeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached result: %w", err)
	}
	return nil
}
