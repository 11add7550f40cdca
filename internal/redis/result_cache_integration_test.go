package redis

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
)

var testClient *goredis.Client

func TestMain(m *testing.M) {
	flag.Parse()

	// Skip container setup if running in short mode
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to terminate redis container: %v\n", err)
		}
	}()

	connStr, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		os.Exit(1)
	}

	testClient, err = NewClient(ctx, connStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test redis: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = testClient.Close() }()

	os.Exit(m.Run())
}

func setupTestCache(t *testing.T, ttl time.Duration) *ResultCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	require.NoError(t, testClient.FlushAll(context.Background()).Err())
	return NewResultCache(testClient, ttl)
}

func testResult(text string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Fingerprint: domain.Fingerprint(text),
		Label:       domain.SentimentPositive,
		Confidence:  0.93,
		Model:       "test-model",
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestResultCache_SetAndGet(t *testing.T) {
	cache := setupTestCache(t, time.Minute)
	ctx := context.Background()

	stored := testResult("I love this product")
	require.NoError(t, cache.Set(ctx, stored))

	got, err := cache.Get(ctx, stored.Fingerprint)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, stored.Fingerprint, got.Fingerprint)
	assert.Equal(t, stored.Label, got.Label)
	assert.Equal(t, stored.Confidence, got.Confidence)
	assert.Equal(t, stored.Model, got.Model)
	assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))
}

func TestResultCache_Miss(t *testing.T) {
	cache := setupTestCache(t, time.Minute)

	got, err := cache.Get(context.Background(), domain.Fingerprint("never cached"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResultCache_EntryExpires(t *testing.T) {
	cache := setupTestCache(t, 100*time.Millisecond)
	ctx := context.Background()

	stored := testResult("short lived")
	require.NoError(t, cache.Set(ctx, stored))

	got, err := cache.Get(ctx, stored.Fingerprint)
	require.NoError(t, err)
	require.NotNil(t, got)

	time.Sleep(200 * time.Millisecond)

	got, err = cache.Get(ctx, stored.Fingerprint)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResultCache_Invalidate(t *testing.T) {
	cache := setupTestCache(t, time.Minute)
	ctx := context.Background()

	stored := testResult("to be dropped")
	require.NoError(t, cache.Set(ctx, stored))
	require.NoError(t, cache.Invalidate(ctx, stored.Fingerprint))

	got, err := cache.Get(ctx, stored.Fingerprint)
	require.NoError(t, err)
	assert.Nil(t, got)
}
