package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nirupam89/SentimentAnalyzer/internal/database"
)

func main() {
	var (
		databaseURL = flag.String("database", os.Getenv("DATABASE_URL"), "PostgreSQL URL (or set DATABASE_URL env)")
		olderThan   = flag.Duration("older-than", 24*time.Hour, "Delete results older than this duration")
		dryRun      = flag.Bool("dry-run", false, "Dry run mode (don't delete anything)")
		verbose     = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("Database URL required (--database or DATABASE_URL env)")
	}

	// Configure logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, *databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	slog.Info("Connected to database", "url", sanitizeURL(*databaseURL))

	cutoff := time.Now().Add(-*olderThan)
	repo := database.NewResultRepo(pool)

	if *dryRun {
		count, err := repo.CountStale(ctx, cutoff)
		if err != nil {
			log.Fatalf("Failed to count stale results: %v", err)
		}
		slog.Info("Dry run complete", "would_delete", count, "cutoff", cutoff.Format(time.RFC3339))
		return
	}

	start := time.Now()
	deleted, err := repo.DeleteStale(ctx, cutoff)
	if err != nil {
		log.Fatalf("Failed to delete stale results: %v", err)
	}

	slog.Info("Cleanup complete",
		"deleted", deleted,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds())
}

func sanitizeURL(url string) string {
	// Hide password in database URL for logging
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) == 2 {
			credParts := strings.Split(parts[0], ":")
			if len(credParts) >= 2 {
				return credParts[0] + ":***@" + parts[1]
			}
		}
	}
	return url
}
