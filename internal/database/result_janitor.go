package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	"github.com/nirupam89/SentimentAnalyzer/internal/metrics"
)

// StartJanitor starts a background goroutine that periodically deletes
// results older than ttl. Returns a stop function that should be called to
// clean up the goroutine.
func StartJanitor(store domain.ResultStore, clock clockwork.Clock, ttl, interval time.Duration) func() {
	ticker := clock.NewTicker(interval)
	done := make(chan bool)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer ticker.Stop()

		for {
			// A stop that races with a ready tick wins.
			select {
			case <-done:
				return
			default:
			}

			select {
			case <-ticker.Chan():
				cutoff := clock.Now().Add(-ttl)
				deleted, err := store.DeleteStale(context.Background(), cutoff)
				if err != nil {
					slog.Warn("Stale result cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					slog.Debug("Deleted stale analysis results",
						"count", deleted,
						"cutoff", cutoff.Format(time.RFC3339),
					)
					metrics.StaleResultsDeleted.Add(float64(deleted))
				}

			case <-done:
				return
			}
		}
	}()

	// Stopping waits for the goroutine to exit, so no cleanup pass runs
	// after this returns.
	return func() {
		close(done)
		<-stopped
	}
}
