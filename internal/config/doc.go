// Package config loads and validates environment-driven configuration.
// All tunables of the analysis core (timeouts, concurrency cap, queue depth,
// freshness TTL, breaker thresholds) are defaults here, not fixed behavior.
package config
