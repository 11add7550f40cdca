// Package redis provides the hot result cache in front of the PostgreSQL
// result store, plus the instrumented client it runs on. The cache is
// best-effort: a Redis outage degrades lookups to the store, never fails
// a request.
package redis
