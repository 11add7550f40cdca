// Package server exposes the HTTP surface: the classification endpoint,
// result lookups, health and readiness probes, metrics, and version info.
// Routing is a thin veneer; all analysis semantics live in the analyzer.
package server
