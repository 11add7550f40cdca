// Package llm implements the inference client against an Ollama backend.
//
// The client owns the per-call timeout and local retry policy: timeouts and
// 5xx responses are retried a bounded number of times with exponential
// backoff and jitter, while contract violations (unparseable responses,
// rejected input) are surfaced immediately. Every attempt's outcome is
// reported to the circuit breaker and to Prometheus.
package llm
