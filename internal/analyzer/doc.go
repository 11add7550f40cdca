// Package analyzer implements the request coordinator: input validation,
// fingerprint-based result reuse, duplicate-request coalescing, the
// system-wide concurrency cap against the inference backend, and result
// persistence.
package analyzer
