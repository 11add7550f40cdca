// Package database implements the PostgreSQL result store: connection pool
// setup, embedded schema migrations, and the fingerprint-keyed repository
// for analysis results.
package database
