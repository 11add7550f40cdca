package domain

import "errors"

// ErrResultNotFound is returned by ResultStore.Get when no row exists for
// the given fingerprint.
var ErrResultNotFound = errors.New("analysis result not found")
