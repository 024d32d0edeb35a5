package repository

import "errors"

// ErrStateNotFound is returned when no snapshot set has been persisted yet.
// Callers treat it as an empty previous set, not as a failure.
var ErrStateNotFound = errors.New("snapshot state not found")
