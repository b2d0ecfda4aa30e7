package storage

import "errors"

// Sentinel errors shared by all archive implementations. Callers match them
// with errors.Is regardless of the backing store.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert violates a uniqueness
	// constraint.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when the input fails validation before
	// reaching the store.
	ErrInvalidInput = errors.New("invalid input")
)
