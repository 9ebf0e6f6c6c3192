package domain

import "errors"

var (
	// ErrUnavailable signals that the interaction ledger could not be
	// reached. Callers degrade to empty aggregates instead of failing.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrInvalidInput signals a malformed caller-supplied value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidText signals message text that cannot be vectorized.
	ErrInvalidText = errors.New("text cannot be scored")
)
