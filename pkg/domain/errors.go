package domain

import "errors"

// ErrInvalidLength is returned when a requested key length is zero or negative.
var ErrInvalidLength = errors.New("length must be positive")

// ErrEmptyInput is returned when entropy is requested for an empty string.
var ErrEmptyInput = errors.New("entropy input is empty")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrStepOutOfRange is returned when a snapshot index falls outside [0, length].
var ErrStepOutOfRange = errors.New("step index out of range")
