package service

import "errors"

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidStatus is returned for a status outside todo, in-progress, done.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrMalformed is returned when the tasks file cannot be decoded or
	// contains a record that fails validation.
	ErrMalformed = errors.New("malformed tasks file")

	// ErrIDsExhausted is returned by Add when the largest id is already
	// math.MaxInt.
	ErrIDsExhausted = errors.New("task id space exhausted")
)
