package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyResponded is returned when a response is set on a reminder
	// that already has one. The stored response is left unchanged.
	ErrAlreadyResponded = errors.New("reminder already responded")

	// ErrInvalidTransition is returned for a disallowed contract status
	// change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
