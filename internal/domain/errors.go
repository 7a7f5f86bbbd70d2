package domain

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is the sentinel every store backend returns when a
// well-formed id matches no live record.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError reports caller input that violates a service-level
// constraint. The caller can always recover by correcting the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a well-formed id with no matching record.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with ID %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrTaskNotFound }

// PersistenceError reports a storage backend failure with the underlying
// cause preserved. No backend-specific error type crosses the Repository
// boundary; they all arrive wrapped in this.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
