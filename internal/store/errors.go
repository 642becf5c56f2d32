package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrPersistence is returned when the durable local persistence layer
	// fails to write. In-memory state remains authoritative until the next
	// successful write, so callers treat this as a non-fatal warning.
	ErrPersistence = errors.New("local persistence failed")

	// ErrRemoteUnavailable is returned when the remote snapshot store cannot
	// be reached or returns a transport-level failure. Non-fatal: local
	// operation continues and the next debounce cycle retries.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrRecordNotFound indicates that no sentence record exists for the
	// requested key.
	ErrRecordNotFound = fmt.Errorf("%w: sentence record", ErrNotFound)

	// ErrSnapshotNotFound indicates that the remote store holds no snapshot
	// for the requested context key. First-run contexts hit this path.
	ErrSnapshotNotFound = fmt.Errorf("%w: remote snapshot", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with
// additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "sentence_record", "snapshot")
	Operation string // The operation that failed (e.g., "save", "load")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
