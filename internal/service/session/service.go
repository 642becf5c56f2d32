// Package session owns the lifecycle of one practice session: start,
// accumulate attempts, finish. Exactly one session may be active at a time
// for a given learner context.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/domain/mastery"
)

// Common error types for the session manager.
var (
	// ErrNoActiveSession indicates AddAttempt was called outside an active
	// session. This is a caller contract violation, not a transient
	// condition, so it fails loudly.
	ErrNoActiveSession = errors.New("no active session")

	// ErrInvalidItem indicates an attempt item is missing its original text
	// or translation.
	ErrInvalidItem = errors.New("invalid attempt item")
)

// AttemptItem identifies the exercise item an attempt was made on and
// carries the fields needed to rebuild it later.
type AttemptItem struct {
	Original string
	French   string
	Audio    string
	Category string
	Words    []string
}

// AttemptResult reports the effect of one attempt on the session.
type AttemptResult struct {
	// Verdict is the mastery evaluator's judgment of the item so far.
	Verdict mastery.Verdict

	// Completed is true once a correct answer has landed for the item.
	Completed bool

	// Stats is the session's aggregate state after this attempt.
	Stats domain.SessionStats
}

// SyncCanceller clears any pending debounced push timers. The session
// manager invokes it on explicit reset so an abandoned session cannot
// write stale data afterwards.
type SyncCanceller interface {
	CancelPending()
}

// Manager drives the session state machine idle → active → finalizing →
// idle.
type Manager interface {
	// Start begins a new session. Calling Start while a session is active
	// is a no-op that returns the already-active id, to tolerate duplicate
	// UI-side effect triggers.
	Start(ctx context.Context, language domain.LanguageCode, category string) (uuid.UUID, error)

	// AddAttempt records one submission for an item, re-evaluates its
	// mastery verdict, and recomputes the session aggregates. On the final
	// correct answer the item is appended to the session's sentence list.
	// Returns ErrNoActiveSession when no session is active.
	AddAttempt(ctx context.Context, item AttemptItem, correct bool) (*AttemptResult, error)

	// Finish finalizes the active session and returns its read-only
	// payload, transitioning back to idle. Finishing is idempotent:
	// without an active session it returns (nil, nil).
	Finish(ctx context.Context) (*domain.Session, error)

	// Reset abandons the active session, discarding all per-item attempt
	// state and cancelling any pending sync timers.
	Reset(ctx context.Context)

	// ActiveID reports the id of the active session, if any.
	ActiveID() (uuid.UUID, bool)
}

// ServiceError wraps session manager failures with operation context.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
