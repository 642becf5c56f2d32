// Package revision owns the durable side of learning progress: folding
// freshly finished sessions and remote snapshots into the sentence record
// store, and selecting the working set for revision passes.
package revision

import (
	"context"
	"errors"
	"fmt"

	"github.com/parlons/parlons-api/internal/domain"
)

// Common error types for the revision service.
var (
	// ErrNilSession indicates MergeSession was called without a session.
	ErrNilSession = errors.New("session cannot be nil")

	// ErrNilSnapshot indicates MergeRemote was called without a snapshot.
	ErrNilSnapshot = errors.New("remote snapshot cannot be nil")

	// ErrRemoteDisabled indicates no remote store is configured for this
	// engine instance.
	ErrRemoteDisabled = errors.New("remote synchronization is disabled")
)

// MergeResult summarizes one pass through the merge primitive.
type MergeResult struct {
	// Merged is the number of records folded into the store.
	Merged int `json:"merged"`

	// Rejected is the number of records refused at the merge boundary for
	// missing identity or translation fields.
	Rejected int `json:"rejected"`

	// Source tags the merge origin (e.g. "session", "remote").
	Source string `json:"source"`
}

// MergeNotifier receives a notification after every completed merge, once
// the store has been made durable. The sync coordinator implements this to
// debounce remote pushes and broadcast update events.
type MergeNotifier interface {
	NotifyMerge(ctx context.Context, language domain.LanguageCode, count int, source string)
}

// Service reconciles the sentence record store. Every call site that folds
// records into durable state routes through this service; direct writes
// bypassing it are forbidden by contract, or updates would be lost.
type Service interface {
	// MergeSession folds a finished session's records into the store using
	// the session policy: the evaluator's mastery verdict is taken verbatim.
	MergeSession(ctx context.Context, session *domain.Session) (*MergeResult, error)

	// MergeRemote folds a normalized remote snapshot into the store using
	// the remote policy: recorded mastery only ever escalates to true,
	// because remote data represents previously confirmed durable progress.
	MergeRemote(ctx context.Context, snapshot *domain.RemoteSnapshot) (*MergeResult, error)

	// ReconcileRemote loads the remote snapshot for this context and merges
	// it. A missing remote document is not an error; transport failures are
	// returned and the caller retries on its next cycle.
	ReconcileRemote(ctx context.Context) (*MergeResult, error)

	// Progress returns the derived read-only revision view. Readers may
	// transiently observe pre-merge state while a merge is in flight.
	Progress(ctx context.Context) *domain.RevisionProgress

	// StartPass selects the working set for a revision pass: a random
	// shuffle of all mastered records, capped at the configured lesson size.
	StartPass(ctx context.Context) []domain.SentenceRecord

	// RecordResult annotates the record for a completed revision item with
	// its next review time and re-merges it. Recorded mastery is not
	// regressed by a failed revision.
	RecordResult(ctx context.Context, key domain.RecordKey, correct bool) error
}

// ServiceError wraps errors from the revision service with additional
// context, so consumers can differentiate failures with errors.As instead
// of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "merge_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
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
