package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parlons/parlons-api/internal/domain"
)

// MergeCompleted announces that a batch of sentence records has been folded
// into the durable store. It carries enough for consumers to decide whether
// to refresh their derived revision progress without polling.
type MergeCompleted struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Count is the number of records merged into the store
	Count int `json:"count"`

	// Source tags the merge origin (e.g. "session", "remote", "revision")
	Source string `json:"source"`

	// Language is the learner context the merge belongs to
	Language domain.LanguageCode `json:"language"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMergeCompleted creates a MergeCompleted event for the given merge.
func NewMergeCompleted(count int, source string, language domain.LanguageCode) MergeCompleted {
	return MergeCompleted{
		ID:         uuid.New(),
		Count:      count,
		Source:     source,
		Language:   language,
		OccurredAt: time.Now().UTC(),
	}
}

// Handler defines an interface for components that consume merge events.
type Handler interface {
	// HandleMergeCompleted processes the event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleMergeCompleted(ctx context.Context, event MergeCompleted) error
}

// Emitter defines an interface for components that publish merge events.
// This allows the sync coordinator to notify consumers without direct
// knowledge of them.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	// Returns an error if any handler fails.
	Emit(ctx context.Context, event MergeCompleted) error
}
