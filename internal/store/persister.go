package store

import (
	"context"

	"github.com/parlons/parlons-api/internal/domain"
)

// Persister is the durable local persistence layer behind the in-memory
// record table. One entry exists per (language, context) key and holds the
// full JSON record array for that context.
// Version: 1.0
type Persister interface {
	// SaveRecords overwrites the persisted record array for the context.
	// Returns an error wrapping ErrPersistence on write failure; callers
	// log and continue, keeping in-memory state authoritative.
	SaveRecords(
		ctx context.Context,
		language domain.LanguageCode,
		contextKey string,
		records []domain.SentenceRecord,
	) error

	// LoadRecords reads the persisted record array for the context.
	// Returns an empty slice (not an error) when the context has never been
	// persisted.
	LoadRecords(
		ctx context.Context,
		language domain.LanguageCode,
		contextKey string,
	) ([]domain.SentenceRecord, error)
}
