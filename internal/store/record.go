package store

import (
	"github.com/parlons/parlons-api/internal/domain"
)

// RecordStore is the canonical in-memory table of learned-sentence records.
// Within one store there is at most one record per identity key.
//
// The store itself only applies last-write-wins replacement; the merge
// union rules of the revision engine are applied by callers before Upsert.
// All read methods return snapshots, never live views, so merges can run
// while readers iterate.
// Version: 1.0
type RecordStore interface {
	// Upsert inserts the record or replaces the stored record with the same
	// identity key. The replacement only happens when the incoming timestamp
	// is greater than or equal to the stored one (last-write-wins); older
	// records never overwrite newer ones. Returns true when a new key was
	// inserted.
	Upsert(record domain.SentenceRecord) bool

	// Get retrieves the record for the given identity key.
	// Returns ErrRecordNotFound if no record exists for the key.
	Get(key domain.RecordKey) (domain.SentenceRecord, error)

	// BySentence returns the record whose original text matches, if any.
	// When several categories hold the same original text, the most recently
	// touched record wins. Returns ErrRecordNotFound if none match.
	BySentence(original string) (domain.SentenceRecord, error)

	// All returns a snapshot of every record, ordered oldest first by
	// timestamp. Mutating the returned slice does not affect the store.
	All() []domain.SentenceRecord

	// Len returns the number of records currently held.
	Len() int

	// Compact drops oldest-by-timestamp records beyond max and returns the
	// surviving snapshot, oldest first. It is called on the persist path
	// only, never mid-read. A max of zero or less disables the cap.
	Compact(max int) []domain.SentenceRecord
}
