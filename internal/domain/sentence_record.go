package domain

import (
	"strings"
	"time"
)

// LanguageCode identifies the target language of a learner context (e.g. "fr").
type LanguageCode string

// RecordKey is the identity of a sentence record within one learner context.
// Two records describe the same learned sentence exactly when their original
// text and category match.
type RecordKey struct {
	Original string
	Category string
}

// SentenceRecord is the durable trace of one sentence a learner has worked on.
// Records are never deleted; they are superseded by newer-timestamp merges.
type SentenceRecord struct {
	Original            string    `json:"original"`
	French              string    `json:"french"`
	Audio               string    `json:"audio,omitempty"`
	Category            string    `json:"category"`
	Words               []string  `json:"words,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
	NextReview          time.Time `json:"nextReview,omitempty"`
	Mastered            bool      `json:"mastered"`
	Attempts            int       `json:"attempts"`
	FirstAttemptCorrect bool      `json:"firstAttemptCorrect"`
}

// Key returns the record's identity key.
func (r *SentenceRecord) Key() RecordKey {
	return RecordKey{Original: r.Original, Category: r.Category}
}

// Validate checks that the record carries the fields required at the merge
// boundary. Records failing validation must never enter a store.
func (r *SentenceRecord) Validate() error {
	if strings.TrimSpace(r.Original) == "" {
		return ErrEmptyOriginal
	}
	if strings.TrimSpace(r.French) == "" {
		return ErrEmptyTranslation
	}
	return nil
}

// MergePolicy selects which union rule a merge applies to conflicting records.
type MergePolicy int

const (
	// MergeSession takes the incoming correctness verdict verbatim: a session
	// result is authoritative for the attempt it describes.
	MergeSession MergePolicy = iota

	// MergeRemote unions correctness toward true: remote data represents
	// previously confirmed durable mastery and must never regress a learner's
	// recorded progress.
	MergeRemote
)

// Merge resolves two records sharing an identity key into a single record.
// The record with the greater timestamp contributes all scalar fields
// (last-write-wins); equal timestamps favor the incoming record so replaying
// the same payload is idempotent. Under MergeRemote the mastery flags only
// ever escalate to true.
func Merge(existing, incoming SentenceRecord, policy MergePolicy) SentenceRecord {
	merged := incoming
	if existing.Timestamp.After(incoming.Timestamp) {
		merged = existing
	}

	if policy == MergeRemote {
		merged.Mastered = existing.Mastered || incoming.Mastered
		merged.FirstAttemptCorrect = existing.FirstAttemptCorrect || incoming.FirstAttemptCorrect
	}

	return merged
}
