package domain

import "time"

// RevisionProgress is a derived, read-only view over the record store:
// the full record set plus the materialized set of learned keys and the
// most recent review time. It is rebuilt after every successful merge and
// never hand-edited.
type RevisionProgress struct {
	Records      []SentenceRecord `json:"records"`
	Learned      []RecordKey      `json:"learnedSentences"`
	LastReviewed time.Time        `json:"lastReviewed"`
}

// BuildRevisionProgress materializes a RevisionProgress from a record
// snapshot.
func BuildRevisionProgress(records []SentenceRecord) *RevisionProgress {
	progress := &RevisionProgress{
		Records: records,
		Learned: make([]RecordKey, 0, len(records)),
	}
	for i := range records {
		if records[i].Mastered {
			progress.Learned = append(progress.Learned, records[i].Key())
		}
		if records[i].Timestamp.After(progress.LastReviewed) {
			progress.LastReviewed = records[i].Timestamp
		}
	}
	return progress
}

// RemoteSnapshot is the canonical form of the remote store's whole-document
// payload after wire-shape normalization.
type RemoteSnapshot struct {
	Sentences   []SentenceRecord `json:"sentences"`
	LastUpdated time.Time        `json:"lastUpdated"`
}
