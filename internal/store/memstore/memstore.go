// Package memstore holds the canonical in-memory sentence record table.
// It is the single mutation point for record state: every call site that
// folds records into durable state routes through the revision engine's
// merge primitive, which ends here.
package memstore

import (
	"sort"
	"sync"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.RecordStore = (*RecordStore)(nil)

// RecordStore is a map-backed implementation of store.RecordStore with
// last-write-wins replacement per identity key.
type RecordStore struct {
	mu      sync.RWMutex
	records map[domain.RecordKey]domain.SentenceRecord
}

// New creates an empty RecordStore.
func New() *RecordStore {
	return &RecordStore{
		records: make(map[domain.RecordKey]domain.SentenceRecord),
	}
}

// NewFromRecords creates a RecordStore seeded with the given records,
// applying the same last-write-wins rule as Upsert for duplicate keys.
func NewFromRecords(records []domain.SentenceRecord) *RecordStore {
	s := New()
	for _, record := range records {
		s.Upsert(record)
	}
	return s
}

// Upsert implements store.RecordStore.
func (s *RecordStore) Upsert(record domain.SentenceRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.Key()
	existing, ok := s.records[key]
	if !ok {
		s.records[key] = record
		return true
	}

	// Incoming timestamp >= stored wins; equal timestamps make a replay of
	// the same record a no-op in content.
	if !record.Timestamp.Before(existing.Timestamp) {
		s.records[key] = record
	}
	return false
}

// Get implements store.RecordStore.
func (s *RecordStore) Get(key domain.RecordKey) (domain.SentenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return domain.SentenceRecord{}, store.ErrRecordNotFound
	}
	return record, nil
}

// BySentence implements store.RecordStore.
func (s *RecordStore) BySentence(original string) (domain.SentenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best domain.SentenceRecord
	found := false
	for _, record := range s.records {
		if record.Original != original {
			continue
		}
		if !found || record.Timestamp.After(best.Timestamp) {
			best = record
			found = true
		}
	}
	if !found {
		return domain.SentenceRecord{}, store.ErrRecordNotFound
	}
	return best, nil
}

// All implements store.RecordStore.
func (s *RecordStore) All() []domain.SentenceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len implements store.RecordStore.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Compact implements store.RecordStore. Eviction happens here and only
// here, on the persist path, so readers never observe a shrink mid-pass.
func (s *RecordStore) Compact(max int) []domain.SentenceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshotLocked()
	if max <= 0 || len(snapshot) <= max {
		return snapshot
	}

	evicted := snapshot[:len(snapshot)-max]
	for i := range evicted {
		delete(s.records, evicted[i].Key())
	}
	return snapshot[len(snapshot)-max:]
}

// snapshotLocked copies the table into a slice ordered oldest first.
// Callers must hold at least the read lock.
func (s *RecordStore) snapshotLocked() []domain.SentenceRecord {
	snapshot := make([]domain.SentenceRecord, 0, len(s.records))
	for _, record := range s.records {
		snapshot = append(snapshot, record)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].Timestamp.Equal(snapshot[j].Timestamp) {
			return snapshot[i].Original < snapshot[j].Original
		}
		return snapshot[i].Timestamp.Before(snapshot[j].Timestamp)
	})
	return snapshot
}
