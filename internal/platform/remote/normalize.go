package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/parlons/parlons-api/internal/domain"
)

// The remote document has shipped in several shapes over time: the
// canonical {sentences, lastUpdated} envelope, a bare top-level record
// array, and a legacy {learned: {"original|category": record}} map.
// Normalize maps any accepted shape to canonical sentence records before
// anything reaches the merge engine; shape detection stays here, out of
// the merge logic.

// flexTime accepts RFC 3339 strings, epoch milliseconds, and null.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("%w: bad timestamp %q", domain.ErrInvalidSnapshot, s)
		}
		t.Time = parsed
		return nil
	}

	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		return fmt.Errorf("%w: bad timestamp %s", domain.ErrInvalidSnapshot, data)
	}
	t.Time = time.UnixMilli(millis).UTC()
	return nil
}

// wireRecord tolerates the field spellings of every known payload shape.
type wireRecord struct {
	Original            string   `json:"original"`
	French              string   `json:"french"`
	Audio               string   `json:"audio"`
	Category            string   `json:"category"`
	Words               []string `json:"words"`
	Timestamp           flexTime `json:"timestamp"`
	NextReview          flexTime `json:"nextReview"`
	Mastered            *bool    `json:"mastered"`
	IsCorrect           *bool    `json:"isCorrect"`
	Attempts            int      `json:"attempts"`
	FirstAttemptCorrect bool     `json:"firstAttemptCorrect"`
}

func (w *wireRecord) toDomain() domain.SentenceRecord {
	record := domain.SentenceRecord{
		Original:            w.Original,
		French:              w.French,
		Audio:               w.Audio,
		Category:            w.Category,
		Words:               w.Words,
		Timestamp:           w.Timestamp.Time,
		NextReview:          w.NextReview.Time,
		Attempts:            w.Attempts,
		FirstAttemptCorrect: w.FirstAttemptCorrect,
	}
	// Older payloads spelled mastery "isCorrect"; the explicit field wins
	// when both are present.
	switch {
	case w.Mastered != nil:
		record.Mastered = *w.Mastered
	case w.IsCorrect != nil:
		record.Mastered = *w.IsCorrect
	}
	return record
}

type wireEnvelope struct {
	Sentences   []wireRecord          `json:"sentences"`
	Learned     map[string]wireRecord `json:"learned"`
	LastUpdated flexTime              `json:"lastUpdated"`
}

// Normalize decodes any accepted wire shape into a canonical snapshot.
// Returns an error wrapping domain.ErrInvalidSnapshot when the payload
// fits none of the known shapes.
func Normalize(data []byte) (*domain.RemoteSnapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrInvalidSnapshot)
	}

	// Bare top-level array.
	if trimmed[0] == '[' {
		var records []wireRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSnapshot, err)
		}
		return envelope(records, time.Time{}), nil
	}

	var env wireEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSnapshot, err)
	}

	if env.Sentences != nil {
		return envelope(env.Sentences, env.LastUpdated.Time), nil
	}

	if env.Learned != nil {
		records := make([]wireRecord, 0, len(env.Learned))
		for key, record := range env.Learned {
			// Legacy map keys are "original|category"; fill fields the
			// record body omitted.
			if record.Original == "" || record.Category == "" {
				original, category, _ := strings.Cut(key, "|")
				if record.Original == "" {
					record.Original = original
				}
				if record.Category == "" {
					record.Category = category
				}
			}
			records = append(records, record)
		}
		return envelope(records, env.LastUpdated.Time), nil
	}

	return nil, fmt.Errorf("%w: unrecognized document shape", domain.ErrInvalidSnapshot)
}

func envelope(records []wireRecord, lastUpdated time.Time) *domain.RemoteSnapshot {
	snapshot := &domain.RemoteSnapshot{
		Sentences:   make([]domain.SentenceRecord, 0, len(records)),
		LastUpdated: lastUpdated,
	}
	for i := range records {
		snapshot.Sentences = append(snapshot.Sentences, records[i].toDomain())
	}
	return snapshot
}
