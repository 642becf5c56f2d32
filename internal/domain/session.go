package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStats aggregates the outcome of one practice session.
// Accuracy is recomputed from Score and TotalItems on every attempt rather
// than accumulated, so it cannot drift.
type SessionStats struct {
	Score      int           `json:"score"`
	TotalItems int           `json:"totalItems"`
	Accuracy   float64       `json:"accuracy"`
	Duration   time.Duration `json:"duration"`
	XPGained   int           `json:"xpGained"`
}

// Session is one practice session: started, accumulating attempts, then
// finalized and handed off read-only.
type Session struct {
	ID        uuid.UUID        `json:"id"`
	StartTime time.Time        `json:"startTime"`
	EndTime   time.Time        `json:"endTime"`
	Language  LanguageCode     `json:"language"`
	Category  string           `json:"category,omitempty"`
	Sentences []SentenceRecord `json:"sentences"`
	Stats     SessionStats     `json:"stats"`
}

// MasteredCount returns the number of session records that were truly
// mastered (correct on the very first attempt).
func (s *Session) MasteredCount() int {
	count := 0
	for i := range s.Sentences {
		if s.Sentences[i].Mastered {
			count++
		}
	}
	return count
}
