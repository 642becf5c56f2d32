package revision

import (
	"context"
	"time"

	"github.com/parlons/parlons-api/internal/domain"
)

// Review spacing. NextReview only annotates records for potential future
// gating; the current revision flow does not filter by it.
const (
	reviewIntervalCorrect   = 24 * time.Hour
	reviewIntervalIncorrect = 10 * time.Minute
)

// NextReviewAt returns the earliest time a record becomes eligible for
// revision again after a result.
func NextReviewAt(wasCorrect bool, now time.Time) time.Time {
	if wasCorrect {
		return now.Add(reviewIntervalCorrect)
	}
	return now.Add(reviewIntervalIncorrect)
}

// StartPass implements Service.StartPass. Selection policy is "no time
// gating": every mastered record is eligible regardless of NextReview.
func (s *serviceImpl) StartPass(_ context.Context) []domain.SentenceRecord {
	eligible := make([]domain.SentenceRecord, 0)
	for _, record := range s.records.All() {
		if record.Mastered {
			eligible = append(eligible, record)
		}
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	s.rngMu.Unlock()

	if s.cfg.LessonSize > 0 && len(eligible) > s.cfg.LessonSize {
		eligible = eligible[:s.cfg.LessonSize]
	}
	return eligible
}
