package api

import (
	"github.com/parlons/parlons-api/internal/domain"
)

// StartSessionRequest begins a practice session for a learner context.
type StartSessionRequest struct {
	Language string `json:"language" validate:"required"`
	Category string `json:"category,omitempty"`
}

// StartSessionResponse carries the id of the (possibly already) active
// session.
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

// AttemptRequest records one submission for an exercise item.
// Correct is a pointer so that an absent field fails validation instead of
// silently reading as false.
type AttemptRequest struct {
	Original string   `json:"original" validate:"required"`
	French   string   `json:"french"   validate:"required"`
	Audio    string   `json:"audio,omitempty"`
	Category string   `json:"category,omitempty"`
	Words    []string `json:"words,omitempty"`
	Correct  *bool    `json:"correct"  validate:"required"`
}

// AttemptResponse reports the evaluator's verdict and the session
// aggregates after the attempt.
type AttemptResponse struct {
	TotalAttempts       int                 `json:"totalAttempts"`
	FirstAttemptCorrect bool                `json:"firstAttemptCorrect"`
	Mastered            bool                `json:"mastered"`
	Completed           bool                `json:"completed"`
	Stats               domain.SessionStats `json:"stats"`
}

// FinishSessionResponse is the finalized session payload plus the result
// of folding it into the durable store.
type FinishSessionResponse struct {
	Session *domain.Session `json:"session"`
	Merged  int             `json:"merged"`
}

// RevisionResultRequest reports the outcome of one revision item.
type RevisionResultRequest struct {
	Original string `json:"original" validate:"required"`
	Category string `json:"category,omitempty"`
	Correct  *bool  `json:"correct"  validate:"required"`
}
