// Package mastery decides whether a sequence of attempts on one exercise
// item counts toward the session score and marks the item as durably
// mastered. The policy is strict: an item is mastered only when the very
// first attempt within the session is correct and no retry was ever needed.
// Succeeding after a retry records the item as learned but never mastered.
package mastery

import "errors"

// ErrNoAttempts is returned when an attempt sequence is empty.
var ErrNoAttempts = errors.New("attempt sequence cannot be empty")

// Verdict is the evaluator's judgment of one item's attempt history within
// a single session.
type Verdict struct {
	TotalAttempts       int
	FirstAttemptCorrect bool
	Mastered            bool
}

// Evaluator turns an item's ordered attempt history into a Verdict.
type Evaluator interface {
	// Evaluate judges the ordered list of submission results (one boolean
	// per submission) for one item within one session.
	Evaluate(attempts []bool) (Verdict, error)
}

// strictEvaluator implements the first-attempt-only mastery policy.
type strictEvaluator struct{}

// NewStrictEvaluator returns the standard Evaluator: mastered means correct
// on the first and only attempt.
func NewStrictEvaluator() Evaluator {
	return strictEvaluator{}
}

// Evaluate implements the Evaluator interface. It is pure: no side effects,
// and evaluating the same history twice yields the same verdict.
func (strictEvaluator) Evaluate(attempts []bool) (Verdict, error) {
	if len(attempts) == 0 {
		return Verdict{}, ErrNoAttempts
	}

	verdict := Verdict{
		TotalAttempts:       len(attempts),
		FirstAttemptCorrect: attempts[0],
	}

	// Any wrong attempt permanently forfeits mastery for this item in this
	// session, even when a later attempt corrects it.
	verdict.Mastered = attempts[0] && len(attempts) == 1

	return verdict, nil
}
