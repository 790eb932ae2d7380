package eligibility

import "errors"

// Sentinel kinds for quiz construction. Scoring itself never fails.
var (
	ErrInvalidQuestion = errors.New("invalid question")
	ErrEmptyQuiz       = errors.New("quiz has no questions")
)
