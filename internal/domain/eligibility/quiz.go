// Package eligibility scores the loan-eligibility quiz.
package eligibility

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Option count bounds for a question.
const (
	minOptions = 2
	maxOptions = 4
)

// Question is one quiz item. CorrectAnswer is the option that earns the full
// weight; neighbouring options earn part of it.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"-"`
	Weight        float64  `json:"-"`
	Tip           string   `json:"tip,omitempty"`
}

func (q Question) validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if len(q.Options) < minOptions || len(q.Options) > maxOptions {
		return fmt.Errorf("%w: %q has %d options, want %d-%d", ErrInvalidQuestion, q.Prompt, len(q.Options), minOptions, maxOptions)
	}
	if !slices.Contains(q.Options, q.CorrectAnswer) {
		return fmt.Errorf("%w: %q correct answer %q is not an option", ErrInvalidQuestion, q.Prompt, q.CorrectAnswer)
	}
	if !(q.Weight > 0) || math.IsInf(q.Weight, 0) {
		return fmt.Errorf("%w: %q weight must be positive and finite", ErrInvalidQuestion, q.Prompt)
	}
	return nil
}

// optionIndex returns the position of option, or -1.
func (q Question) optionIndex(option string) int {
	return slices.Index(q.Options, option)
}

// Quiz is a validated, ordered list of questions.
type Quiz struct {
	questions   []Question
	totalWeight float64
}

// NewQuiz validates questions and returns an immutable Quiz.
func NewQuiz(questions []Question) (Quiz, error) {
	if len(questions) == 0 {
		return Quiz{}, ErrEmptyQuiz
	}
	qs := make([]Question, len(questions))
	var total float64
	for i, q := range questions {
		if err := q.validate(); err != nil {
			return Quiz{}, fmt.Errorf("question %d: %w", i, err)
		}
		q.Options = slices.Clone(q.Options)
		qs[i] = q
		total += q.Weight
	}
	return Quiz{questions: qs, totalWeight: total}, nil
}

// Len returns the number of questions.
func (z Quiz) Len() int { return len(z.questions) }

// Questions returns a copy of the questions in order.
func (z Quiz) Questions() []Question {
	out := make([]Question, len(z.questions))
	for i, q := range z.questions {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}

// TotalWeight is the highest reachable score.
func (z Quiz) TotalWeight() float64 { return z.totalWeight }

// AnswerSet maps a question index to the chosen option text.
type AnswerSet map[int]string

// With returns a copy of a with one more answer.
func (a AnswerSet) With(index int, option string) AnswerSet {
	out := make(AnswerSet, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[index] = option
	return out
}

// Complete reports whether questions 0..n-1 all have an answer.
func (a AnswerSet) Complete(n int) bool {
	for i := 0; i < n; i++ {
		if _, ok := a[i]; !ok {
			return false
		}
	}
	return true
}
