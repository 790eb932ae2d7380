package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/lumen/internal/domain/eligibility"
)

// EligibilityHandler serves the quiz and scores answers.
type EligibilityHandler struct {
	deps EligibilityDependencies
}

// NewEligibilityHandler creates a new eligibility handler.
func NewEligibilityHandler(deps EligibilityDependencies) *EligibilityHandler {
	return &EligibilityHandler{deps: deps}
}

type questionsResponse struct {
	Questions []eligibility.Question `json:"questions"`
	Total     int                    `json:"total"`
}

type scoreRequest struct {
	Answers map[string]string `json:"answers"`
}

// HandleQuestions handles GET /questions.
func (h *EligibilityHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	qs := h.deps.Questions()
	writeJSON(w, http.StatusOK, questionsResponse{Questions: qs, Total: len(qs)})
}

// HandleScore handles POST /eligibility. Keys that are not question
// indices are ignored; they cannot match any question.
func (h *EligibilityHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeKindError(w, WrapKind("eligibility", ErrBadRequest, errors.New("invalid json")))
		return
	}

	answers := make(eligibility.AnswerSet, len(req.Answers))
	for k, v := range req.Answers {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			continue
		}
		answers[i] = v
	}
	writeJSON(w, http.StatusOK, h.deps.Score(answers))
}
