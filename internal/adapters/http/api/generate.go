package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/lumen/internal/domain/chat"
	"github.com/okian/lumen/internal/domain/model"
	"github.com/okian/lumen/pkg/logger"
)

// maxHistoryTurns bounds the history a client may send back.
const maxHistoryTurns = 100

// GenerateHandler answers chat prompts with text and speech.
type GenerateHandler struct {
	deps   ChatDependencies
	logger logger.Logger
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(deps ChatDependencies, l logger.Logger) *GenerateHandler {
	return &GenerateHandler{deps: deps, logger: l}
}

type generateRequest struct {
	Prompt             string           `json:"prompt"`
	TargetLanguageCode string           `json:"target_language_code"`
	History            []model.ChatTurn `json:"history"`
}

type audioPayload struct {
	AudioBase64 string `json:"audio_base64"`
}

type speechPayload struct {
	Audios []audioPayload `json:"audios"`
}

type generateResponse struct {
	Text      string           `json:"text"`
	Speech    speechPayload    `json:"speech"`
	RequestID string           `json:"request_id,omitempty"`
	Language  string           `json:"language"`
	History   []model.ChatTurn `json:"history"`
	Error     string           `json:"error,omitempty"`
}

// HandleGenerate handles POST /generate. Vendor failures are reported in the
// body with status 200; only malformed requests are rejected.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeKindError(w, WrapKind("generate", ErrBadRequest, errors.New("invalid json")))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeKindError(w, WrapKind("generate", ErrBadRequest, chat.ErrEmptyPrompt))
		return
	}
	if len(req.History) > maxHistoryTurns {
		req.History = req.History[len(req.History)-maxHistoryTurns:]
	}

	history, reply := h.deps.Converse(r.Context(), req.History, req.Prompt, strings.TrimSpace(req.TargetLanguageCode))
	if errors.Is(reply.Err, chat.ErrEmptyPrompt) {
		writeKindError(w, WrapKind("generate", ErrBadRequest, chat.ErrEmptyPrompt))
		return
	}

	resp := generateResponse{
		Text:      reply.Turn.Text,
		Speech:    speechPayload{Audios: []audioPayload{}},
		RequestID: reply.RequestID,
		Language:  reply.Language,
		History:   history,
	}
	if reply.Turn.HasAudio() {
		resp.Speech.Audios = append(resp.Speech.Audios, audioPayload{AudioBase64: reply.Turn.Audio})
	}
	if outcome := reply.Outcome(); outcome != chat.OutcomeOK {
		resp.Error = outcome
		h.logger.Debug(r.Context(), "generate answered in-band",
			logger.String("outcome", outcome),
			logger.String("request_id", reply.RequestID),
		)
	}
	if resp.History == nil {
		resp.History = []model.ChatTurn{}
	}
	writeJSON(w, http.StatusOK, resp)
}
