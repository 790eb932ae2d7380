package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/lumen/internal/adapters/vendors/sarvam"
	"github.com/okian/lumen/pkg/logger"
	"github.com/tidwall/gjson"
)

// TranslateHandler forwards translation requests to the vendor.
type TranslateHandler struct {
	deps   TranslateDependencies
	logger logger.Logger
}

// NewTranslateHandler creates a new translate handler.
func NewTranslateHandler(deps TranslateDependencies, l logger.Logger) *TranslateHandler {
	return &TranslateHandler{deps: deps, logger: l}
}

// HandleTranslate handles POST /translate. The vendor status and JSON body
// are relayed as they are.
func (h *TranslateHandler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sarvam.TranslateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeKindError(w, WrapKind("translate", ErrBadRequest, errors.New("invalid json")))
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeKindError(w, WrapKind("translate", ErrBadRequest, errors.New("input is required")))
		return
	}

	status, body, err := h.deps.Translate(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, sarvam.ErrMissingAPIKey):
		writeKindError(w, WrapKind("translate", ErrVendorDisabled, errors.New("translation is not configured")))
		return
	case sarvam.IsUnreachable(err):
		h.logger.Warn(r.Context(), "translate vendor unreachable", logger.Error(err))
		writeKindError(w, WrapKind("translate", ErrVendorUnreachable, errors.New("translation service unreachable")))
		return
	default:
		h.logger.Error(r.Context(), "translate failed", logger.Error(err))
		writeKindError(w, WrapKind("translate", ErrInternal, err))
		return
	}

	if !gjson.ValidBytes(body) {
		writeError(w, http.StatusBadGateway, "vendor_malformed", errors.New(http.StatusText(status)))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
