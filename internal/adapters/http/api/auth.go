package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/lumen/internal/domain/account"
	"github.com/okian/lumen/pkg/logger"
)

// Response messages the web client matches on.
const (
	msgRegistered         = "User registered successfully"
	msgLoggedIn           = "Login successful"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	deps   AuthDependencies
	logger logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies, l logger.Logger) *AuthHandler {
	return &AuthHandler{deps: deps, logger: l}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Message   string      `json:"message"`
	User      userPayload `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// HandleRegister handles POST /register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeKindError(w, WrapKind("auth.register", ErrBadRequest, errors.New("invalid json")))
		return
	}

	u, err := h.deps.Register(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, registerResponse{Message: msgRegistered, Name: u.Name})
	case errors.Is(err, account.ErrEmailTaken):
		writeKindError(w, WrapKind("auth.register", ErrConflict, errors.New(msgUserExists)))
	case errors.Is(err, account.ErrInvalidInput):
		writeKindError(w, WrapKind("auth.register", ErrBadRequest, unwrapDetail(err)))
	default:
		h.logger.Error(r.Context(), "register failed", logger.Error(err))
		writeKindError(w, WrapKind("auth.register", ErrInternal, err))
	}
}

// HandleLogin handles POST /login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeKindError(w, WrapKind("auth.login", ErrBadRequest, errors.New("invalid json")))
		return
	}

	sess, err := h.deps.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{
			Message: msgLoggedIn,
			User: userPayload{
				ID:    sess.User.ID,
				Name:  sess.User.Name,
				Email: sess.User.Email,
			},
			Token:     sess.Token,
			ExpiresAt: sess.ExpiresAt.UTC(),
		})
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", errors.New(msgInvalidCredentials))
	default:
		h.logger.Error(r.Context(), "login failed", logger.Error(err))
		writeKindError(w, WrapKind("auth.login", ErrInternal, err))
	}
}

// unwrapDetail drops the sentinel prefix from a validation error so the
// client sees only the field problem.
func unwrapDetail(err error) error {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	return errors.New(msg)
}
