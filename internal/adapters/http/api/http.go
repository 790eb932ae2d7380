// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/lumen/internal/adapters/vendors/sarvam"
	"github.com/okian/lumen/internal/domain/account"
	"github.com/okian/lumen/internal/domain/chat"
	"github.com/okian/lumen/internal/domain/eligibility"
	"github.com/okian/lumen/internal/domain/model"
	"github.com/okian/lumen/pkg/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// AuthDependencies registers and logs in users.
type AuthDependencies interface {
	Register(ctx context.Context, name, email, password string) (model.User, error)
	Login(ctx context.Context, email, password string) (account.Session, error)
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (account.Claims, error)
}

// ChatDependencies answers chat prompts.
type ChatDependencies interface {
	Converse(ctx context.Context, history []model.ChatTurn, prompt, language string) ([]model.ChatTurn, chat.Reply)
}

// TranslateDependencies forwards translation requests.
type TranslateDependencies interface {
	Translate(ctx context.Context, req sarvam.TranslateRequest) (int, []byte, error)
}

// EligibilityDependencies serves and scores the quiz.
type EligibilityDependencies interface {
	Questions() []eligibility.Question
	Score(answers eligibility.AnswerSet) eligibility.Result
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AuthDependencies
	TokenVerifier
	ChatDependencies
	TranslateDependencies
	EligibilityDependencies
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRequireAuth guards the chat and translation routes with a bearer token.
func WithRequireAuth(required bool) Option {
	return func(s *Server) { s.requireAuth = required }
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	authHandler        *AuthHandler
	generateHandler    *GenerateHandler
	translateHandler   *TranslateHandler
	eligibilityHandler *EligibilityHandler

	verifier    TokenVerifier
	requireAuth bool
	logger      logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		verifier: deps,
		logger:   logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.authHandler = NewAuthHandler(deps, s.logger)
	s.generateHandler = NewGenerateHandler(deps, s.logger)
	s.translateHandler = NewTranslateHandler(deps, s.logger)
	s.eligibilityHandler = NewEligibilityHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	guard := func(h http.HandlerFunc) http.HandlerFunc {
		if !s.requireAuth {
			return h
		}
		return RequireBearer(s.verifier, h)
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/register", MetricsMiddleware(s.authHandler.HandleRegister, "register"))
	mux.HandleFunc("/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
	mux.HandleFunc("/generate", MetricsMiddleware(guard(s.generateHandler.HandleGenerate), "generate"))
	mux.HandleFunc("/translate", MetricsMiddleware(guard(s.translateHandler.HandleTranslate), "translate"))
	mux.HandleFunc("/questions", MetricsMiddleware(s.eligibilityHandler.HandleQuestions, "questions"))
	mux.HandleFunc("/eligibility", MetricsMiddleware(s.eligibilityHandler.HandleScore, "eligibility"))

	// Paths the web client used before the routes were flattened.
	mux.HandleFunc("/api/auth/register", MetricsMiddleware(s.authHandler.HandleRegister, "register"))
	mux.HandleFunc("/api/auth/login", MetricsMiddleware(s.authHandler.HandleLogin, "login"))
	mux.HandleFunc("/api/generate/g", MetricsMiddleware(guard(s.generateHandler.HandleGenerate), "generate"))
	mux.HandleFunc("/api/generate/translate", MetricsMiddleware(guard(s.translateHandler.HandleTranslate), "translate"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
