// Package service wires the LUMEN domain and adapters together and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/lumen/internal/adapters/mq/queue"
	"github.com/okian/lumen/internal/adapters/mq/worker"
	"github.com/okian/lumen/internal/adapters/repository"
	"github.com/okian/lumen/internal/adapters/vendors/gemini"
	"github.com/okian/lumen/internal/adapters/vendors/sarvam"
	"github.com/okian/lumen/internal/domain/account"
	"github.com/okian/lumen/internal/domain/chat"
	"github.com/okian/lumen/internal/domain/eligibility"
	"github.com/okian/lumen/internal/domain/model"
	"github.com/okian/lumen/pkg/logger"
	"github.com/okian/lumen/pkg/metrics"
)

const (
	defaultWorkerCount     = 2
	defaultQueueSize       = 1000
	defaultMaxLoanAmount   = 50_000
	defaultLanguage        = "en-IN"
	defaultVendorTimeout   = 15 * time.Second
	defaultTokenTTL        = time.Hour
	stopTimeout            = 10 * time.Second
	generatedSecretEntropy = 32
)

// ErrNotStarted is returned by operations that need Start first.
var ErrNotStarted = errors.New("service not started")

// Forwarder sends a translation request to the vendor unchanged.
type Forwarder interface {
	Forward(ctx context.Context, req sarvam.TranslateRequest) (int, []byte, error)
}

// Service implements the API dependencies for LUMEN.
type Service struct {
	mu sync.RWMutex

	// Core components
	store        repository.Store
	accounts     *account.Service
	orchestrator *chat.Orchestrator
	scorer       *eligibility.Scorer
	quiz         eligibility.Quiz
	archive      queue.Queue
	workerPool   *worker.Pool

	// Collaborators, injected or built in Start
	generator   chat.Generator
	translator  chat.Translator
	synthesizer chat.Synthesizer
	forwarder   Forwarder

	// Configuration
	workerCount     int
	queueSize       int
	maxLoanAmount   int
	defaultLanguage string
	vendorTimeout   time.Duration
	jwtSecret       string
	tokenTTL        time.Duration
	bcryptCost      int
	mongoURI        string
	mongoDatabase   string
	geminiAPIKey    string
	geminiModel     string
	sarvam          SarvamSettings

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     defaultWorkerCount,
		queueSize:       defaultQueueSize,
		maxLoanAmount:   defaultMaxLoanAmount,
		defaultLanguage: defaultLanguage,
		vendorTimeout:   defaultVendorTimeout,
		tokenTTL:        defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components and starts the archive workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting lumen service...")

	if err := s.initStore(ctx); err != nil {
		return err
	}
	if err := s.initAccounts(ctx); err != nil {
		return err
	}
	s.initVendors(ctx)

	s.quiz = eligibility.ReferenceQuiz()
	s.scorer = eligibility.NewScorer(eligibility.WithMaxLoanAmount(s.maxLoanAmount))
	s.orchestrator = chat.NewOrchestrator(s.generator, s.translator, s.synthesizer,
		chat.WithDefaultLanguage(s.defaultLanguage),
		chat.WithStepTimeout(s.vendorTimeout),
	)

	// Workers outlive the request that started them; they stop on Stop.
	workCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.archive = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workerPool = worker.NewPool(s.workerCount, s.archive, s.store)
	s.workerPool.Start(workCtx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "lumen service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("defaultLanguage", s.defaultLanguage),
	)
	return nil
}

func (s *Service) initStore(ctx context.Context) error {
	if s.store != nil {
		return nil
	}
	if s.mongoURI == "" {
		s.store = repository.NewMemoryStore()
		s.logger.Warn(ctx, "no mongo uri configured, using in-memory store")
		return nil
	}
	store, err := repository.NewMongoStore(ctx, s.mongoURI, repository.WithDatabase(s.mongoDatabase))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	s.store = store
	return nil
}

func (s *Service) initAccounts(ctx context.Context) error {
	secret := s.jwtSecret
	if secret == "" {
		buf := make([]byte, generatedSecretEntropy)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		s.logger.Warn(ctx, "no jwt secret configured, tokens will not survive a restart")
	}

	opts := []account.Option{account.WithTokenTTL(s.tokenTTL)}
	if s.bcryptCost > 0 {
		opts = append(opts, account.WithBcryptCost(s.bcryptCost))
	}
	accounts, err := account.NewService(s.store, secret, opts...)
	if err != nil {
		return fmt.Errorf("init accounts: %w", err)
	}
	s.accounts = accounts
	return nil
}

func (s *Service) initVendors(ctx context.Context) {
	if s.generator == nil {
		g, err := gemini.New(ctx, s.geminiAPIKey, gemini.WithModel(s.geminiModel))
		if err != nil {
			s.logger.Warn(ctx, "gemini disabled, chat will answer with the fallback text", logger.Error(err))
			s.generator = gemini.Disabled()
		} else {
			s.generator = g
		}
	}

	if s.translator != nil && s.synthesizer != nil && s.forwarder != nil {
		return
	}
	if s.sarvam.APIKey == "" {
		s.logger.Warn(ctx, "sarvam api key missing, speech and translation will degrade")
	}
	client := sarvam.New(s.sarvam.APIKey,
		sarvam.WithBaseURL(s.sarvam.BaseURL),
		sarvam.WithTimeout(s.vendorTimeout),
		sarvam.WithSpeaker(s.sarvam.Speaker),
		sarvam.WithTTSModel(s.sarvam.TTSModel),
		sarvam.WithTranslateModel(s.sarvam.TranslateModel),
	)
	if s.translator == nil {
		s.translator = client
	}
	if s.synthesizer == nil {
		s.synthesizer = client
	}
	if s.forwarder == nil {
		s.forwarder = client
	}
}

// Stop drains the archive queue and releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping lumen service...")

	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "archive workers did not drain", logger.Error(err))
		}
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error(ctx, "error closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "lumen service stopped")
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, name, email, password string) (model.User, error) {
	accounts, err := s.accountService()
	if err != nil {
		return model.User{}, err
	}
	return accounts.Register(ctx, name, email, password)
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (account.Session, error) {
	accounts, err := s.accountService()
	if err != nil {
		return account.Session{}, err
	}
	return accounts.Login(ctx, email, password)
}

// Verify validates a bearer token.
func (s *Service) Verify(token string) (account.Claims, error) {
	accounts, err := s.accountService()
	if err != nil {
		return account.Claims{}, err
	}
	return accounts.Verify(token)
}

func (s *Service) accountService() (*account.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.accounts, nil
}

// Converse answers prompt, extends history with the exchange and archives
// successful replies in the background.
func (s *Service) Converse(ctx context.Context, history []model.ChatTurn, prompt, language string) ([]model.ChatTurn, chat.Reply) {
	s.mu.RLock()
	orchestrator, archive := s.orchestrator, s.archive
	s.mu.RUnlock()

	if orchestrator == nil {
		reply := chat.Reply{
			Turn:   model.ChatTurn{Role: model.RoleAssistant, Text: chat.FallbackText},
			Failed: true,
			Err:    ErrNotStarted,
		}
		return chat.NewSession(history...).Append(reply.Turn).Turns(), reply
	}

	session, reply := orchestrator.Exchange(ctx, chat.NewSession(history...), prompt, language)
	if !reply.Failed {
		t := model.Transcript{
			RequestID:   reply.RequestID,
			Prompt:      prompt,
			Text:        reply.Turn.Text,
			Language:    reply.Language,
			AudioBase64: reply.Turn.Audio,
			CreatedAt:   time.Now().UTC(),
		}
		if !archive.Enqueue(ctx, t) {
			s.logger.Warn(ctx, "archive queue full, transcript dropped", logger.String("request_id", t.RequestID))
		}
	}
	return session.Turns(), reply
}

// Translate forwards a translation request to the vendor.
func (s *Service) Translate(ctx context.Context, req sarvam.TranslateRequest) (int, []byte, error) {
	s.mu.RLock()
	forwarder := s.forwarder
	s.mu.RUnlock()
	if forwarder == nil {
		return 0, nil, ErrNotStarted
	}

	ctx, cancel := context.WithTimeout(ctx, s.vendorTimeout)
	defer cancel()
	return forwarder.Forward(ctx, req)
}

// Questions returns the eligibility quiz.
func (s *Service) Questions() []eligibility.Question {
	return s.currentQuiz().Questions()
}

// Score rates quiz answers.
func (s *Service) Score(answers eligibility.AnswerSet) eligibility.Result {
	s.mu.RLock()
	scorer := s.scorer
	s.mu.RUnlock()
	if scorer == nil {
		scorer = eligibility.NewScorer(eligibility.WithMaxLoanAmount(s.maxLoanAmount))
	}

	res := scorer.Score(s.currentQuiz(), answers)
	metrics.RecordEligibility(res.Score, string(res.RiskTier))
	return res
}

func (s *Service) currentQuiz() eligibility.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quiz.Len() == 0 {
		return eligibility.ReferenceQuiz()
	}
	return s.quiz
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"defaultLanguage": s.defaultLanguage,
		"maxLoanAmount":   s.maxLoanAmount,
	}

	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["queueLength"] = s.archive.Len(ctx)
		if n, err := s.store.Count(ctx); err == nil {
			stats["transcripts"] = n
		}
	}
	return stats
}
