// Package account registers users and issues login tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/okian/lumen/internal/domain/model"
	"github.com/okian/lumen/pkg/logger"
	"github.com/okian/lumen/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// UserStore is the persistence the service needs.
type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

// Service handles signup, login and token verification.
type Service struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
	logger logger.Logger
}

// NewService creates an account service signing tokens with secret.
func NewService(store UserStore, secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	s := &Service{
		store:  store,
		secret: []byte(secret),
		ttl:    defaultTokenTTL,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		logger: logger.Get().Named("account"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an account. Email is trimmed and lower-cased.
func (s *Service) Register(ctx context.Context, name, email, password string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateSignup(name, email, password); err != nil {
		metrics.RecordAuthEvent("register", "invalid")
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		metrics.RecordAuthEvent("register", "error")
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.store.Create(ctx, model.User{Name: name, Email: email, PasswordHash: string(hash)})
	switch {
	case errors.Is(err, model.ErrDuplicateEmail):
		metrics.RecordAuthEvent("register", "duplicate")
		return model.User{}, ErrEmailTaken
	case err != nil:
		metrics.RecordAuthEvent("register", "error")
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordAuthEvent("register", "ok")
	s.logger.Info(ctx, "user registered", logger.String("user_id", u.ID))
	return u, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	switch {
	case errors.Is(err, model.ErrNotFound):
		metrics.RecordAuthEvent("login", "rejected")
		return Session{}, ErrInvalidCredentials
	case err != nil:
		metrics.RecordAuthEvent("login", "error")
		return Session{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		metrics.RecordAuthEvent("login", "rejected")
		return Session{}, ErrInvalidCredentials
	}

	token, exp, err := s.issue(u.ID, u.Name, u.Email)
	if err != nil {
		metrics.RecordAuthEvent("login", "error")
		return Session{}, err
	}

	metrics.RecordAuthEvent("login", "ok")
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func validateSignup(name, email, password string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) > 72 {
		return fmt.Errorf("%w: password is longer than 72 bytes", ErrInvalidInput)
	}
	return nil
}
