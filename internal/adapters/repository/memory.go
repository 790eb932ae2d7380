package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/lumen/internal/domain/model"
)

// MemoryStore keeps users and transcripts in process memory. It is used
// when no database is configured and in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	usersByMail map[string]model.User
	transcripts []model.Transcript
	now         func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		usersByMail: make(map[string]model.User),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements UserStore.
func (s *MemoryStore) Create(_ context.Context, u model.User) (model.User, error) {
	key := strings.ToLower(strings.TrimSpace(u.Email))
	if key == "" {
		return model.User{}, fmt.Errorf("%w: empty email", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByMail[key]; ok {
		return model.User{}, ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	u.Email = key
	s.usersByMail[key] = u
	return u, nil
}

// FindByEmail implements UserStore.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByMail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// Save implements TranscriptStore.
func (s *MemoryStore) Save(_ context.Context, t model.Transcript) error {
	if t.RequestID == "" {
		return fmt.Errorf("%w: empty request id", ErrInvalidRecord)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts = append(s.transcripts, t)
	return nil
}

// Count implements TranscriptStore.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.transcripts)), nil
}

// Transcripts returns a copy of everything archived, oldest first.
func (s *MemoryStore) Transcripts() []model.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Transcript, len(s.transcripts))
	copy(out, s.transcripts)
	return out
}

// Close implements Store. Nothing to release.
func (s *MemoryStore) Close(context.Context) error { return nil }
