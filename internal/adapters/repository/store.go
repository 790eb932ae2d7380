// Package repository persists users and chat transcripts.
package repository

import (
	"context"

	"github.com/okian/lumen/internal/domain/model"
)

// UserStore creates and looks up accounts. Emails are unique.
type UserStore interface {
	// Create stores u and returns it with ID and CreatedAt filled in.
	// Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, u model.User) (model.User, error)

	// FindByEmail returns ErrNotFound for an unknown email.
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// TranscriptStore archives answered prompts.
type TranscriptStore interface {
	Save(ctx context.Context, t model.Transcript) error
	Count(ctx context.Context) (int64, error)
}

// Store is the full persistence surface used by the service.
type Store interface {
	UserStore
	TranscriptStore
	Close(ctx context.Context) error
}
