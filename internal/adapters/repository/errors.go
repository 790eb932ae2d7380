package repository

import (
	"errors"

	"github.com/okian/lumen/internal/domain/model"
)

// Sentinel kinds for store errors.
var (
	ErrNotFound       = model.ErrNotFound
	ErrDuplicateEmail = model.ErrDuplicateEmail
	ErrInvalidRecord  = errors.New("invalid record")
)
