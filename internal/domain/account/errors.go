package account

import "errors"

// Sentinel kinds for account errors.
var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid account input")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingSecret      = errors.New("token secret is empty")
)
