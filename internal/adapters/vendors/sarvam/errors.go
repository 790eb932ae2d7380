package sarvam

import (
	"errors"
	"fmt"
)

// Sentinel kinds for Sarvam errors.
var (
	ErrMissingAPIKey     = errors.New("sarvam api key is missing")
	ErrUnreachable       = errors.New("sarvam unreachable")
	ErrMalformedResponse = errors.New("sarvam response is malformed")
)

// APIError is a non-2xx answer from the vendor. Body is kept for logs and
// passthrough; it is never shown to chat users.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sarvam api error %d", e.Status)
}
