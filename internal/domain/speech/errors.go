package speech

import (
	"encoding/json"
	"errors"
)

// ErrAudioNotFound is the kind behind every NotFoundError.
var ErrAudioNotFound = errors.New("no audio payload in speech response")

// NotFoundError reports a speech response without a recognizable audio
// payload. Response keeps the vendor JSON for diagnostics.
type NotFoundError struct {
	Reason   string
	Response json.RawMessage
}

func (e *NotFoundError) Error() string {
	if e.Reason == "" {
		return ErrAudioNotFound.Error()
	}
	return ErrAudioNotFound.Error() + ": " + e.Reason
}

func (e *NotFoundError) Unwrap() error { return ErrAudioNotFound }
