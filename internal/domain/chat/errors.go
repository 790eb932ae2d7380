package chat

import "errors"

// Sentinel kinds for chat errors.
var (
	ErrEmptyPrompt = errors.New("prompt is empty")
	ErrEmptyReply  = errors.New("generator returned no text")
)
