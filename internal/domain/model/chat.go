// Package model contains domain models passed between layers.
package model

import "time"

// Role identifies who authored a chat turn.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message in a conversation. Audio holds base64 encoded
// speech for assistant turns when synthesis succeeded.
type ChatTurn struct {
	Role  Role   `json:"role"`
	Text  string `json:"text"`
	Audio string `json:"audio,omitempty"`
}

// HasAudio reports whether the turn carries a voice rendering.
func (t ChatTurn) HasAudio() bool { return t.Audio != "" }

// Transcript is the archived form of one answered prompt.
type Transcript struct {
	RequestID   string    `json:"request_id" bson:"requestId"`
	Prompt      string    `json:"prompt" bson:"prompt"`
	Text        string    `json:"text" bson:"textResponse"`
	Language    string    `json:"language" bson:"language"`
	AudioBase64 string    `json:"audio_base64,omitempty" bson:"audioBase64,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"timestamp"`
}
