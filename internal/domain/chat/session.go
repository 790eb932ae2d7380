package chat

import (
	"slices"

	"github.com/okian/lumen/internal/domain/model"
)

// Session is an append-only conversation owned by the client. Every method
// returns a new value; a Session is never mutated in place.
type Session struct {
	turns []model.ChatTurn
}

// NewSession starts a session from existing turns.
func NewSession(turns ...model.ChatTurn) Session {
	return Session{turns: slices.Clone(turns)}
}

// Append returns the session extended by turns.
func (s Session) Append(turns ...model.ChatTurn) Session {
	out := make([]model.ChatTurn, 0, len(s.turns)+len(turns))
	out = append(out, s.turns...)
	out = append(out, turns...)
	return Session{turns: out}
}

// Reset returns an empty session.
func (Session) Reset() Session { return Session{} }

// Turns returns a copy of the turns in order.
func (s Session) Turns() []model.ChatTurn {
	out := slices.Clone(s.turns)
	if out == nil {
		out = []model.ChatTurn{}
	}
	return out
}

// Len returns the number of turns.
func (s Session) Len() int { return len(s.turns) }
