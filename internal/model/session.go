// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecentWindow is the number of trailing turns included when building
// conversational context for the model.
const RecentWindow = 10

// MaxTurns is the maximum number of turns kept per session. Older turns are
// pruned to prevent unbounded growth.
const MaxTurns = 1000

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one chat session with its ordered turn history.
type Session struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Messages []Turn    `json:"messages"`
}

// NewSession creates an empty session with a generated ID.
func NewSession() *Session {
	return &Session{
		ID:       "sess_" + uuid.NewString()[:8],
		Title:    "New chat",
		Date:     time.Now(),
		Messages: make([]Turn, 0),
	}
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// Append adds a turn to the session, updating the date and deriving a title
// from the first user message.
func (s *Session) Append(t Turn) {
	s.Messages = append(s.Messages, t)
	s.Date = time.Now()
	s.updateTitle()
	s.prune()
}

// AppendUser creates and appends a user turn.
func (s *Session) AppendUser(content string) Turn {
	t := NewUserTurn(content)
	s.Append(t)
	return t
}

// AppendAssistant creates and appends an assistant turn.
func (s *Session) AppendAssistant(content string) Turn {
	t := NewAssistantTurn(content)
	s.Append(t)
	return t
}

// Last returns the most recent turn, or nil if the session is empty.
func (s *Session) Last() *Turn {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// Recent returns the last n turns in order. The core reads only this bounded
// window when building context; it never owns persistence.
func (s *Session) Recent(n int) []Turn {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= n {
		out := make([]Turn, len(s.Messages))
		copy(out, s.Messages)
		return out
	}
	out := make([]Turn, n)
	copy(out, s.Messages[len(s.Messages)-n:])
	return out
}

// Clear removes all turns but keeps the session identity.
func (s *Session) Clear() {
	s.Messages = s.Messages[:0]
}

// updateTitle derives the title from the first user message.
func (s *Session) updateTitle() {
	if s.Title != "" && s.Title != "New chat" {
		return
	}
	for i := range s.Messages {
		if s.Messages[i].Role == RoleUser && s.Messages[i].Content != "" {
			title := strings.ReplaceAll(s.Messages[i].Content, "\n", " ")
			runes := []rune(title)
			if len(runes) > 40 {
				title = string(runes[:37]) + "..."
			}
			s.Title = title
			return
		}
	}
}

// prune drops the oldest turns once MaxTurns is exceeded.
func (s *Session) prune() {
	if len(s.Messages) <= MaxTurns {
		return
	}
	excess := len(s.Messages) - MaxTurns
	s.Messages = append(s.Messages[:0], s.Messages[excess:]...)
}
