// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/jeranaias/rentbuddy-tui/internal/util"
)

// =============================================================================
// PARTICIPANTS
// =============================================================================

// Participant identifies the author of a message.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// The two fixed participants of a conversation. Every message is authored by
// one of these; the ids double as role markers when building prompts.
var (
	User      = Participant{ID: "usr1", Name: "Customer"}
	Assistant = Participant{ID: "ai", Name: "RentBuddy"}
)

// IsUser reports whether the participant is the customer.
func (p Participant) IsUser() bool {
	return p.ID == User.ID
}

// IsAssistant reports whether the participant is the assistant.
func (p Participant) IsAssistant() bool {
	return p.ID == Assistant.ID
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the conversation log.
//
// Text is mutable only while the message is the active in-flight assistant
// placeholder; once a reply has been patched in, it is treated as immutable.
type Message struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Author    Participant `json:"author"`
	Text      string      `json:"text"`
}

// NewUserMessage creates a customer message with a fresh id.
func NewUserMessage(text string) Message {
	return Message{
		ID:        NewID(),
		CreatedAt: time.Now(),
		Author:    User,
		Text:      text,
	}
}

// NewAssistantMessage creates an assistant message with a fresh id.
func NewAssistantMessage(text string) Message {
	return Message{
		ID:        NewID(),
		CreatedAt: time.Now(),
		Author:    Assistant,
		Text:      text,
	}
}

// NewPlaceholder creates the empty assistant message that stands in for a
// reply that has not arrived yet.
func NewPlaceholder() Message {
	return NewAssistantMessage("")
}

// IsPlaceholder reports whether the message is an unresolved assistant
// placeholder.
func (m Message) IsPlaceholder() bool {
	return m.Author.IsAssistant() && m.Text == ""
}

// Preview returns a truncated single-line preview of the message text.
func (m Message) Preview(maxLen int) string {
	return util.TruncateRunes(util.FirstLine(m.Text), maxLen)
}

// =============================================================================
// ID GENERATION
// =============================================================================

// NewID creates a message id from the current unix-millisecond timestamp and
// a random base36 fragment, e.g. "1717430400000-k3j9f0q2z".
//
// Uniqueness is probabilistic, not guaranteed: ids are used only as list
// rendering keys and placeholder-location targets within a single session,
// never as cross-session primary keys.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return ts + "-" + randomFragment(9)
}

// randomFragment returns n random base36 characters.
func randomFragment(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
