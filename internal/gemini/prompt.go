// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"strings"

	"github.com/jeranaias/rentbuddy-tui/internal/model"
)

// =============================================================================
// PERSONA
// =============================================================================

// DefaultPersona biases the model toward the event-rental assistant role.
const DefaultPersona = `As an AI assistant for a rental company:
- Be simple, concise, and friendly in your responses
- Specialize in helping customers decide what to rent for events (beach parties, house warmings, birthdays, etc.)
- Focus on practical recommendations based on event type, guest count, and location
- Suggest specific rental items that would enhance their event
- Ask clarifying questions if needed to provide better recommendations
- Always be positive and enthusiastic about helping plan their event`

// =============================================================================
// PROMPT CONSTRUCTION
// =============================================================================

// buildPrompt flattens the persona, the transcript, and the new utterance
// into a single text prompt.
//
// The transcript is rendered oldest-first as "User:"/"Assistant:" lines,
// skipping messages whose text is blank. The utterance is appended only
// when the newest transcript entry is not already that exact user message,
// so callers may pass a history that already contains it.
func buildPrompt(persona, utterance string, history model.Log) string {
	sections := []string{"System: " + persona}

	for _, msg := range history.Chronological() {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		role := "Assistant"
		if msg.Author.IsUser() {
			role = "User"
		}
		sections = append(sections, role+": "+msg.Text)
	}

	newest, ok := history.Newest()
	if !ok || !newest.Author.IsUser() || newest.Text != utterance {
		sections = append(sections, "User: "+utterance)
	}

	return strings.Join(sections, "\n\n")
}

// buildIntroPrompt asks the model to introduce itself, personalized with
// the customer's name when known.
func buildIntroPrompt(persona, userName string) string {
	greeting := ""
	if userName != "" {
		greeting = "for " + userName
	}
	return persona + "\n\nIntroduce yourself as RentBuddy, a helpful assistant for a rental company that specializes in event rentals " + greeting + ". Keep it brief and ask what kind of event the customer is planning."
}
