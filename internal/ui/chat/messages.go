// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/rentbuddy-tui/internal/model"
)

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// StartedMsg carries the transcript after startup finishes, whether it
// came from persisted history or a fresh introduction.
type StartedMsg struct {
	Log model.Log
}

// ReplyMsg carries the transcript after a completion turn resolves.
type ReplyMsg struct {
	Log model.Log
	Err error
}

// ResetDoneMsg carries the fresh transcript after a conversation reset.
type ResetDoneMsg struct {
	Log model.Log
	Err error
}
