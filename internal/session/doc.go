// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session coordinates the chat conversation lifecycle.
//
// The Controller owns the transcript, drives completions through the
// Gemini client, and persists history in the background. It is the
// single writer of conversation state; the TUI and the plain REPL both
// observe it through change callbacks.
package session
