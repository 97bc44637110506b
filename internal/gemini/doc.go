// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generateContent API.
//
// The client flattens the conversation into a single text prompt and makes
// one POST per completion. Failures never reach the caller as errors:
// both Completion and InitialCompletion degrade to fixed fallback strings
// so the conversation always gets a reply.
package gemini
