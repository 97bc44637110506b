// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
//
// The Model renders the transcript in a viewport with an input line
// beneath it. All conversation mutation goes through the session
// controller; blocking calls run inside Bubble Tea commands and come
// back as typed messages.
package chat
