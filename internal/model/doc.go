// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and the
// conversation log.
//
// A Log is ordered newest-first, matching both the persisted format and the
// rendering order of the chat screen. At most one message in a log is an
// in-flight assistant placeholder (empty text, awaiting a reply); the
// placeholder is always at index 0 while a turn is pending.
package model
