// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers: atomic file writes for the
// history store and rune-safe string handling for the chat views.
package util
