// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides chat history persistence for rentbuddy-tui.
//
// The HistoryStore saves one transcript per user namespace on top of a
// pluggable key-value backend. Two backends ship with the app: a file
// backend writing one JSON document per key, and a SQLite backend using
// a single kv table. Persistence is best effort: a failed save is logged
// and never surfaced to the caller, and a missing or corrupt record
// loads as an empty transcript.
package storage
