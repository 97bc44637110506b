// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"log"

	"github.com/jeranaias/rentbuddy-tui/internal/model"
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// keyPrefix namespaces history records in the backing store.
const keyPrefix = "chat_history_"

// defaultNamespace is used when no user is signed in.
const defaultNamespace = "default"

// HistoryStore persists a chat transcript per user namespace.
//
// All operations are best effort: Save logs failures and never returns
// them, Load degrades to an empty transcript when the record is missing
// or unreadable, and Clear is idempotent.
type HistoryStore struct {
	backend KeyValueStore
}

// NewHistoryStore creates a history store over the given backend.
func NewHistoryStore(backend KeyValueStore) *HistoryStore {
	return &HistoryStore{backend: backend}
}

// Key returns the storage key for a user namespace. An empty userID
// maps to the shared default namespace.
func Key(userID string) string {
	if userID == "" {
		userID = defaultNamespace
	}
	return keyPrefix + userID
}

// Save persists the transcript for userID. Failures are logged and
// swallowed so a storage outage never interrupts the conversation.
func (s *HistoryStore) Save(userID string, history model.Log) {
	data, err := json.Marshal(history)
	if err != nil {
		log.Printf("history: failed to encode transcript for %s: %v", Key(userID), err)
		return
	}
	if err := s.backend.Set(Key(userID), data); err != nil {
		log.Printf("history: failed to save transcript for %s: %v", Key(userID), err)
	}
}

// Load returns the persisted transcript for userID. A missing or
// corrupt record loads as an empty transcript, never an error.
func (s *HistoryStore) Load(userID string) model.Log {
	data, found, err := s.backend.Get(Key(userID))
	if err != nil {
		log.Printf("history: failed to load transcript for %s: %v", Key(userID), err)
		return model.Log{}
	}
	if !found {
		return model.Log{}
	}

	var history model.Log
	if err := json.Unmarshal(data, &history); err != nil {
		log.Printf("history: corrupt transcript for %s: %v", Key(userID), err)
		return model.Log{}
	}
	return history
}

// Clear removes the persisted transcript for userID. It reports whether
// the delete succeeded; clearing an already-empty namespace succeeds.
func (s *HistoryStore) Clear(userID string) bool {
	if err := s.backend.Delete(Key(userID)); err != nil {
		log.Printf("history: failed to clear transcript for %s: %v", Key(userID), err)
		return false
	}
	return true
}
