// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/rentbuddy-tui/internal/util"
)

// =============================================================================
// KEY-VALUE BACKEND
// =============================================================================

// KeyValueStore is the persistence backend for chat history.
//
// Get returns (nil, false, nil) when the key is absent. Delete on an
// absent key is a no-op and returns nil.
type KeyValueStore interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists one JSON file per key under a base directory.
//
// Keys map to file names with a .json extension. Writes go through
// a temp file and rename so readers never observe a partial record.
type FileStore struct {
	// BaseDir is the directory holding one file per key.
	// Default: ~/.rentbuddy/history/
	BaseDir string
}

// NewFileStore creates a file store rooted at baseDir. If baseDir is
// empty the default ~/.rentbuddy/history/ is used.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".rentbuddy", "history")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &FileStore{BaseDir: baseDir}, nil
}

// Get reads the record for key. An absent file is not an error.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes the record for key atomically.
func (s *FileStore) Set(key string, value []byte) error {
	if err := util.AtomicWriteFile(s.path(key), value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the record for key. Deleting an absent key is a no-op.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.BaseDir, sanitizeKey(key)+".json")
}

// sanitizeKey makes a key safe to use as a file name.
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemStore is an in-memory KeyValueStore used in tests and as a
// fallback when no durable backend is available.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (s *MemStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
