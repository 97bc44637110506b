// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/rentbuddy-tui/internal/model"
)

// =============================================================================
// KEY TESTS
// =============================================================================

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		want   string
	}{
		{"signed in user", "usr42", "chat_history_usr42"},
		{"empty falls back to default", "", "chat_history_default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Key(tc.userID); got != tc.want {
				t.Errorf("Key(%q) = %q, want %q", tc.userID, got, tc.want)
			}
		})
	}
}

// =============================================================================
// HISTORY STORE TESTS
// =============================================================================

func sampleLog() model.Log {
	var history model.Log
	history.Unshift(model.NewUserMessage("I need chairs for a wedding"))
	history.Unshift(model.NewAssistantMessage("How many guests are you expecting?"))
	return history
}

func TestHistoryStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewHistoryStore(NewMemStore())
	history := sampleLog()

	store.Save("usr1", history)
	loaded := store.Load("usr1")

	if loaded.Len() != history.Len() {
		t.Fatalf("loaded %d messages, want %d", loaded.Len(), history.Len())
	}
	for i := range history {
		if loaded[i].ID != history[i].ID {
			t.Errorf("message %d: ID = %q, want %q", i, loaded[i].ID, history[i].ID)
		}
		if loaded[i].Text != history[i].Text {
			t.Errorf("message %d: Text = %q, want %q", i, loaded[i].Text, history[i].Text)
		}
		if loaded[i].Author != history[i].Author {
			t.Errorf("message %d: Author = %+v, want %+v", i, loaded[i].Author, history[i].Author)
		}
	}
}

func TestHistoryStore_LoadMissing(t *testing.T) {
	store := NewHistoryStore(NewMemStore())

	loaded := store.Load("nobody")
	if loaded.Len() != 0 {
		t.Errorf("missing transcript should load empty, got %d messages", loaded.Len())
	}
}

func TestHistoryStore_LoadCorrupt(t *testing.T) {
	backend := NewMemStore()
	if err := backend.Set(Key("usr1"), []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	store := NewHistoryStore(backend)

	loaded := store.Load("usr1")
	if loaded.Len() != 0 {
		t.Errorf("corrupt transcript should load empty, got %d messages", loaded.Len())
	}
}

func TestHistoryStore_ClearIdempotent(t *testing.T) {
	store := NewHistoryStore(NewMemStore())
	store.Save("usr1", sampleLog())

	if !store.Clear("usr1") {
		t.Error("first clear should succeed")
	}
	if !store.Clear("usr1") {
		t.Error("second clear should succeed")
	}
	if store.Load("usr1").Len() != 0 {
		t.Error("transcript should be empty after clear")
	}
}

func TestHistoryStore_NamespaceIsolation(t *testing.T) {
	store := NewHistoryStore(NewMemStore())
	store.Save("usr1", sampleLog())
	store.Save("", sampleLog())

	store.Clear("usr1")

	if store.Load("").Len() == 0 {
		t.Error("clearing one namespace should not touch another")
	}
}

// =============================================================================
// FILE STORE TESTS
// =============================================================================

func TestFileStore_RoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Set("chat_history_usr1", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, found, err := fs.Get("chat_history_usr1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("record should be found")
	}
	if string(data) != `[{"id":"1"}]` {
		t.Errorf("data = %q", data)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, found, err := fs.Get("chat_history_missing")
	if err != nil {
		t.Fatalf("Get on missing key should not error: %v", err)
	}
	if found {
		t.Error("missing key should not be found")
	}
}

func TestFileStore_DeleteMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Delete("chat_history_missing"); err != nil {
		t.Errorf("Delete on missing key should be a no-op, got %v", err)
	}
}

func TestFileStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Set("chat_history_../../evil", []byte("x")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			t.Errorf("unexpected entry %q", e.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "evil.json")); err == nil {
		t.Error("key must not escape the base directory")
	}
}

// =============================================================================
// SQLITE STORE TESTS
// =============================================================================

func TestSQLiteStore_RoundTrip(t *testing.T) {
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.Set("chat_history_usr1", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := db.Set("chat_history_usr1", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	data, found, err := db.Get("chat_history_usr1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || string(data) != "v2" {
		t.Errorf("Get = (%q, %v), want (%q, true)", data, found, "v2")
	}

	if err := db.Delete("chat_history_usr1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, found, err = db.Get("chat_history_usr1")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("record should be gone after delete")
	}
}

func TestSQLiteStore_HistoryBackend(t *testing.T) {
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewHistoryStore(db)
	history := sampleLog()
	store.Save("usr1", history)

	loaded := store.Load("usr1")
	if loaded.Len() != history.Len() {
		t.Errorf("loaded %d messages, want %d", loaded.Len(), history.Len())
	}
}
