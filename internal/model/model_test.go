// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// ID GENERATION TESTS
// =============================================================================

func TestNewID_Format(t *testing.T) {
	id := NewID()

	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("NewID() = %q, want timestamp-fragment format", id)
	}
	if len(parts[1]) != 9 {
		t.Errorf("fragment length = %d, want 9", len(parts[1]))
	}
	for _, r := range parts[1] {
		if !strings.ContainsRune("0123456789abcdefghijklmnopqrstuvwxyz", r) {
			t.Errorf("fragment contains non-base36 rune %q", r)
		}
	}
}

func TestNewID_NoImmediateCollision(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewPlaceholder(t *testing.T) {
	msg := NewPlaceholder()

	if !msg.IsPlaceholder() {
		t.Error("new placeholder should report IsPlaceholder")
	}
	if !msg.Author.IsAssistant() {
		t.Errorf("placeholder author = %+v, want assistant", msg.Author)
	}
	if msg.ID == "" {
		t.Error("placeholder should have an id")
	}
}

func TestMessage_IsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"empty assistant", NewAssistantMessage(""), true},
		{"resolved assistant", NewAssistantMessage("hi"), false},
		{"empty user", Message{Author: User, Text: ""}, false},
		{"user with text", NewUserMessage("hello"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.msg.IsPlaceholder(); got != tc.want {
				t.Errorf("IsPlaceholder() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("I need chairs, tables, and a tent for fifty guests")

	got := msg.Preview(20)
	if len([]rune(got)) != 20 {
		t.Errorf("Preview(20) length = %d, want 20", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Preview(20) = %q, want ... suffix", got)
	}

	short := NewUserMessage("hi")
	if short.Preview(20) != "hi" {
		t.Errorf("short Preview = %q, want unmodified text", short.Preview(20))
	}

	multiline := NewAssistantMessage("Sure!\n- tables\n- chairs")
	if got := multiline.Preview(20); got != "Sure!" {
		t.Errorf("multiline Preview = %q, want first line only", got)
	}
}

// =============================================================================
// LOG TESTS
// =============================================================================

func TestLog_UnshiftKeepsNewestFirst(t *testing.T) {
	var log Log
	log.Unshift(NewUserMessage("first"))
	log.Unshift(NewAssistantMessage("second"))

	if log.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", log.Len())
	}
	if log[0].Text != "second" || log[1].Text != "first" {
		t.Errorf("log order = [%q, %q], want newest first", log[0].Text, log[1].Text)
	}
}

func TestLog_ResolvePending(t *testing.T) {
	var log Log
	log.Unshift(NewUserMessage("need a tent"))
	log.Unshift(NewPlaceholder())

	if !log.HasPending() {
		t.Fatal("log should have a pending placeholder")
	}
	if !log.ResolvePending("A 20x20 frame tent works well.") {
		t.Fatal("ResolvePending should succeed")
	}
	if log.HasPending() {
		t.Error("placeholder should be resolved")
	}
	if log[0].Text != "A 20x20 frame tent works well." {
		t.Errorf("resolved text = %q", log[0].Text)
	}
	if log[1].Text != "need a tent" {
		t.Error("resolving must not touch other messages")
	}
}

func TestLog_ResolvePendingWithoutPlaceholder(t *testing.T) {
	var log Log
	log.Unshift(NewUserMessage("hello"))

	if log.ResolvePending("nope") {
		t.Error("ResolvePending should fail when newest entry is not a placeholder")
	}
	if log[0].Text != "hello" {
		t.Error("failed resolve must not mutate the log")
	}
}

func TestLog_Chronological(t *testing.T) {
	var log Log
	log.Unshift(NewAssistantMessage("hi"))
	log.Unshift(NewUserMessage("hello"))

	chrono := log.Chronological()
	if chrono[0].Text != "hi" || chrono[1].Text != "hello" {
		t.Errorf("Chronological() = [%q, %q], want oldest first", chrono[0].Text, chrono[1].Text)
	}

	// The original must be untouched.
	if log[0].Text != "hello" {
		t.Error("Chronological must not mutate the receiver")
	}
}

func TestLog_Clone(t *testing.T) {
	var log Log
	log.Unshift(NewUserMessage("original"))

	clone := log.Clone()
	clone[0].Text = "mutated"

	if log[0].Text != "original" {
		t.Error("mutating a clone must not affect the source log")
	}
}
