// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rentbuddy-tui/internal/gemini"
	"github.com/jeranaias/rentbuddy-tui/internal/identity"
	"github.com/jeranaias/rentbuddy-tui/internal/model"
	"github.com/jeranaias/rentbuddy-tui/internal/session"
	"github.com/jeranaias/rentbuddy-tui/internal/storage"
	"github.com/jeranaias/rentbuddy-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type cannedClient struct {
	reply string
	intro string
}

func (c *cannedClient) Completion(ctx context.Context, utterance string, onPartial gemini.PartialFunc, history model.Log) string {
	if onPartial != nil {
		onPartial(c.reply)
	}
	return c.reply
}

func (c *cannedClient) InitialCompletion(ctx context.Context, onPartial gemini.PartialFunc, userName string) string {
	if onPartial != nil {
		onPartial(c.intro)
	}
	return c.intro
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	client := &cannedClient{intro: "Hi! What event are you planning?", reply: "A tent works well."}
	store := storage.NewHistoryStore(storage.NewMemStore())
	ctrl := session.NewController(client, store, identity.Guest)
	m := New(styles.NewTheme(), ctrl, false)

	// Simulate the initial resize and startup sequence.
	resized, _ := m.handleResize(tea.WindowSizeMsg{Width: 80, Height: 24})
	ctrl.Start(context.Background())
	updated, _ := resized.Update(StartedMsg{Log: ctrl.Log()})
	return updated.(Model)
}

// =============================================================================
// MODEL TESTS
// =============================================================================

func TestNew_StartsLoading(t *testing.T) {
	client := &cannedClient{}
	store := storage.NewHistoryStore(storage.NewMemStore())
	ctrl := session.NewController(client, store, identity.Guest)

	m := New(styles.NewTheme(), ctrl, false)
	if m.state != StateLoading {
		t.Errorf("state = %v, want StateLoading", m.state)
	}
	if m.Init() == nil {
		t.Error("Init must return the startup command")
	}
}

func TestStartedMsg_ShowsIntro(t *testing.T) {
	m := newTestModel(t)

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	view := m.View()
	if !strings.Contains(view, "What event are you planning?") {
		t.Error("view must show the introduction")
	}
}

func TestView_StatusErrorShowsFirstLineOnly(t *testing.T) {
	m := newTestModel(t)
	m.statusErr = "history save failed\nopen /tmp/x: permission denied"

	view := m.View()
	if !strings.Contains(view, "history save failed") {
		t.Error("view must surface the error")
	}
	if strings.Contains(view, "permission denied") {
		t.Error("error detail lines must not leak into the footer")
	}
}

func TestSubmit_IgnoresBlankInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	updated, cmd := m.handleSubmit()
	if cmd != nil {
		t.Error("blank input must not produce a command")
	}
	if updated.(Model).state != StateReady {
		t.Error("blank input must not change state")
	}
}

func TestSubmit_EntersThinkingState(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("need a tent")

	updated, cmd := m.handleSubmit()
	mm := updated.(Model)
	if mm.state != StateThinking {
		t.Errorf("state = %v, want StateThinking", mm.state)
	}
	if cmd == nil {
		t.Fatal("submit must produce a command")
	}
	if mm.input.Value() != "" {
		t.Error("input must be cleared on submit")
	}

	// The utterance shows in the transcript before the reply lands.
	if !strings.Contains(mm.viewport.View(), "need a tent") {
		t.Error("pending utterance must render immediately")
	}
}

func TestSubmit_IgnoredWhileThinking(t *testing.T) {
	m := newTestModel(t)
	m.state = StateThinking
	m.input.SetValue("second message")

	_, cmd := m.handleSubmit()
	if cmd != nil {
		t.Error("submit while thinking must be ignored")
	}
}

func TestReplyMsg_RendersTurn(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("need a tent")
	updated, cmd := m.handleSubmit()
	mm := updated.(Model)

	// Run the command synchronously, as the Bubble Tea runtime would.
	msg := cmd()
	final, _ := mm.Update(msg)
	fm := final.(Model)

	if fm.state != StateReady {
		t.Errorf("state = %v, want StateReady", fm.state)
	}
	view := fm.viewport.View()
	if !strings.Contains(view, "need a tent") {
		t.Error("transcript must keep the user utterance")
	}
	if !strings.Contains(view, "A tent works well.") {
		t.Error("transcript must show the reply")
	}
}

func TestResetDone_ShowsFreshIntro(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("need a tent")
	updated, cmd := m.handleSubmit()
	mm := updated.(Model)
	replied, _ := mm.Update(cmd())

	rm := replied.(Model)
	resetMsg := resetCmd(rm.ctrl)()
	final, _ := rm.Update(resetMsg)
	fm := final.(Model)

	view := fm.viewport.View()
	if strings.Contains(view, "need a tent") {
		t.Error("old turns must be gone after reset")
	}
	if !strings.Contains(view, "What event are you planning?") {
		t.Error("fresh intro must render after reset")
	}
}
