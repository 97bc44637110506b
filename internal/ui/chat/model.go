// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rentbuddy-tui/internal/model"
	"github.com/jeranaias/rentbuddy-tui/internal/session"
	"github.com/jeranaias/rentbuddy-tui/internal/ui/styles"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateLoading  State = iota // Waiting for startup to finish
	StateReady                 // Ready for input
	StateThinking              // Waiting for a reply
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view.
type Model struct {
	// State
	state State

	// Conversation
	ctrl *session.Controller
	log  model.Log

	// The utterance shown while its turn is still in flight
	pendingUtterance string

	// Styling
	theme *styles.Theme
	keys  KeyMap

	// Markdown rendering for assistant replies (nil = plain text)
	markdown *glamour.TermRenderer

	// Dimensions
	width  int
	height int
	ready  bool

	// Components
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	renderMD  bool
	statusErr string
}

// New creates the conversation view bound to a session controller.
func New(theme *styles.Theme, ctrl *session.Controller, renderMarkdown bool) Model {
	ti := textinput.New()
	ti.Placeholder = "What event are you planning?"
	ti.CharLimit = 2000
	ti.Prompt = theme.InputPrompt.Render("> ")
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := Model{
		state:    StateLoading,
		ctrl:     ctrl,
		theme:    theme,
		keys:     DefaultKeyMap(),
		input:    ti,
		spinner:  sp,
		renderMD: renderMarkdown,
	}
	m.initMarkdown(80)
	return m
}

// initMarkdown (re)builds the glamour renderer for the given wrap width.
// A failed build falls back to plain text rendering.
func (m *Model) initMarkdown(width int) {
	if !m.renderMD {
		m.markdown = nil
		return
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.markdown = nil
		return
	}
	m.markdown = renderer
}

// Init starts the spinner and kicks off the conversation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, startCmd(m.ctrl))
}

// =============================================================================
// COMMANDS
// =============================================================================

// startCmd runs controller startup off the UI goroutine.
func startCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Start(context.Background())
		return StartedMsg{Log: ctrl.Log()}
	}
}

// submitCmd sends one utterance and blocks until the reply lands.
func submitCmd(ctrl *session.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Submit(context.Background(), text)
		return ReplyMsg{Log: ctrl.Log(), Err: err}
	}
}

// resetCmd clears history and regenerates the introduction.
func resetCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Reset(context.Background())
		return ResetDoneMsg{Log: ctrl.Log(), Err: err}
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize recomputes component sizes for a new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := lipgloss.Height(m.headerView())
	footerHeight := lipgloss.Height(m.footerView())
	viewportHeight := msg.Height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = msg.Width - 6

	wrap := msg.Width - 8
	if wrap < 20 {
		wrap = 20
	}
	m.initMarkdown(wrap)

	m.refreshTranscript()
	return m, nil
}
