// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rentbuddy-tui/internal/session"
)

// Update handles all incoming messages for the conversation view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StartedMsg:
		m.state = StateReady
		m.log = msg.Log
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case ReplyMsg:
		m.state = StateReady
		m.pendingUtterance = ""
		if msg.Err != nil && !errors.Is(msg.Err, session.ErrBusy) {
			m.statusErr = msg.Err.Error()
		}
		m.log = msg.Log
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case ResetDoneMsg:
		m.state = StateReady
		if msg.Err != nil {
			if errors.Is(msg.Err, session.ErrBusy) {
				m.statusErr = "wait for the current reply before starting over"
			} else {
				m.statusErr = msg.Err.Error()
			}
		}
		m.log = msg.Log
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil
	}

	return m.updateComponents(msg)
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewChat):
		if m.state == StateThinking || m.state == StateLoading {
			m.statusErr = "wait for the current reply before starting over"
			return m, nil
		}
		m.state = StateLoading
		m.statusErr = ""
		return m, resetCmd(m.ctrl)

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	return m.updateComponents(msg)
}

// handleSubmit validates and sends the current input line. Input is
// ignored while a reply is pending or the text is blank.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" || m.state != StateReady {
		return m, nil
	}

	m.input.Reset()
	m.statusErr = ""
	m.state = StateThinking
	m.pendingUtterance = text
	m.refreshTranscript()
	m.viewport.GotoBottom()

	return m, submitCmd(m.ctrl, text)
}

// updateComponents forwards messages to the focused components.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
