// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rentbuddy-tui/internal/model"
	"github.com/jeranaias/rentbuddy-tui/internal/util"
)

// View renders the full conversation screen.
func (m Model) View() string {
	if !m.ready {
		return m.theme.ThinkingText.Render("starting...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.footerView(),
	)
}

// =============================================================================
// HEADER AND FOOTER
// =============================================================================

func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render("RentBuddy")
	subtitle := m.theme.HeaderSubtitle.Render("event rental assistant")
	who := m.theme.HeaderSubtitle.Render(util.TruncateWidth(m.ctrl.User().Name, 24))

	left := title + " " + subtitle
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(who) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + who)
}

func (m Model) footerView() string {
	var lines []string

	switch {
	case m.statusErr != "":
		errLine := util.TruncateWidth(util.FirstLine(m.statusErr), m.width-2)
		lines = append(lines, m.theme.ErrorText.Render(errLine))
	case m.state == StateLoading:
		lines = append(lines, m.spinner.View()+m.theme.ThinkingText.Render(" loading..."))
	case m.state == StateThinking:
		lines = append(lines, m.spinner.View()+m.theme.ThinkingText.Render(" RentBuddy is typing..."))
	}

	inputWidth := m.width - 4
	if inputWidth < 10 {
		inputWidth = 10
	}
	lines = append(lines, m.theme.InputContainer.Width(inputWidth).Render(m.input.View()))
	lines = append(lines, m.statusBarView())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) statusBarView() string {
	shortcuts := []struct{ key, desc string }{
		{"Enter", "send"},
		{"C-n", "new conversation"},
		{"PgUp/PgDn", "scroll"},
		{"C-c", "quit"},
	}

	parts := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		parts[i] = m.theme.ShortcutKey.Render(s.key) + m.theme.ShortcutDesc.Render(" "+s.desc)
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshTranscript rebuilds the viewport content from the transcript.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.log.Chronological() {
		if msg.IsPlaceholder() {
			continue
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	// The just-sent utterance is shown before its turn resolves.
	if m.pendingUtterance != "" {
		b.WriteString(m.renderMessage(model.NewUserMessage(m.pendingUtterance)))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// renderMessage renders one message as a labeled bubble.
func (m *Model) renderMessage(msg model.Message) string {
	label := m.theme.AuthorLabel.Render(msg.Author.Name)
	stamp := m.theme.Timestamp.Render(msg.CreatedAt.Format("3:04 PM"))

	maxWidth := m.width * 3 / 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	text := msg.Text
	bubble := m.theme.UserBubble
	if msg.Author.IsAssistant() {
		bubble = m.theme.AssistantBubble
		text = m.renderAssistantText(text)
	}

	body := bubble.MaxWidth(maxWidth).Render(text)
	return label + " " + stamp + "\n" + body + "\n"
}

// renderAssistantText applies markdown rendering when available.
func (m *Model) renderAssistantText(text string) string {
	if m.markdown == nil {
		return text
	}
	rendered, err := m.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}
