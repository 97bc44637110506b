// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rentbuddy-tui/internal/ui/styles"
)

// =============================================================================
// REPL STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(styles.Purple).
				Bold(true)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
)
