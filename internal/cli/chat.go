// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal chat REPL.
//
// Handles "rentbuddy chat --plain", a readline-style conversation loop
// for terminals or scripts where the full TUI is unwanted.
//
// Interactive commands (during chat):
//   /new, /n        Clear history and start a fresh conversation
//   /history        Reprint the full transcript
//   /help, /h       Show available commands
//   /quit, /q       Exit chat
//   Ctrl+C, Ctrl+D  Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/rentbuddy-tui/internal/config"
	"github.com/jeranaias/rentbuddy-tui/internal/model"
	"github.com/jeranaias/rentbuddy-tui/internal/session"
	"github.com/jeranaias/rentbuddy-tui/internal/ui/styles"
	"github.com/jeranaias/rentbuddy-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the chat REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "input_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies. nil falls back to plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// =============================================================================
// CHAT REPL
// =============================================================================

// RunChat runs the plain-terminal conversation loop until the user
// quits. The controller must not have been started yet.
func RunChat(ctrl *session.Controller, cfg *config.Config) error {
	input := NewChatCLI()
	defer input.Close()
	defer ctrl.Flush()

	ctx := context.Background()

	fmt.Println(welcomeStyle.Render("RentBuddy") + infoStyle.Render("  event rental assistant"))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()

	ctrl.Start(ctx)
	if transcript := ctrl.Log(); transcript.Len() > 1 {
		newest, _ := transcript.Newest()
		fmt.Println(styles.RenderInfo("Resumed your conversation. Last reply: " + newest.Preview(60)))
		fmt.Println()
	} else {
		printNewest(ctrl, cfg)
	}

	for {
		line, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// ErrPromptAborted is Ctrl+C, anything else is EOF.
			if !errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
			}
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleSlashCommand(ctx, line, ctrl, cfg); quit {
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		fmt.Println(infoStyle.Render("RentBuddy is typing..."))
		if err := ctrl.Submit(ctx, line); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			continue
		}
		printNewest(ctrl, cfg)
	}
}

// handleSlashCommand executes one REPL command. Returns true to exit.
func handleSlashCommand(ctx context.Context, line string, ctrl *session.Controller, cfg *config.Config) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case "/quit", "/q", "/exit":
		return true

	case "/new", "/n":
		if err := ctrl.Reset(ctx); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			return false
		}
		fmt.Println(styles.RenderSuccess("Started a new conversation."))
		printNewest(ctrl, cfg)

	case "/history":
		printTranscript(ctrl, cfg)

	case "/help", "/h":
		fmt.Println(infoStyle.Render("  /new, /n      start a fresh conversation"))
		fmt.Println(infoStyle.Render("  /history      reprint the full transcript"))
		fmt.Println(infoStyle.Render("  /quit, /q     exit"))

	default:
		fmt.Println(styles.RenderWarning("Unknown command. Type /help for commands."))
	}
	return false
}

// printNewest prints the newest assistant message.
func printNewest(ctrl *session.Controller, cfg *config.Config) {
	newest, ok := ctrl.Log().Newest()
	if !ok || !newest.Author.IsAssistant() {
		return
	}
	printMessage(newest, cfg)
}

// printTranscript prints the whole conversation oldest-first.
func printTranscript(ctrl *session.Controller, cfg *config.Config) {
	for _, msg := range ctrl.Log().Chronological() {
		printMessage(msg, cfg)
	}
}

func printMessage(msg model.Message, cfg *config.Config) {
	// Pad before styling so both speaker columns line up.
	name := util.PadRight(msg.Author.Name+":", 10)
	label := userLabelStyle.Render(name)
	text := msg.Text
	if msg.Author.IsAssistant() {
		label = assistantLabelStyle.Render(name)
		if cfg.UI.RenderMarkdown {
			text = renderMarkdown(text)
		}
	}
	fmt.Printf("%s %s\n\n", label, text)
}
