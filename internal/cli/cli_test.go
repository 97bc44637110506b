// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser_Subcommand(t *testing.T) {
	args := NewArgParser([]string{"chat", "--plain"})
	if args.Subcommand() != "chat" {
		t.Errorf("Subcommand() = %q, want %q", args.Subcommand(), "chat")
	}
	if !args.BoolFlag("plain") {
		t.Error("plain flag should be set")
	}
}

func TestArgParser_FlagFormats(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		check func(t *testing.T, p *ArgParser)
	}{
		{
			name: "equals format",
			raw:  []string{"--config=/tmp/c.toml"},
			check: func(t *testing.T, p *ArgParser) {
				if p.Flag("config") != "/tmp/c.toml" {
					t.Errorf("config = %q", p.Flag("config"))
				}
			},
		},
		{
			name: "space format",
			raw:  []string{"--config", "/tmp/c.toml"},
			check: func(t *testing.T, p *ArgParser) {
				if p.Flag("config") != "/tmp/c.toml" {
					t.Errorf("config = %q", p.Flag("config"))
				}
			},
		},
		{
			name: "explicit bool",
			raw:  []string{"--plain=false"},
			check: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("plain") {
					t.Error("plain=false should not be set")
				}
				if !p.HasFlag("plain") {
					t.Error("plain should still be present")
				}
			},
		},
		{
			name: "trailing bool before flag",
			raw:  []string{"--plain", "--config=/tmp/c.toml"},
			check: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("plain") {
					t.Error("plain should be boolean when followed by a flag")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, NewArgParser(tc.raw))
		})
	}
}

func TestArgParser_Positionals(t *testing.T) {
	args := NewArgParser([]string{"chat", "extra", "--plain"})

	if args.PositionalCount() != 2 {
		t.Errorf("PositionalCount() = %d, want 2", args.PositionalCount())
	}
	if args.Positional(1) != "extra" {
		t.Errorf("Positional(1) = %q", args.Positional(1))
	}
	if args.Positional(5) != "" {
		t.Error("out-of-range positional should be empty")
	}
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	args := NewArgParser([]string{})
	if got := args.FlagOrDefault("theme", "dark"); got != "dark" {
		t.Errorf("FlagOrDefault = %q, want %q", got, "dark")
	}
}

// =============================================================================
// MARKDOWN RENDERING TESTS
// =============================================================================

func TestRenderMarkdown_FallsBackOnPlainText(t *testing.T) {
	out := renderMarkdown("just a sentence")
	if out == "" {
		t.Error("rendering must never swallow the content")
	}
}
