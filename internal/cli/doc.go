// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain-terminal surface of rentbuddy.
//
// The TUI is the primary interface; this package covers everything
// else: argument parsing, the --plain readline REPL for terminals
// where Bubble Tea is unwanted, and version/help output.
package cli
