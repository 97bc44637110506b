// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)

	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}

func TestStatusRenderers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		marker string
	}{
		{"success", RenderSuccess, "[OK]"},
		{"error", RenderError, "[X]"},
		{"warning", RenderWarning, "[!]"},
		{"info", RenderInfo, "[i]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.render("saved")
			if !strings.Contains(out, tc.marker) {
				t.Errorf("output %q missing marker %q", out, tc.marker)
			}
			if !strings.Contains(out, "saved") {
				t.Errorf("output %q missing message", out)
			}
		})
	}
}
