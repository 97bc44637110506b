// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		p    Provider
		want Actor
	}{
		{"nil provider", nil, Guest},
		{"none provider", None{}, Guest},
		{"static actor", Static{Actor: Actor{ID: "u42", Name: "Dana"}}, Actor{ID: "u42", Name: "Dana"}},
		{"static without id", Static{}, Guest},
		{"missing name defaults", Static{Actor: Actor{ID: "u42"}}, Actor{ID: "u42", Name: "Guest"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.p)
			if got != tc.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
