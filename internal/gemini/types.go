// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// =============================================================================
// WIRE TYPES
// =============================================================================

// generateRequest is the body of a generateContent POST.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse is the subset of the API response the client reads.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// text extracts the first candidate's first text part. ok is false when
// the response carries no usable reply, including an empty text part.
func (r *generateResponse) text() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", false
	}
	return parts[0].Text, true
}
