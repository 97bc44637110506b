// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/jeranaias/rentbuddy-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Gemini client. These never
// reach callers of Completion or InitialCompletion; they are logged and
// replaced with the fallback reply.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeAPI
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid API response"}
)

// =============================================================================
// FALLBACK REPLIES
// =============================================================================

const (
	// FallbackReply is returned for any failed completion.
	FallbackReply = "Something went wrong. Try again."

	// NoResponseReply is returned when the API answers with no usable text.
	NoResponseReply = "No response"
)

// FallbackGreeting is the canned introduction used when the intro
// request fails. userName may be empty.
func FallbackGreeting(userName string) string {
	greeting := "Hi!"
	if userName != "" {
		greeting = "Hi " + userName + "!"
	}
	return greeting + " I'm RentBuddy, your event rental assistant. What kind of event are you planning?"
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// Endpoint is the generateContent URL
	// (default: the gemini-2.0-flash model on generativelanguage.googleapis.com)
	Endpoint string

	// APIKey is passed as the key query parameter.
	APIKey string

	// Persona is the instructional preamble prepended to every prompt.
	Persona string

	// Timeout for completion requests (default: 30s)
	Timeout time.Duration

	// ChatTemperature and ChatMaxTokens apply to conversation turns.
	ChatTemperature float64
	ChatMaxTokens   int

	// IntroTemperature and IntroMaxTokens apply to the introduction.
	IntroTemperature float64
	IntroMaxTokens   int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Endpoint:         "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
		Persona:          DefaultPersona,
		Timeout:          30 * time.Second,
		ChatTemperature:  0.7,
		ChatMaxTokens:    800,
		IntroTemperature: 0.6,
		IntroMaxTokens:   150,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// PartialFunc receives the reply text. The client calls it exactly once
// per completion, with either the model's reply or a fallback string.
type PartialFunc func(token string)

// Client handles communication with the Gemini generateContent API.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a Gemini client with default configuration.
func NewClient(apiKey string) *Client {
	config := DefaultConfig()
	config.APIKey = apiKey
	return NewClientWithConfig(config)
}

// NewClientWithConfig creates a Gemini client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	defaults := DefaultConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Persona == "" {
		config.Persona = defaults.Persona
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.ChatTemperature == 0 {
		config.ChatTemperature = defaults.ChatTemperature
	}
	if config.ChatMaxTokens == 0 {
		config.ChatMaxTokens = defaults.ChatMaxTokens
	}
	if config.IntroTemperature == 0 {
		config.IntroTemperature = defaults.IntroTemperature
	}
	if config.IntroMaxTokens == 0 {
		config.IntroMaxTokens = defaults.IntroMaxTokens
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// COMPLETIONS
// =============================================================================

// Completion sends one conversation turn and returns the reply text.
//
// The prompt is the persona, the transcript oldest-first, and the new
// utterance. onPartial is invoked exactly once with the reply. On any
// transport or API failure the error is logged and the fixed fallback
// string is delivered instead; this method never returns an error.
func (c *Client) Completion(ctx context.Context, utterance string, onPartial PartialFunc, history model.Log) string {
	prompt := buildPrompt(c.config.Persona, utterance, history)

	text, err := c.generate(ctx, prompt, c.config.ChatTemperature, c.config.ChatMaxTokens)
	if err != nil {
		log.Printf("gemini: completion failed: %v", err)
		deliver(onPartial, FallbackReply)
		return FallbackReply
	}

	deliver(onPartial, text)
	return text
}

// InitialCompletion asks the model to introduce itself, personalized
// with userName when present. Same delivery contract as Completion; the
// failure fallback is a templated greeting rather than the error string.
func (c *Client) InitialCompletion(ctx context.Context, onPartial PartialFunc, userName string) string {
	prompt := buildIntroPrompt(c.config.Persona, userName)

	text, err := c.generate(ctx, prompt, c.config.IntroTemperature, c.config.IntroMaxTokens)
	if err != nil {
		log.Printf("gemini: intro completion failed: %v", err)
		greeting := FallbackGreeting(userName)
		deliver(onPartial, greeting)
		return greeting
	}

	deliver(onPartial, text)
	return text
}

func deliver(onPartial PartialFunc, text string) {
	if onPartial != nil {
		onPartial(text)
	}
}

// generate performs one generateContent POST and extracts the reply.
func (c *Client) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	})
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// http.Client.Timeout surfaces as a *url.Error, not the context
		// sentinel, so check both.
		var urlErr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ClientError{
			Type:    ErrTypeAPI,
			Message: fmt.Sprintf("API returned status %d: %s", resp.StatusCode, bytes.TrimSpace(data)),
		}
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	text, ok := parsed.text()
	if !ok {
		// A well-formed response with no text is a reply, not an error.
		return NoResponseReply, nil
	}
	return text, nil
}

// requestURL appends the API key as a query parameter.
func (c *Client) requestURL() string {
	if c.config.APIKey == "" {
		return c.config.Endpoint
	}
	return c.config.Endpoint + "?key=" + url.QueryEscape(c.config.APIKey)
}

// drainAndClose fully reads and closes a response body so the
// underlying connection can be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r) //nolint:errcheck
	r.Close()
}
