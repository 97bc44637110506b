// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rentbuddy-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rentbuddy configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Gemini API configuration
	Gemini GeminiConfig `toml:"gemini" json:"gemini"`

	// History persistence configuration
	History HistoryConfig `toml:"history" json:"history"`

	// User identity configuration
	User UserConfig `toml:"user" json:"user"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// GeminiConfig contains Gemini API configuration.
type GeminiConfig struct {
	// Endpoint is the generateContent URL
	Endpoint string `toml:"endpoint" json:"endpoint"`
	// APIKey is the Gemini API key (also via RENTBUDDY_API_KEY)
	APIKey string `toml:"api_key" json:"api_key"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// ChatTemperature applies to conversation turns
	ChatTemperature float64 `toml:"chat_temperature" json:"chat_temperature"`
	// ChatMaxTokens caps the reply length for conversation turns
	ChatMaxTokens int `toml:"chat_max_tokens" json:"chat_max_tokens"`
	// IntroTemperature applies to the introduction request
	IntroTemperature float64 `toml:"intro_temperature" json:"intro_temperature"`
	// IntroMaxTokens caps the introduction length
	IntroMaxTokens int `toml:"intro_max_tokens" json:"intro_max_tokens"`
}

// HistoryConfig contains chat history persistence configuration.
type HistoryConfig struct {
	// Backend selects the store: "file", "sqlite", or "memory"
	Backend string `toml:"backend" json:"backend"`
	// Dir is the file backend directory (empty = ~/.rentbuddy/history)
	Dir string `toml:"dir" json:"dir"`
	// DatabasePath is the sqlite backend path (empty = ~/.rentbuddy/history.db)
	DatabasePath string `toml:"database_path" json:"database_path"`
}

// UserConfig contains the signed-in customer identity.
// Empty values fall back to the guest identity.
type UserConfig struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark" or "light"
	Theme string `toml:"theme" json:"theme"`
	// RenderMarkdown enables glamour rendering of assistant replies
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
	// CompactMode reduces message spacing
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Gemini: GeminiConfig{
			Endpoint:         "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
			APIKey:           "",
			TimeoutSecs:      30,
			ChatTemperature:  0.7,
			ChatMaxTokens:    800,
			IntroTemperature: 0.6,
			IntroMaxTokens:   150,
		},

		History: HistoryConfig{
			Backend:      "file",
			Dir:          "",
			DatabasePath: "",
		},

		User: UserConfig{},

		UI: UIConfig{
			Theme:          "dark",
			RenderMarkdown: true,
			CompactMode:    false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rentbuddy configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rentbuddy"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 because they hold the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finishLoad applies env overrides, fills defaults, and validates.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from an explicit TOML or JSON path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = LoadTOML(cfg, path)
	case ".json":
		err = LoadJSON(cfg, path)
	default:
		err = fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML location.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# rentbuddy configuration file")
	fmt.Fprintln(file, "# Generated by rentbuddy - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file atomically.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors aggregates multiple validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Gemini.Endpoint != "" {
		if u, err := url.Parse(c.Gemini.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{Field: "gemini.endpoint", Message: "must be a valid URL"})
		}
	}
	if c.Gemini.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "gemini.timeout_secs", Message: "must be non-negative"})
	}
	if c.Gemini.ChatTemperature < 0 || c.Gemini.ChatTemperature > 2 {
		errs = append(errs, ValidationError{Field: "gemini.chat_temperature", Message: "must be between 0 and 2"})
	}
	if c.Gemini.IntroTemperature < 0 || c.Gemini.IntroTemperature > 2 {
		errs = append(errs, ValidationError{Field: "gemini.intro_temperature", Message: "must be between 0 and 2"})
	}
	if c.Gemini.ChatMaxTokens < 0 {
		errs = append(errs, ValidationError{Field: "gemini.chat_max_tokens", Message: "must be non-negative"})
	}
	if c.Gemini.IntroMaxTokens < 0 {
		errs = append(errs, ValidationError{Field: "gemini.intro_max_tokens", Message: "must be non-negative"})
	}

	switch c.History.Backend {
	case "", "file", "sqlite", "memory":
	default:
		errs = append(errs, ValidationError{Field: "history.backend", Message: `must be "file", "sqlite", or "memory"`})
	}

	switch c.UI.Theme {
	case "", "dark", "light":
	default:
		errs = append(errs, ValidationError{Field: "ui.theme", Message: `must be "dark" or "light"`})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills in zero values with defaults after loading.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Gemini.Endpoint == "" {
		c.Gemini.Endpoint = defaults.Gemini.Endpoint
	}
	if c.Gemini.TimeoutSecs == 0 {
		c.Gemini.TimeoutSecs = defaults.Gemini.TimeoutSecs
	}
	if c.Gemini.ChatTemperature == 0 {
		c.Gemini.ChatTemperature = defaults.Gemini.ChatTemperature
	}
	if c.Gemini.ChatMaxTokens == 0 {
		c.Gemini.ChatMaxTokens = defaults.Gemini.ChatMaxTokens
	}
	if c.Gemini.IntroTemperature == 0 {
		c.Gemini.IntroTemperature = defaults.Gemini.IntroTemperature
	}
	if c.Gemini.IntroMaxTokens == 0 {
		c.Gemini.IntroMaxTokens = defaults.Gemini.IntroMaxTokens
	}
	if c.History.Backend == "" {
		c.History.Backend = defaults.History.Backend
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies RENTBUDDY_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	// RENTBUDDY_API_KEY
	if key := os.Getenv("RENTBUDDY_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}

	// RENTBUDDY_ENDPOINT
	if endpoint := os.Getenv("RENTBUDDY_ENDPOINT"); endpoint != "" {
		c.Gemini.Endpoint = endpoint
	}

	// RENTBUDDY_TIMEOUT_SECS
	if timeout := os.Getenv("RENTBUDDY_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.Gemini.TimeoutSecs = secs
		}
	}

	// RENTBUDDY_HISTORY_BACKEND
	if backend := os.Getenv("RENTBUDDY_HISTORY_BACKEND"); backend != "" {
		c.History.Backend = backend
	}

	// RENTBUDDY_HISTORY_DIR
	if dir := os.Getenv("RENTBUDDY_HISTORY_DIR"); dir != "" {
		c.History.Dir = dir
	}

	// RENTBUDDY_USER_ID / RENTBUDDY_USER_NAME
	if id := os.Getenv("RENTBUDDY_USER_ID"); id != "" {
		c.User.ID = id
	}
	if name := os.Getenv("RENTBUDDY_USER_NAME"); name != "" {
		c.User.Name = name
	}

	// RENTBUDDY_THEME
	if theme := os.Getenv("RENTBUDDY_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.Mutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}
