// rentbuddy - A terminal chat client for the RentBuddy event rental assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rentbuddy-tui/internal/cli"
	"github.com/jeranaias/rentbuddy-tui/internal/config"
	"github.com/jeranaias/rentbuddy-tui/internal/gemini"
	"github.com/jeranaias/rentbuddy-tui/internal/identity"
	"github.com/jeranaias/rentbuddy-tui/internal/session"
	"github.com/jeranaias/rentbuddy-tui/internal/storage"
	"github.com/jeranaias/rentbuddy-tui/internal/ui/chat"
	"github.com/jeranaias/rentbuddy-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := cli.NewArgParser(os.Args[1:])

	switch args.Subcommand() {
	case "", "chat":
		run(args)

	case "config":
		runConfig(args)

	case "version":
		fmt.Printf("rentbuddy %s (%s, built %s)\n", Version, GitCommit, BuildDate)

	case "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args.Subcommand())
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: rentbuddy [command] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  chat            Start the chat interface (default)")
	fmt.Println("  config init     Write a starter config file (--json for JSON)")
	fmt.Println("  config path     Print the config file location")
	fmt.Println("  version         Print version information")
	fmt.Println("  help            Show this help")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --plain         Use the plain readline REPL instead of the TUI")
	fmt.Println("  --config PATH   Load configuration from an explicit file")
	fmt.Println("  --backend NAME  History backend: file, sqlite, or memory")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  RENTBUDDY_API_KEY   Gemini API key (overrides config)")
}

// runConfig handles the config subcommand.
func runConfig(args *cli.ArgParser) {
	if args.PositionalCount() < 2 {
		fmt.Println("Usage: rentbuddy config <init|path>")
		return
	}

	switch args.Positional(1) {
	case "init":
		if err := initConfig(args.HasFlag("json")); err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			os.Exit(1)
		}

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			os.Exit(1)
		}
		fmt.Println(path)

	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", args.Positional(1))
		os.Exit(1)
	}
}

// initConfig writes a starter config file, refusing to overwrite an
// existing one.
func initConfig(asJSON bool) error {
	path, err := config.ConfigPathTOML()
	if asJSON {
		path, err = config.ConfigPathJSON()
	}
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		fmt.Println(styles.RenderWarning("Config already exists: " + path))
		return nil
	}

	cfg := config.Default()
	if asJSON {
		err = config.SaveJSON(cfg, path)
	} else {
		err = config.Save(cfg)
	}
	if err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess("Wrote " + path))
	return nil
}

// run builds the conversation stack and starts the selected surface.
func run(args *cli.ArgParser) {
	cfg := loadConfig(args)
	cfg.History.Backend = args.FlagOrDefault("backend", cfg.History.Backend)

	ctrl, cleanup, err := buildController(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if args.BoolFlag("plain") {
		if err := cli.RunChat(ctrl, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	theme := styles.NewTheme()
	m := chat.New(theme, ctrl, cfg.UI.RenderMarkdown)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads from --config when given, else the default chain.
func loadConfig(args *cli.ArgParser) *config.Config {
	if path := args.Flag("config"); path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.SetGlobal(cfg)
		return cfg
	}
	return config.Global()
}

// buildController wires the store, the Gemini client, and the session
// controller from configuration. The cleanup function flushes pending
// saves and closes the store.
func buildController(cfg *config.Config) (*session.Controller, func(), error) {
	backend, closeBackend, err := buildBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewHistoryStore(backend)

	client := gemini.NewClientWithConfig(&gemini.ClientConfig{
		Endpoint:         cfg.Gemini.Endpoint,
		APIKey:           cfg.Gemini.APIKey,
		Timeout:          time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
		ChatTemperature:  cfg.Gemini.ChatTemperature,
		ChatMaxTokens:    cfg.Gemini.ChatMaxTokens,
		IntroTemperature: cfg.Gemini.IntroTemperature,
		IntroMaxTokens:   cfg.Gemini.IntroMaxTokens,
	})

	var provider identity.Provider = identity.None{}
	if cfg.User.ID != "" {
		provider = identity.Static{Actor: identity.Actor{
			ID:   cfg.User.ID,
			Name: cfg.User.Name,
		}}
	}
	user := identity.Resolve(provider)

	ctrl := session.NewController(client, store, user)
	cleanup := func() {
		ctrl.Flush()
		closeBackend()
	}
	return ctrl, cleanup, nil
}

// buildBackend selects the history backend from configuration.
func buildBackend(cfg *config.Config) (storage.KeyValueStore, func(), error) {
	switch cfg.History.Backend {
	case "sqlite":
		db, err := storage.NewSQLiteStore(cfg.History.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history database: %w", err)
		}
		return db, func() { db.Close() }, nil

	case "memory":
		return storage.NewMemStore(), func() {}, nil

	default:
		fs, err := storage.NewFileStore(cfg.History.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history directory: %w", err)
		}
		return fs, func() {}, nil
	}
}
