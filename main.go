// noesis TUI - a terminal client for the NOESIS streaming chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noesislabs/noesis-tui/internal/config"
	"github.com/noesislabs/noesis-tui/internal/noesis"
	"github.com/noesislabs/noesis-tui/internal/session"
	"github.com/noesislabs/noesis-tui/internal/ui/chat"
	"github.com/noesislabs/noesis-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("noesis %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	client := noesis.NewClientWithConfig(&noesis.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Timeout(),
	})

	controller := session.NewController(client, client, cfg.Sampling())
	theme := styles.NewTheme(cfg.UI.Theme)

	p := tea.NewProgram(
		chat.New(controller, cfg, theme),
		tea.WithAltScreen(),
	)

	// Engine changes flow back into the Bubble Tea loop.
	controller.SetOnChange(func() {
		p.Send(chat.EngineUpdatedMsg{})
	})

	// Reload sampling parameters when the config file changes on disk.
	if path, err := config.ConfigPath(); err == nil {
		watcher, err := config.NewWatcher(path, func(next *config.Config) {
			controller.SetSampling(next.Sampling())
			p.Send(chat.ConfigReloadedMsg{Config: next})
		})
		if err == nil && watcher.Watch() == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
