// DRAVIS TUI - a terminal client for a locally running study assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/cli"
	"github.com/dravisapp/dravis-tui/internal/config"
	"github.com/dravisapp/dravis-tui/internal/session"
	"github.com/dravisapp/dravis-tui/internal/status"
	"github.com/dravisapp/dravis-tui/internal/store"
	"github.com/dravisapp/dravis-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdSetup:
		cli.HandleSetup(args)
	case cli.CmdPin:
		cli.HandlePin(args)
	case cli.CmdExport:
		cli.HandleExport(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	if args.Debug {
		if dir, err := config.Dir(); err == nil {
			if f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "dravis"); err == nil {
				defer f.Close()
			}
		}
	}

	var kv *store.Store
	if cfg.Storage.DatabasePath != "" {
		kv, err = store.Open(cfg.Storage.DatabasePath)
	} else {
		kv, err = store.OpenDefault()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open local state:", err)
		os.Exit(1)
	}
	defer kv.Close()

	sessions, err := session.NewStore(kv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load sessions:", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend.BaseURL)
	cell := status.NewCell()

	app := ui.NewApp(ui.Deps{
		Config:   cfg,
		Client:   client,
		Cell:     cell,
		Sessions: sessions,
	})
	if args.Upload != "" {
		app.StageUpload(args.Upload)
	}

	// Config edits take effect without a restart; only the backend URL
	// is picked up live.
	if path, err := config.Path(); err == nil {
		if watcher, err := config.NewWatcher(path, func(updated *config.Config) {
			client.SetBaseURL(updated.Backend.BaseURL)
		}); err == nil {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
