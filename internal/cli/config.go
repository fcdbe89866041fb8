// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/dravisapp/dravis-tui/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfig shows or updates configuration.
func HandleConfig(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}

	switch args.Subcommand {
	case "", "show":
		path, _ := config.Path()
		fmt.Println(welcomeStyle.Render("DRAVIS configuration"))
		fmt.Printf("  %s %s\n", infoStyle.Render("File:"), path)
		fmt.Printf("  %s %s\n", infoStyle.Render("backend.base_url:"), cfg.Backend.BaseURL)
		fmt.Printf("  %s %s\n", infoStyle.Render("ui.theme:"), cfg.UI.Theme)
		fmt.Printf("  %s %s\n", infoStyle.Render("chat.mode:"), cfg.Chat.Mode)
		fmt.Printf("  %s %t\n", infoStyle.Render("chat.use_documents:"), cfg.Chat.UseDocuments)
		fmt.Printf("  %s %s\n", infoStyle.Render("storage.export_dir:"), orDefault(cfg.Storage.ExportDir, "(current directory)"))

	case "set":
		if args.ConfigKey == "" {
			fmt.Fprintln(os.Stderr, infoStyle.Render("Usage: dravis config set KEY VALUE"))
			os.Exit(1)
		}
		if err := setConfigKey(cfg, args.ConfigKey, args.ConfigVal); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
			os.Exit(1)
		}
		if err := cfg.Save(); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Set %s = %s", args.ConfigKey, args.ConfigVal)))

	default:
		fmt.Fprintln(os.Stderr, warningStyle.Render("Unknown subcommand: "+args.Subcommand))
		fmt.Fprintln(os.Stderr, infoStyle.Render("Usage: dravis config [show|set KEY VALUE]"))
		os.Exit(1)
	}
}

// setConfigKey maps dotted keys to config fields.
func setConfigKey(cfg *config.Config, key, val string) error {
	switch key {
	case "backend.base_url":
		cfg.Backend.BaseURL = val
	case "ui.theme":
		cfg.UI.Theme = val
	case "chat.mode":
		cfg.Chat.Mode = val
	case "chat.use_documents":
		cfg.Chat.UseDocuments = val == "true"
	case "storage.export_dir":
		cfg.Storage.ExportDir = val
	case "storage.database_path":
		cfg.Storage.DatabasePath = val
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
