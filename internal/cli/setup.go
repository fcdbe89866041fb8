// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/config"
)

// =============================================================================
// SETUP COMMAND
// =============================================================================

// HandleSetup runs the first-run wizard: backend URL, theme, and an
// optional PIN.
func HandleSetup(args Args) {
	if !IsStdinTTY() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), "setup requires an interactive terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	fmt.Println(welcomeStyle.Render("DRAVIS setup"))
	fmt.Println(infoStyle.Render("Press Enter to keep the value in brackets."))
	fmt.Println()

	if v := promptDefault(line, "Backend URL", cfg.Backend.BaseURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := promptDefault(line, "Theme (dark/light)", cfg.UI.Theme); v == "dark" || v == "light" {
		cfg.UI.Theme = v
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	fmt.Println(successStyle.Render("Configuration saved."))

	// Offer PIN setup when the backend is up and no PIN exists yet.
	client := backend.NewClient(cfg.Backend.BaseURL)
	if err := client.Health(context.Background()); err != nil {
		fmt.Println(warningStyle.Render("Backend not reachable; skipping PIN setup."))
		return
	}
	if exists, err := client.PinExists(context.Background()); err == nil && !exists {
		answer, _ := line.Prompt(infoStyle.Render("Set an access PIN now? (y/N) "))
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			handlePinSet(client)
		}
	}
	fmt.Println(successStyle.Render("Setup complete. Run `dravis` to start."))
}

// promptDefault asks for a value, returning "" to keep the default.
func promptDefault(line *liner.State, label, current string) string {
	v, err := line.Prompt(fmt.Sprintf("%s [%s]: ", label, current))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}
