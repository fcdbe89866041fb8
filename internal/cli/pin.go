// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/config"
	"github.com/dravisapp/dravis-tui/internal/gate"
)

// =============================================================================
// PIN COMMAND
// =============================================================================

// HandlePin manages the access PIN: set, check.
func HandlePin(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	client := backend.NewClient(cfg.Backend.BaseURL)

	if !IsStdinTTY() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), "pin management requires an interactive terminal")
		os.Exit(1)
	}

	switch args.Subcommand {
	case "", "set":
		handlePinSet(client)
	case "check":
		handlePinCheck(client)
	default:
		fmt.Fprintln(os.Stderr, warningStyle.Render("Unknown subcommand: "+args.Subcommand))
		fmt.Fprintln(os.Stderr, infoStyle.Render("Usage: dravis pin [set|check]"))
		os.Exit(1)
	}
}

func handlePinSet(client *backend.Client) {
	// Changing an existing PIN requires the current one first.
	exists, err := client.PinExists(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), "the DRAVIS backend is not reachable; is it running?")
		os.Exit(1)
	}
	if exists {
		current, err := readPin("Current PIN: ")
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
			os.Exit(1)
		}
		ok, err := client.VerifyPin(context.Background(), current)
		if err != nil || !ok {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), gate.IncorrectPinMessage)
			os.Exit(1)
		}
	}

	pin, err := readPin(fmt.Sprintf("New %d-digit PIN: ", gate.PinLength))
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	if !validPin(pin) {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"),
			fmt.Sprintf("the PIN must be exactly %d digits", gate.PinLength))
		os.Exit(1)
	}
	confirm, err := readPin("Confirm PIN: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	if pin != confirm {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), "PINs do not match")
		os.Exit(1)
	}

	ok, err := client.SetPin(context.Background(), pin)
	if err != nil || !ok {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), "failed to set PIN")
		os.Exit(1)
	}
	fmt.Println(successStyle.Render("PIN set."))
}

func handlePinCheck(client *backend.Client) {
	exists, err := client.PinExists(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), "the DRAVIS backend is not reachable; is it running?")
		os.Exit(1)
	}
	if !exists {
		fmt.Println(infoStyle.Render("No PIN configured."))
		return
	}
	pin, err := readPin("PIN: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	ok, err := client.VerifyPin(context.Background(), pin)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	if ok {
		fmt.Println(successStyle.Render("PIN correct."))
	} else {
		fmt.Println(warningStyle.Render(gate.IncorrectPinMessage))
		os.Exit(1)
	}
}

// validPin reports whether s is exactly PinLength digits.
func validPin(s string) bool {
	if len(s) != gate.PinLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
