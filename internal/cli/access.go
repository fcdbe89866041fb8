// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/gate"
)

// =============================================================================
// ACCESS GATE (CLI)
// =============================================================================

// maxPinPrompts bounds interactive PIN attempts per invocation.
const maxPinPrompts = 3

// ensureAccess applies the access gate before a CLI command runs. An
// unreachable backend opens the gate, matching the TUI policy; a
// configured PIN is prompted for without echo.
func ensureAccess(client *backend.Client) error {
	exists, err := client.PinExists(context.Background())
	if err != nil || !exists {
		// Local-first: no reachable backend or no PIN means no lock.
		return nil
	}

	if !IsStdinTTY() {
		return fmt.Errorf("a PIN is configured; run interactively to unlock")
	}

	for attempt := 0; attempt < maxPinPrompts; attempt++ {
		pin, err := readPin("PIN: ")
		if err != nil {
			return err
		}
		if len(pin) != gate.PinLength {
			fmt.Fprintln(os.Stderr, warningStyle.Render(gate.IncorrectPinMessage))
			continue
		}
		ok, err := client.VerifyPin(context.Background(), pin)
		if err == nil && ok {
			return nil
		}
		fmt.Fprintln(os.Stderr, warningStyle.Render(gate.IncorrectPinMessage))
	}
	return fmt.Errorf("too many incorrect PIN attempts")
}

// readPin reads a PIN without echoing it.
func readPin(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read PIN: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
