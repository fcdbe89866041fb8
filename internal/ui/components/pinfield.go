// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dravisapp/dravis-tui/internal/gate"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
)

// =============================================================================
// PIN FIELD COMPONENT
// =============================================================================

// PinField renders the lock screen PIN entry. Digits are masked;
// only fill progress is visible.
type PinField struct {
	theme *styles.Theme
}

// NewPinField creates a PIN field.
func NewPinField(theme *styles.Theme) PinField {
	return PinField{theme: theme}
}

// Render draws the masked PIN slots plus any gate message.
func (p PinField) Render(entered int, message string) string {
	var slots []string
	for i := 0; i < gate.PinLength; i++ {
		if i < entered {
			slots = append(slots, p.theme.LockDigit.Render("*"))
		} else {
			slots = append(slots, p.theme.LockBlank.Render("_"))
		}
	}

	lines := []string{
		p.theme.LockTitle.Render("DRAVIS"),
		"",
		p.theme.LockHint.Render("Enter your PIN"),
		"",
		strings.Join(slots, " "),
	}
	if message != "" {
		lines = append(lines, "", p.theme.LockError.Render(message))
	}
	return p.theme.LockBox.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
