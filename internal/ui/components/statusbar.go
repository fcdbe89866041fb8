// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the DRAVIS TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
	"github.com/dravisapp/dravis-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom status line: backend availability, study
// mode, document-context flag and keyboard hints.
type StatusBar struct {
	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// statusIndicator returns the icon and styled label for a backend state.
// Shapes accompany colors for colorblind users.
func (b StatusBar) statusIndicator(st status.State) string {
	switch st {
	case status.Online:
		return b.theme.StatusOnline.Render("+ Online")
	case status.Offline:
		return b.theme.StatusOffline.Render("x Offline")
	default:
		return b.theme.StatusUnknown.Render("o Checking")
	}
}

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// Render draws the status bar at the given width.
func (b StatusBar) Render(width int, st status.State, mode backend.Mode, useDocs bool, shortcuts []Shortcut) string {
	left := []string{b.statusIndicator(st), b.theme.ShortcutDesc.Render(mode.Label())}
	if useDocs {
		left = append(left, b.theme.ShortcutDesc.Render("docs:on"))
	}

	var hints []string
	for _, s := range shortcuts {
		hints = append(hints, fmt.Sprintf("%s %s",
			b.theme.ShortcutKey.Render(s.Key),
			b.theme.ShortcutDesc.Render(s.Desc)))
	}

	leftStr := strings.Join(left, "  ")
	rightStr := strings.Join(hints, "  ")

	gap := width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}
	line := leftStr + strings.Repeat(" ", gap) + rightStr
	return b.theme.StatusBar.Render(util.TruncateWidth(line, width))
}
