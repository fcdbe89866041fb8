// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dravisapp/dravis-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT
// =============================================================================

// Spinner is the loading indicator shown while a backend call is in
// flight. ASCII frames keep it safe on limited terminals.
type Spinner struct {
	spinner spinner.Model
	theme   *styles.Theme
	message string
	active  bool
}

// NewSpinner creates a spinner.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner
	return Spinner{spinner: s, theme: theme, message: "Thinking"}
}

// Start activates the spinner and returns its tick command.
func (s *Spinner) Start(message string) tea.Cmd {
	s.active = true
	if message != "" {
		s.message = message
	}
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s Spinner) Active() bool {
	return s.active
}

// Update advances the animation while active.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner with its message, empty when inactive.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	return s.spinner.View() + " " + s.theme.ThinkingText.Render(s.message+"...")
}
