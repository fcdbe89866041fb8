// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application. The
// configured theme name wins over terminal background detection so the
// settings toggle behaves predictably across terminals.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderBrand lipgloss.Style

	// ==========================================================================
	// LOCK SCREEN STYLES
	// ==========================================================================

	LockBox     lipgloss.Style
	LockTitle   lipgloss.Style
	LockDigit   lipgloss.Style
	LockBlank   lipgloss.Style
	LockError   lipgloss.Style
	LockHint    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	MessageMeta     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	StatusUnknown lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// SESSION SIDEBAR STYLES
	// ==========================================================================

	SessionList         lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// DOCUMENT LIBRARY STYLES
	// ==========================================================================

	DocList         lipgloss.Style
	DocItem         lipgloss.Style
	DocItemSelected lipgloss.Style
	DocMeta         lipgloss.Style
	ConfirmBox      lipgloss.Style

	// ==========================================================================
	// QUIZ STYLES
	// ==========================================================================

	QuizCard      lipgloss.Style
	QuizQuestion  lipgloss.Style
	QuizOption    lipgloss.Style
	QuizSelected  lipgloss.Style
	QuizCorrect   lipgloss.Style
	QuizIncorrect lipgloss.Style
	QuizReveal    lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	AlertBox     lipgloss.Style
	SuccessText  lipgloss.Style
	ErrorText    lipgloss.Style
}

// NewTheme creates a theme. name selects "dark" or "light"; anything
// else falls back to terminal background detection.
func NewTheme(name string) *Theme {
	var isDark bool
	switch name {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	lipgloss.SetHasDarkBackground(isDark)
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Background(SurfaceDim).
		Padding(0, 2)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.HeaderBrand = lipgloss.NewStyle().Bold(true).Foreground(Teal)

	// Lock screen
	t.LockBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 4).
		Align(lipgloss.Center)
	t.LockTitle = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.LockDigit = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.LockBlank = lipgloss.NewStyle().Foreground(TextMuted)
	t.LockError = lipgloss.NewStyle().Foreground(Rose)
	t.LockHint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.MessageMeta = lipgloss.NewStyle().Foreground(TextMuted)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.InputPlaceholder = lipgloss.NewStyle().Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.StatusOnline = lipgloss.NewStyle().Bold(true).Foreground(Emerald)
	t.StatusOffline = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.StatusUnknown = lipgloss.NewStyle().Foreground(Slate)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	// Session sidebar
	t.SessionList = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SessionItem = lipgloss.NewStyle().Foreground(TextSecondary)
	t.SessionItemSelected = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.SessionMeta = lipgloss.NewStyle().Foreground(TextMuted)

	// Document library
	t.DocList = lipgloss.NewStyle().Padding(0, 1)
	t.DocItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.DocItemSelected = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.DocMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Foreground(TextPrimary).
		Padding(0, 2)

	// Quiz
	t.QuizCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 2)
	t.QuizQuestion = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.QuizOption = lipgloss.NewStyle().Foreground(TextSecondary)
	t.QuizSelected = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.QuizCorrect = lipgloss.NewStyle().Bold(true).Foreground(Emerald)
	t.QuizIncorrect = lipgloss.NewStyle().Bold(true).Foreground(Rose)
	t.QuizReveal = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Feedback
	t.Spinner = lipgloss.NewStyle().Foreground(Indigo)
	t.ThinkingText = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.AlertBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Foreground(Amber).
		Padding(0, 1)
	t.SuccessText = lipgloss.NewStyle().Foreground(Emerald)
	t.ErrorText = lipgloss.NewStyle().Foreground(Rose)
}

// SetSize records the terminal dimensions for layout calculations.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
