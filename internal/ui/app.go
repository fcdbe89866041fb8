// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/chat"
	"github.com/dravisapp/dravis-tui/internal/config"
	"github.com/dravisapp/dravis-tui/internal/docs"
	"github.com/dravisapp/dravis-tui/internal/export"
	"github.com/dravisapp/dravis-tui/internal/gate"
	"github.com/dravisapp/dravis-tui/internal/quiz"
	"github.com/dravisapp/dravis-tui/internal/session"
	"github.com/dravisapp/dravis-tui/internal/status"
	"github.com/dravisapp/dravis-tui/internal/ui/components"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
	"github.com/dravisapp/dravis-tui/internal/voice"
)

// =============================================================================
// VIEWS
// =============================================================================

// View identifies the visible screen once the gate is unlocked.
type View int

const (
	ViewChat View = iota
	ViewLibrary
	ViewQuiz
	ViewSettings
)

// String returns the header label for a view.
func (v View) String() string {
	switch v {
	case ViewChat:
		return "Chat"
	case ViewLibrary:
		return "Library"
	case ViewQuiz:
		return "Quiz"
	case ViewSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	cfg    *config.Config
	theme  *styles.Theme
	keys   KeyMap
	client *backend.Client
	cell   *status.Cell

	gate     *gate.Gate
	sessions *session.Store
	chat     *chat.Orchestrator
	docs     *docs.Orchestrator
	quiz     *quiz.Orchestrator
	voice    *voice.Orchestrator

	view   View
	width  int
	height int
	ready  bool
	notice string

	// Components
	statusBar components.StatusBar
	pinField  components.PinField
	sidebar   components.Sidebar
	docList   components.DocList
	quizCard  components.QuizCard
	spinner   components.Spinner

	input       textinput.Model // chat input
	topicInput  textinput.Model // quiz topic
	answerInput textinput.Model // free-text quiz answer
	viewport    viewport.Model  // chat transcript

	markdown *glamour.TermRenderer

	// Per-view cursors
	docCursor  int
	quizIndex  int
	quizCursor int
}

// Deps bundles the wired subsystems the shell drives.
type Deps struct {
	Config   *config.Config
	Client   *backend.Client
	Cell     *status.Cell
	Sessions *session.Store
}

// NewApp builds the application model.
func NewApp(deps Deps) *App {
	theme := styles.NewTheme(deps.Config.UI.Theme)

	input := textinput.New()
	input.Placeholder = "Ask anything..."
	input.CharLimit = 4000
	input.Focus()

	topic := textinput.New()
	topic.Placeholder = "Quiz topic, e.g. Photosynthesis"
	topic.CharLimit = 200

	answer := textinput.New()
	answer.Placeholder = "Type your answer"
	answer.CharLimit = 200

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer = nil
	}

	app := &App{
		cfg:    deps.Config,
		theme:  theme,
		keys:   DefaultKeyMap(),
		client: deps.Client,
		cell:   deps.Cell,

		gate:     gate.New(deps.Client),
		sessions: deps.Sessions,
		chat:     chat.New(deps.Client, deps.Cell),
		docs:     docs.New(deps.Client, deps.Cell),
		quiz:     quiz.New(deps.Client, deps.Cell),
		voice:    voice.New(deps.Client, deps.Cell),

		statusBar: components.NewStatusBar(theme),
		pinField:  components.NewPinField(theme),
		sidebar:   components.NewSidebar(theme),
		docList:   components.NewDocList(theme),
		quizCard:  components.NewQuizCard(theme),
		spinner:   components.NewSpinner(theme),

		input:       input,
		topicInput:  topic,
		answerInput: answer,
		markdown:    renderer,
	}

	if mode := backend.Mode(deps.Config.Chat.Mode); mode.Valid() {
		app.chat.SetMode(mode)
	}
	app.chat.SetUseDocuments(deps.Config.Chat.UseDocuments)
	return app
}

// StageUpload pre-selects a file for upload, e.g. from --upload.
func (a *App) StageUpload(path string) {
	a.docs.SelectFile(path)
}

// Init starts the access gate check.
func (a *App) Init() tea.Cmd {
	return tea.Batch(gate.CheckCmd(a.gate), textinput.Blink)
}

// =============================================================================
// COMMANDS
// =============================================================================

// exportDoneMsg carries a completed history export.
type exportDoneMsg struct {
	path string
	err  error
}

// exportCmd fetches the backend's history dump and writes the dated
// export file.
func (a *App) exportCmd() tea.Cmd {
	return func() tea.Msg {
		data, err := a.client.ExportHistory(context.Background())
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := export.WriteHistory(&export.Options{OutputDir: a.cfg.Storage.ExportDir}, data, time.Now())
		return exportDoneMsg{path: path, err: err}
	}
}

// renderAssistant renders assistant markdown for the transcript view.
func (a *App) renderAssistant(text string) string {
	if a.markdown == nil {
		return text
	}
	rendered, err := a.markdown.Render(text)
	if err != nil {
		return text
	}
	return rendered
}
