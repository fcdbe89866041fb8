// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dravisapp/dravis-tui/internal/chat"
	"github.com/dravisapp/dravis-tui/internal/docs"
	"github.com/dravisapp/dravis-tui/internal/gate"
	"github.com/dravisapp/dravis-tui/internal/quiz"
	"github.com/dravisapp/dravis-tui/internal/ui/components"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
	"github.com/dravisapp/dravis-tui/internal/voice"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update routes messages to the gate or the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.layout()
		a.ready = true
		return a, nil

	case gate.CheckedMsg:
		if msg.State == gate.Unlocked {
			return a, a.onUnlock()
		}
		return a, nil

	case gate.SubmittedMsg:
		if msg.State == gate.Unlocked {
			return a, a.onUnlock()
		}
		return a, nil

	case chat.ResultMsg:
		a.spinner.Stop()
		applied := a.chat.Apply(msg)
		if applied.Title != "" && msg.SessionID == a.sessions.ActiveID() {
			// First exchange names the session.
			_ = a.sessions.RenameOnFirstMessage(applied.Title)
		}
		if applied.Appended {
			_ = a.sessions.Touch()
			a.refreshTranscript()
		}
		return a, nil

	case docs.RefreshedMsg:
		if a.docs.ApplyRefresh(msg) && a.docCursor >= len(msg.Documents) {
			a.docCursor = 0
		}
		return a, nil

	case docs.UploadedMsg:
		a.spinner.Stop()
		if a.docs.ApplyUpload(msg) {
			return a, a.docs.RefreshCmd()
		}
		return a, nil

	case docs.DeletedMsg:
		a.spinner.Stop()
		if a.docs.ApplyDelete(msg) {
			return a, a.docs.RefreshCmd()
		}
		return a, nil

	case quiz.GeneratedMsg:
		a.spinner.Stop()
		if a.quiz.Apply(msg) {
			a.quizIndex = 0
			a.quizCursor = 0
			a.answerInput.Reset()
		}
		return a, nil

	case voice.TranscribedMsg:
		a.spinner.Stop()
		if text, ok := a.voice.Apply(msg); ok {
			// Transcription fills the input; the user still presses send.
			a.input.SetValue(strings.TrimSpace(a.input.Value() + " " + text))
			a.input.CursorEnd()
		}
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.notice = "Export failed. Please check that the DRAVIS backend is running."
		} else {
			a.notice = "History exported to " + msg.path
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.spinner, cmd = a.spinner.Update(msg)
	return a, cmd
}

// onUnlock wires the post-gate startup: load the library and focus chat.
func (a *App) onUnlock() tea.Cmd {
	a.view = ViewChat
	a.input.Focus()
	return a.docs.RefreshCmd()
}

// layout recomputes component dimensions after a resize.
func (a *App) layout() {
	sidebarWidth := a.sidebarWidth()
	a.viewport = a.sizedViewport(a.width-sidebarWidth-2, a.contentHeight())
	a.input.Width = a.width - sidebarWidth - 8
	a.topicInput.Width = a.width - 8
	a.refreshTranscript()
}

// =============================================================================
// KEY ROUTING
// =============================================================================

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The gate swallows all input until unlocked.
	if a.gate.State() != gate.Unlocked {
		return a.handleLockedKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.NextView):
		a.notice = ""
		a.view = View((int(a.view) + 1) % 4)
		a.syncFocus()
		if a.view == ViewLibrary {
			return a, a.docs.RefreshCmd()
		}
		return a, nil
	case key.Matches(msg, a.keys.Export):
		return a, a.exportCmd()
	}

	switch a.view {
	case ViewChat:
		return a.handleChatKey(msg)
	case ViewLibrary:
		return a.handleLibraryKey(msg)
	case ViewQuiz:
		return a.handleQuizKey(msg)
	default:
		return a.handleSettingsKey(msg)
	}
}

func (a *App) handleLockedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlQ:
		return a, tea.Quit
	case tea.KeyBackspace:
		a.gate.Backspace()
		return a, nil
	case tea.KeyEnter:
		if a.gate.Ready() {
			return a, gate.SubmitCmd(a.gate)
		}
		return a, nil
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			a.gate.PushDigit(r)
		}
		// Submitting on the last digit saves a keypress.
		if a.gate.Ready() {
			return a, gate.SubmitCmd(a.gate)
		}
		return a, nil
	}
	return a, nil
}

// =============================================================================
// CHAT VIEW KEYS
// =============================================================================

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Submit):
		cmd := a.chat.Send(a.sessions.ActiveID(), a.input.Value())
		if cmd == nil {
			return a, nil
		}
		a.input.Reset()
		a.notice = ""
		a.refreshTranscript()
		return a, tea.Batch(cmd, a.spinner.Start("Thinking"))

	case key.Matches(msg, a.keys.NewChat):
		if _, err := a.sessions.Create(); err == nil {
			a.chat.Invalidate()
			a.refreshTranscript()
		}
		return a, nil

	case key.Matches(msg, a.keys.NextChat), key.Matches(msg, a.keys.PrevChat):
		a.cycleSession(key.Matches(msg, a.keys.NextChat))
		return a, nil

	case key.Matches(msg, a.keys.ClearChat):
		a.chat.Clear(a.sessions.ActiveID())
		a.refreshTranscript()
		return a, nil

	case key.Matches(msg, a.keys.CycleMode):
		a.chat.CycleMode()
		return a, nil

	case key.Matches(msg, a.keys.ToggleDocs):
		a.chat.SetUseDocuments(!a.chat.UseDocuments())
		return a, nil

	case key.Matches(msg, a.keys.Up), key.Matches(msg, a.keys.Down),
		key.Matches(msg, a.keys.PageUp), key.Matches(msg, a.keys.PageDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// cycleSession moves the active session forward or back in the list.
func (a *App) cycleSession(next bool) {
	sessions := a.sessions.Sessions()
	if len(sessions) < 2 {
		return
	}
	active := a.sessions.ActiveID()
	for i, s := range sessions {
		if s.ID != active {
			continue
		}
		var target int
		if next {
			target = (i + 1) % len(sessions)
		} else {
			target = (i - 1 + len(sessions)) % len(sessions)
		}
		if err := a.sessions.SetActive(sessions[target].ID); err == nil {
			a.chat.Invalidate()
			a.refreshTranscript()
		}
		return
	}
}

// =============================================================================
// LIBRARY VIEW KEYS
// =============================================================================

func (a *App) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	documents := a.docs.Documents()

	if a.docs.PendingDelete() != "" {
		switch {
		case key.Matches(msg, a.keys.Confirm):
			cmd := a.docs.ConfirmDeleteCmd()
			if cmd == nil {
				return a, nil
			}
			return a, tea.Batch(cmd, a.spinner.Start("Deleting"))
		case key.Matches(msg, a.keys.Cancel):
			a.docs.CancelDelete()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		if a.docCursor > 0 {
			a.docCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.docCursor < len(documents)-1 {
			a.docCursor++
		}
	case key.Matches(msg, a.keys.Delete):
		if a.docCursor < len(documents) {
			a.docs.RequestDelete(documents[a.docCursor].DocumentID)
		}
	case key.Matches(msg, a.keys.Refresh):
		return a, a.docs.RefreshCmd()
	case key.Matches(msg, a.keys.Submit):
		cmd := a.docs.UploadCmd()
		if cmd == nil {
			return a, nil
		}
		return a, tea.Batch(cmd, a.spinner.Start("Uploading"))
	}
	return a, nil
}

// =============================================================================
// QUIZ VIEW KEYS
// =============================================================================

func (a *App) handleQuizKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	questions := a.quiz.Questions()

	if len(questions) == 0 || a.topicInput.Focused() {
		if key.Matches(msg, a.keys.Submit) {
			a.quiz.SetTopic(a.topicInput.Value())
			cmd := a.quiz.GenerateCmd()
			if cmd == nil {
				return a, nil
			}
			a.topicInput.Blur()
			return a, tea.Batch(cmd, a.spinner.Start("Generating quiz"))
		}
		var cmd tea.Cmd
		a.topicInput, cmd = a.topicInput.Update(msg)
		return a, cmd
	}

	q := questions[a.quizIndex]
	_, answered := a.quiz.Answered(a.quizIndex)

	// Questions without options take a typed answer. Arrow keys still
	// move between questions; everything else edits the answer.
	if !answered && len(q.Options) == 0 {
		switch msg.String() {
		case "enter":
			if text := strings.TrimSpace(a.answerInput.Value()); text != "" {
				a.quiz.Answer(a.quizIndex, text)
				a.answerInput.Reset()
				a.answerInput.Blur()
			}
			return a, nil
		case "left", "right":
			// question navigation below
		default:
			if !a.answerInput.Focused() {
				a.answerInput.Focus()
			}
			var cmd tea.Cmd
			a.answerInput, cmd = a.answerInput.Update(msg)
			return a, cmd
		}
	}

	switch msg.String() {
	case "left", "h":
		if a.quizIndex > 0 {
			a.quizIndex--
			a.quizCursor = 0
			a.answerInput.Reset()
		}
	case "right", "l":
		if a.quizIndex < len(questions)-1 {
			a.quizIndex++
			a.quizCursor = 0
			a.answerInput.Reset()
		}
	case "up", "k":
		if !answered && a.quizCursor > 0 {
			a.quizCursor--
		}
	case "down", "j":
		if !answered && a.quizCursor < len(q.Options)-1 {
			a.quizCursor++
		}
	case "enter":
		if !answered && len(q.Options) > 0 {
			a.quiz.Answer(a.quizIndex, q.Options[a.quizCursor])
		}
	case "t":
		// Back to topic entry for a fresh quiz.
		a.topicInput.Focus()
	}
	return a, nil
}

// =============================================================================
// SETTINGS VIEW KEYS
// =============================================================================

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "t":
		if a.cfg.UI.Theme == "dark" {
			a.cfg.UI.Theme = "light"
		} else {
			a.cfg.UI.Theme = "dark"
		}
		a.applyTheme()
		if err := a.cfg.Save(); err != nil {
			a.notice = "Couldn't save settings."
		}
	case "g":
		a.cfg.Chat.UseDocuments = !a.cfg.Chat.UseDocuments
		a.chat.SetUseDocuments(a.cfg.Chat.UseDocuments)
		if err := a.cfg.Save(); err != nil {
			a.notice = "Couldn't save settings."
		}
	case "l":
		if a.gate.PinSet() {
			a.gate.Lock()
			a.input.Blur()
			a.topicInput.Blur()
			a.notice = ""
		}
	}
	return a, nil
}

// applyTheme rebuilds every themed component after a theme switch.
func (a *App) applyTheme() {
	a.theme = styles.NewTheme(a.cfg.UI.Theme)
	a.theme.SetSize(a.width, a.height)
	a.statusBar = components.NewStatusBar(a.theme)
	a.pinField = components.NewPinField(a.theme)
	a.sidebar = components.NewSidebar(a.theme)
	a.docList = components.NewDocList(a.theme)
	a.quizCard = components.NewQuizCard(a.theme)
	a.spinner = components.NewSpinner(a.theme)
}

// syncFocus moves input focus to the component the view needs.
func (a *App) syncFocus() {
	a.input.Blur()
	a.topicInput.Blur()
	a.answerInput.Blur()
	switch a.view {
	case ViewChat:
		a.input.Focus()
	case ViewQuiz:
		if len(a.quiz.Questions()) == 0 {
			a.topicInput.Focus()
		}
	}
}
