// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/dravisapp/dravis-tui/internal/chat"
	"github.com/dravisapp/dravis-tui/internal/gate"
	"github.com/dravisapp/dravis-tui/internal/ui/components"
	"github.com/dravisapp/dravis-tui/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

func (a *App) sidebarWidth() int {
	w := a.width / 4
	if w < 20 {
		w = 20
	}
	if w > 36 {
		w = 36
	}
	return w
}

// contentHeight is the space left for the main pane after the header,
// the input row and the status bar.
func (a *App) contentHeight() int {
	h := a.height - 6
	if h < 4 {
		h = 4
	}
	return h
}

func (a *App) sizedViewport(width, height int) viewport.Model {
	if width < 20 {
		width = 20
	}
	vp := viewport.New(width, height)
	vp.SetContent(a.viewport.View())
	return vp
}

// =============================================================================
// ROOT VIEW
// =============================================================================

// View renders the lock screen until the gate opens, then the shell.
func (a *App) View() string {
	if !a.ready {
		return "Starting DRAVIS..."
	}

	switch a.gate.State() {
	case gate.Checking:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			a.theme.LockHint.Render("Checking access..."))
	case gate.Locked:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			a.pinField.Render(len(a.gate.Input()), a.gate.Message()))
	}

	header := a.renderHeader()
	var body string
	switch a.view {
	case ViewChat:
		body = a.renderChat()
	case ViewLibrary:
		body = a.renderLibrary()
	case ViewQuiz:
		body = a.renderQuiz()
	default:
		body = a.renderSettings()
	}

	bar := a.statusBar.Render(a.width, a.cell.State(), a.chat.Mode(), a.chat.UseDocuments(), a.shortcuts())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, bar)
}

func (a *App) renderHeader() string {
	var tabs []string
	for v := ViewChat; v <= ViewSettings; v++ {
		label := v.String()
		if v == a.view {
			tabs = append(tabs, a.theme.HeaderTitle.Render("["+label+"]"))
		} else {
			tabs = append(tabs, a.theme.ShortcutDesc.Render(" "+label+" "))
		}
	}
	line := a.theme.HeaderBrand.Render("DRAVIS") + "  " + strings.Join(tabs, " ")
	return a.theme.Header.Width(a.width).Render(line)
}

func (a *App) shortcuts() []components.Shortcut {
	base := []components.Shortcut{
		{Key: "Tab", Desc: "view"},
		{Key: "C-q", Desc: "quit"},
	}
	switch a.view {
	case ViewChat:
		return append([]components.Shortcut{
			{Key: "C-n", Desc: "new"},
			{Key: "C-t", Desc: "mode"},
			{Key: "C-e", Desc: "export"},
		}, base...)
	case ViewLibrary:
		return append([]components.Shortcut{
			{Key: "d", Desc: "delete"},
			{Key: "C-r", Desc: "refresh"},
		}, base...)
	case ViewQuiz:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "answer"},
			{Key: "t", Desc: "topic"},
		}, base...)
	default:
		extra := []components.Shortcut{
			{Key: "t", Desc: "theme"},
			{Key: "g", Desc: "use docs"},
		}
		if a.gate.PinSet() {
			extra = append(extra, components.Shortcut{Key: "l", Desc: "lock"})
		}
		return append(extra, base...)
	}
}

// =============================================================================
// CHAT VIEW
// =============================================================================

func (a *App) renderChat() string {
	sidebar := a.sidebar.Render(a.sidebarWidth(), a.sessions.Sessions(), a.sessions.ActiveID())

	inputRow := a.theme.InputContainer.Render(a.theme.InputPrompt.Render("> ") + a.input.View())
	if a.spinner.Active() {
		inputRow = a.spinner.View()
	}

	pane := []string{a.viewport.View()}
	if a.notice != "" {
		pane = append(pane, a.theme.AlertBox.Render(a.notice))
	}
	pane = append(pane, inputRow)

	main := lipgloss.JoinVertical(lipgloss.Left, pane...)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
}

// refreshTranscript re-renders the active session's messages into the
// viewport and follows the tail.
func (a *App) refreshTranscript() {
	transcript := a.chat.Transcript(a.sessions.ActiveID())
	width := a.viewport.Width - 2
	if width < 20 {
		width = 20
	}

	var blocks []string
	for _, msg := range transcript {
		switch msg.Sender {
		case chat.SenderUser:
			blocks = append(blocks, a.theme.UserBubble.MaxWidth(width).Render("You: "+msg.Text))
		case chat.SenderAssistant:
			blocks = append(blocks, a.theme.AssistantBubble.MaxWidth(width).Render(
				strings.TrimRight(a.renderAssistant(msg.Text), "\n")))
		}
	}
	if len(blocks) == 0 {
		blocks = append(blocks, a.theme.ThinkingText.Render("Start a conversation, upload notes, or generate a quiz."))
	}
	a.viewport.SetContent(strings.Join(blocks, "\n"))
	a.viewport.GotoBottom()
}

// =============================================================================
// LIBRARY VIEW
// =============================================================================

func (a *App) renderLibrary() string {
	documents := a.docs.Documents()

	pendingName := ""
	if id := a.docs.PendingDelete(); id != "" {
		for _, d := range documents {
			if d.DocumentID == id {
				pendingName = d.DocumentName
				break
			}
		}
		if pendingName == "" {
			pendingName = id
		}
	}

	list := a.docList.Render(a.width-4, documents, a.docCursor, pendingName)

	var footer string
	switch {
	case a.spinner.Active():
		footer = a.spinner.View()
	case a.docs.Alert() != "":
		footer = a.theme.AlertBox.Render(a.docs.Alert())
	case a.docs.SelectedPath() != "":
		footer = a.theme.ShortcutDesc.Render(
			"Ready to upload: " + util.TruncateWidth(a.docs.SelectedPath(), a.width-24) + "  (Enter to upload)")
	default:
		footer = a.theme.ShortcutDesc.Render("Start with --upload FILE to stage a document for upload.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, list, "", footer)
}

// =============================================================================
// QUIZ VIEW
// =============================================================================

func (a *App) renderQuiz() string {
	questions := a.quiz.Questions()

	if len(questions) == 0 || a.topicInput.Focused() {
		lines := []string{
			a.theme.QuizQuestion.Render("Generate a quiz"),
			"",
			a.theme.InputContainer.Render(a.theme.InputPrompt.Render("Topic: ") + a.topicInput.View()),
		}
		if a.spinner.Active() {
			lines = append(lines, "", a.spinner.View())
		}
		if a.quiz.Alert() != "" {
			lines = append(lines, "", a.theme.AlertBox.Render(a.quiz.Alert()))
		}
		return a.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	q := questions[a.quizIndex]
	answer, answered := a.quiz.Answered(a.quizIndex)
	card := a.quizCard.Render(a.width-8, a.quizIndex+1, len(questions), q, a.quizCursor, answer, answered)

	parts := []string{card}
	if !answered && len(q.Options) == 0 {
		parts = append(parts, "",
			a.theme.InputContainer.Render(a.theme.InputPrompt.Render("Answer: ")+a.answerInput.View()))
	}
	correct, done := a.quiz.Score()
	parts = append(parts, "",
		a.theme.ShortcutDesc.Render(fmt.Sprintf("Score: %d/%d answered", correct, done)))
	return a.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// =============================================================================
// SETTINGS VIEW
// =============================================================================

func (a *App) renderSettings() string {
	docsFlag := "off"
	if a.cfg.Chat.UseDocuments {
		docsFlag = "on"
	}
	lines := []string{
		a.theme.QuizQuestion.Render("Settings"),
		"",
		fmt.Sprintf("%s %s", a.theme.ShortcutKey.Render("Backend:"), a.cfg.Backend.BaseURL),
		fmt.Sprintf("%s %s  (press t to toggle)", a.theme.ShortcutKey.Render("Theme:"), a.cfg.UI.Theme),
		fmt.Sprintf("%s %s  (press g to toggle)", a.theme.ShortcutKey.Render("Use documents:"), docsFlag),
		fmt.Sprintf("%s %s", a.theme.ShortcutKey.Render("Study mode:"), a.chat.Mode().Label()),
		fmt.Sprintf("%s %d", a.theme.ShortcutKey.Render("Documents:"), len(a.docs.Documents())),
		"",
		a.theme.ShortcutDesc.Render("PIN management is available via `dravis pin` on the command line."),
	}
	if a.gate.PinSet() {
		lines = append(lines, a.theme.ShortcutDesc.Render("Press l to lock the app."))
	}
	if a.notice != "" {
		lines = append(lines, "", a.theme.AlertBox.Render(a.notice))
	}
	return a.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
