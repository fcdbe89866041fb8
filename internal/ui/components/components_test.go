// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/session"
	"github.com/dravisapp/dravis-tui/internal/status"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatusBarShowsAvailability(t *testing.T) {
	bar := NewStatusBar(testTheme())
	tests := []struct {
		state status.State
		want  string
	}{
		{status.Online, "Online"},
		{status.Offline, "Offline"},
		{status.Unknown, "Checking"},
	}
	for _, tt := range tests {
		out := bar.Render(80, tt.state, backend.ModeNormal, false, nil)
		if !strings.Contains(out, tt.want) {
			t.Errorf("status bar for %v missing %q", tt.state, tt.want)
		}
	}
}

func TestStatusBarShowsModeAndDocsFlag(t *testing.T) {
	bar := NewStatusBar(testTheme())
	out := bar.Render(80, status.Online, backend.ModeExamPrep, true, []Shortcut{{Key: "tab", Desc: "switch"}})
	for _, want := range []string{backend.ModeExamPrep.Label(), "docs:on", "tab", "switch"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
}

// =============================================================================
// PIN FIELD
// =============================================================================

func TestPinFieldMasksDigits(t *testing.T) {
	field := NewPinField(testTheme())
	out := field.Render(2, "")
	if !strings.Contains(out, "*") || !strings.Contains(out, "_") {
		t.Error("expected masked and blank slots")
	}
	for _, digit := range "0123456789" {
		if strings.ContainsRune(out, digit) {
			t.Fatalf("digit %c leaked into lock screen", digit)
		}
	}
}

func TestPinFieldShowsMessage(t *testing.T) {
	field := NewPinField(testTheme())
	out := field.Render(0, "Incorrect PIN")
	if !strings.Contains(out, "Incorrect PIN") {
		t.Error("gate message not rendered")
	}
}

// =============================================================================
// SIDEBAR
// =============================================================================

func TestSidebarHighlightsActiveSession(t *testing.T) {
	bar := NewSidebar(testTheme())
	sessions := []session.Session{
		{ID: "a", Title: "Algebra help", Timestamp: 1700000000000},
		{ID: "b", Title: "History quiz", Timestamp: 1600000000000},
	}
	out := bar.Render(30, sessions, "a")
	if !strings.Contains(out, "> Algebra help") {
		t.Error("active session not highlighted")
	}
	if strings.Contains(out, "> History quiz") {
		t.Error("inactive session highlighted")
	}
}

// =============================================================================
// DOCUMENT LIST
// =============================================================================

func TestDocListEmptyState(t *testing.T) {
	list := NewDocList(testTheme())
	out := list.Render(60, nil, 0, "")
	if !strings.Contains(out, "No documents") {
		t.Error("empty state not rendered")
	}
}

func TestDocListConfirmPrompt(t *testing.T) {
	list := NewDocList(testTheme())
	docs := []backend.Document{{DocumentID: "d1", DocumentName: "biology.pdf", ChunkCount: 12}}
	out := list.Render(60, docs, 0, "biology.pdf")
	for _, want := range []string{"biology.pdf", "12 chunks", "Delete", "(y/n)"} {
		if !strings.Contains(out, want) {
			t.Errorf("doc list missing %q", want)
		}
	}
}

// =============================================================================
// QUIZ CARD
// =============================================================================

var cardQuestion = backend.QuizQuestion{
	Type:          "mcq",
	Question:      "What gas do plants absorb?",
	Options:       []string{"Oxygen", "Carbon dioxide", "Nitrogen"},
	CorrectAnswer: "Carbon dioxide",
	Explanation:   "CO2 is fixed during the Calvin cycle.",
}

func TestQuizCardHidesAnswerBeforeCommit(t *testing.T) {
	card := NewQuizCard(testTheme())
	out := card.Render(60, 1, 5, cardQuestion, 0, "", false)
	if strings.Contains(out, "Correct!") || strings.Contains(out, cardQuestion.Explanation) {
		t.Error("reveal leaked before answer commit")
	}
	if !strings.Contains(out, "Question 1 of 5") {
		t.Error("progress header missing")
	}
}

func TestQuizCardRevealsAfterCommit(t *testing.T) {
	card := NewQuizCard(testTheme())

	out := card.Render(60, 1, 5, cardQuestion, 0, "Carbon dioxide", true)
	if !strings.Contains(out, "Correct!") {
		t.Error("correct verdict missing")
	}
	if !strings.Contains(out, cardQuestion.Explanation) {
		t.Error("explanation missing after commit")
	}

	out = card.Render(60, 1, 5, cardQuestion, 0, "Oxygen", true)
	if !strings.Contains(out, "Not quite.") {
		t.Error("incorrect verdict missing")
	}
	if !strings.Contains(out, "Answer: Carbon dioxide") {
		t.Error("correct answer not revealed on wrong commit")
	}
}

// =============================================================================
// SPINNER
// =============================================================================

func TestSpinnerLifecycle(t *testing.T) {
	s := NewSpinner(testTheme())
	if s.Active() {
		t.Error("spinner active before Start")
	}
	if cmd := s.Start("Uploading"); cmd == nil {
		t.Error("Start returned no tick command")
	}
	if !s.Active() {
		t.Error("spinner inactive after Start")
	}
	if !strings.Contains(s.View(), "Uploading") {
		t.Errorf("view = %q", s.View())
	}
	s.Stop()
	if s.View() != "" {
		t.Error("stopped spinner still renders")
	}
}
