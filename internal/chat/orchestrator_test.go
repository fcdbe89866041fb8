// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeChatter struct {
	response string
	err      error
	calls    int

	lastMessage string
	lastUseDocs bool
	lastMode    backend.Mode
}

func (f *fakeChatter) Chat(_ context.Context, message string, useDocuments bool, mode backend.Mode) (*backend.ChatResult, error) {
	f.calls++
	f.lastMessage = message
	f.lastUseDocs = useDocuments
	f.lastMode = mode
	if f.err != nil {
		return nil, f.err
	}
	return &backend.ChatResult{Response: f.response}, nil
}

func newTestOrchestrator(client *fakeChatter) (*Orchestrator, *status.Cell) {
	cell := status.NewCell()
	return New(client, cell), cell
}

// runSend executes the command Send returned and feeds the result back
// through Apply, mimicking one turn of the Bubble Tea loop.
func runSend(t *testing.T, o *Orchestrator, sessionID, input string) Applied {
	t.Helper()
	cmd := o.Send(sessionID, input)
	if cmd == nil {
		t.Fatal("Send returned nil command")
	}
	msg, ok := cmd().(ResultMsg)
	if !ok {
		t.Fatal("command did not return a ResultMsg")
	}
	return o.Apply(msg)
}

// =============================================================================
// SEND GUARDS
// =============================================================================

func TestSendEmptyInputIsNoOp(t *testing.T) {
	client := &fakeChatter{response: "hi"}
	o, _ := newTestOrchestrator(client)

	for _, input := range []string{"", "   ", "\n\t  "} {
		if cmd := o.Send("s1", input); cmd != nil {
			t.Errorf("Send(%q) returned a command, want nil", input)
		}
	}
	if client.calls != 0 {
		t.Errorf("backend called %d times for empty input", client.calls)
	}
	if got := o.Transcript("s1"); len(got) != 0 {
		t.Errorf("transcript has %d messages, want 0", len(got))
	}
}

func TestSendWhileSendingIsNoOp(t *testing.T) {
	client := &fakeChatter{response: "hi"}
	o, _ := newTestOrchestrator(client)

	cmd := o.Send("s1", "first")
	if cmd == nil {
		t.Fatal("first Send returned nil")
	}
	if second := o.Send("s1", "second"); second != nil {
		t.Error("Send while in flight returned a command, want nil")
	}

	got := o.Transcript("s1")
	if len(got) != 1 || got[0].Text != "first" {
		t.Errorf("transcript = %+v, want only the first message", got)
	}
}

func TestSendTrimsAndNormalizesInput(t *testing.T) {
	client := &fakeChatter{response: "ok"}
	o, _ := newTestOrchestrator(client)

	// "e" + combining acute accent must be sent precomposed.
	runSend(t, o, "s1", "  café  ")

	if client.lastMessage != "café" {
		t.Errorf("sent %q, want %q", client.lastMessage, "café")
	}
	if got := o.Transcript("s1"); got[0].Text != "café" {
		t.Errorf("transcript text = %q, want %q", got[0].Text, "café")
	}
}

// =============================================================================
// RESULT HANDLING
// =============================================================================

func TestSuccessAppendsReplyAndMarksOnline(t *testing.T) {
	client := &fakeChatter{response: "Photosynthesis converts light to energy."}
	o, cell := newTestOrchestrator(client)

	applied := runSend(t, o, "s1", "What is photosynthesis?")
	if !applied.Appended {
		t.Fatal("result was not applied")
	}

	got := o.Transcript("s1")
	if len(got) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(got))
	}
	if got[0].Sender != SenderUser || got[1].Sender != SenderAssistant {
		t.Errorf("sender order = %s, %s", got[0].Sender, got[1].Sender)
	}
	if got[1].Text != client.response {
		t.Errorf("assistant text = %q", got[1].Text)
	}
	if cell.State() != status.Online {
		t.Errorf("status = %v, want Online", cell.State())
	}
	if o.Sending() {
		t.Error("still sending after Apply")
	}
}

func TestEmptyResponseFallsBack(t *testing.T) {
	client := &fakeChatter{response: ""}
	o, cell := newTestOrchestrator(client)

	runSend(t, o, "s1", "anyone there?")

	got := o.Transcript("s1")
	if got[1].Text != NoResponseText {
		t.Errorf("assistant text = %q, want %q", got[1].Text, NoResponseText)
	}
	// An empty-but-successful response still means the backend answered.
	if cell.State() != status.Online {
		t.Errorf("status = %v, want Online", cell.State())
	}
}

func TestFailureKeepsUserMessageAndMarksOffline(t *testing.T) {
	client := &fakeChatter{err: backend.ErrBackendDown}
	o, cell := newTestOrchestrator(client)

	applied := runSend(t, o, "s1", "hello?")
	if !applied.Appended {
		t.Fatal("failure result was not applied")
	}

	got := o.Transcript("s1")
	if len(got) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(got))
	}
	if got[0].Sender != SenderUser || got[0].Text != "hello?" {
		t.Errorf("user message retracted: %+v", got[0])
	}
	if got[1].Text != SendFailedText {
		t.Errorf("assistant text = %q, want fallback", got[1].Text)
	}
	if cell.State() != status.Offline {
		t.Errorf("status = %v, want Offline", cell.State())
	}
	if applied.Title != "" {
		t.Errorf("failure produced title %q, want none", applied.Title)
	}
}

func TestSendCarriesModeAndDocumentFlag(t *testing.T) {
	client := &fakeChatter{response: "ok"}
	o, _ := newTestOrchestrator(client)
	o.SetMode(backend.ModeExamPrep)
	o.SetUseDocuments(true)

	runSend(t, o, "s1", "quiz me")

	if client.lastMode != backend.ModeExamPrep {
		t.Errorf("mode = %q, want %q", client.lastMode, backend.ModeExamPrep)
	}
	if !client.lastUseDocs {
		t.Error("use_documents flag not carried")
	}
}

// =============================================================================
// STALE RESULTS
// =============================================================================

func TestStaleResultIsDiscarded(t *testing.T) {
	client := &fakeChatter{err: errors.New("slow network")}
	o, cell := newTestOrchestrator(client)

	cmd := o.Send("s1", "question")
	msg := cmd().(ResultMsg)

	// User switches sessions before the result lands.
	o.Invalidate()

	if applied := o.Apply(msg); applied.Appended {
		t.Error("stale result was applied")
	}
	got := o.Transcript("s1")
	if len(got) != 1 {
		t.Errorf("transcript has %d messages, want 1 (user only)", len(got))
	}
	if cell.State() != status.Unknown {
		t.Errorf("stale result touched status: %v", cell.State())
	}
	if o.Sending() {
		t.Error("still sending after Invalidate")
	}
}

func TestClearDiscardsInFlightResult(t *testing.T) {
	client := &fakeChatter{response: "late answer"}
	o, _ := newTestOrchestrator(client)

	cmd := o.Send("s1", "question")
	msg := cmd().(ResultMsg)
	o.Clear("s1")

	if applied := o.Apply(msg); applied.Appended {
		t.Error("result applied after Clear")
	}
	if got := o.Transcript("s1"); len(got) != 0 {
		t.Errorf("transcript has %d messages after Clear, want 0", len(got))
	}
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

func TestFirstResponseDerivesTitle(t *testing.T) {
	client := &fakeChatter{response: "answer one"}
	o, _ := newTestOrchestrator(client)

	applied := runSend(t, o, "s1", "Explain the water cycle\nin detail")
	if applied.Title != "Explain the water cycle in detail" {
		t.Errorf("title = %q", applied.Title)
	}

	// Second exchange must not re-title.
	applied = runSend(t, o, "s1", "And condensation?")
	if applied.Title != "" {
		t.Errorf("second exchange produced title %q, want none", applied.Title)
	}
}

func TestNoReTitleAfterClear(t *testing.T) {
	client := &fakeChatter{response: "ok"}
	o, _ := newTestOrchestrator(client)

	applied := runSend(t, o, "s1", "Explain photosynthesis")
	if applied.Title == "" {
		t.Fatal("first exchange produced no title")
	}

	o.Clear("s1")
	applied = runSend(t, o, "s1", "Explain osmosis")
	if applied.Title != "" {
		t.Errorf("exchange after clear produced title %q, want none", applied.Title)
	}
}

func TestTitleTruncatesLongFirstMessage(t *testing.T) {
	client := &fakeChatter{response: "ok"}
	o, _ := newTestOrchestrator(client)

	long := strings.Repeat("water ", 20)
	applied := runSend(t, o, "s1", long)
	if got := len([]rune(applied.Title)); got > titleMaxRunes {
		t.Errorf("title is %d runes, want <= %d", got, titleMaxRunes)
	}
	if applied.Title == "" {
		t.Error("long first message produced empty title")
	}
}

// =============================================================================
// SESSION ISOLATION
// =============================================================================

func TestTranscriptsAreIsolatedPerSession(t *testing.T) {
	client := &fakeChatter{response: "reply"}
	o, _ := newTestOrchestrator(client)

	runSend(t, o, "s1", "for session one")
	runSend(t, o, "s2", "for session two")

	one := o.Transcript("s1")
	two := o.Transcript("s2")
	if len(one) != 2 || len(two) != 2 {
		t.Fatalf("transcript sizes = %d, %d, want 2, 2", len(one), len(two))
	}
	if one[0].Text == two[0].Text {
		t.Error("sessions share transcript content")
	}
}

func TestModeCycleWraps(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeChatter{})
	seen := map[backend.Mode]bool{o.Mode(): true}
	for range backend.Modes {
		seen[o.CycleMode()] = true
	}
	if len(seen) != len(backend.Modes) {
		t.Errorf("cycle visited %d modes, want %d", len(seen), len(backend.Modes))
	}
	if o.Mode() != backend.ModeNormal {
		t.Errorf("full cycle ended on %q, want normal", o.Mode())
	}
}
