// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat orchestrator: per-session transcripts
// and the send state machine.
//
// Transcripts live in memory only. A reload loses them by design;
// durable history is the backend's job via the export endpoint.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/unicode/norm"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
	"github.com/dravisapp/dravis-tui/internal/util"
)

// Fallback texts. The user message is never retracted on failure; only
// the assistant's reply slot degrades to one of these literals.
const (
	NoResponseText = "No response"
	SendFailedText = "Sorry, I couldn't reach the assistant. Please make sure the DRAVIS backend is running."
)

// titleMaxRunes caps the session title derived from the first exchange.
const titleMaxRunes = 40

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Sender    Sender `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"` // ISO-8601
}

// Chatter is the slice of the backend client this orchestrator needs.
type Chatter interface {
	Chat(ctx context.Context, message string, useDocuments bool, mode backend.Mode) (*backend.ChatResult, error)
}

// Orchestrator drives chat sends for the active session.
type Orchestrator struct {
	mu     sync.Mutex
	client Chatter
	status *status.Cell

	transcripts map[string][]Message
	titled      map[string]bool // sessions whose title was already derived
	sending     bool
	generation  uint64

	mode         backend.Mode
	useDocuments bool

	now func() time.Time // test hook
}

// New creates a chat orchestrator writing availability into cell.
func New(client Chatter, cell *status.Cell) *Orchestrator {
	return &Orchestrator{
		client:      client,
		status:      cell,
		transcripts: make(map[string][]Message),
		titled:      make(map[string]bool),
		mode:        backend.ModeNormal,
		now:         time.Now,
	}
}

// =============================================================================
// MODE AND CONTEXT FLAGS
// =============================================================================

// Mode returns the current study mode.
func (o *Orchestrator) Mode() backend.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// SetMode selects the study mode for subsequent sends.
func (o *Orchestrator) SetMode(m backend.Mode) {
	if !m.Valid() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mode = m
}

// CycleMode advances to the next study mode.
func (o *Orchestrator) CycleMode() backend.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, m := range backend.Modes {
		if m == o.mode {
			o.mode = backend.Modes[(i+1)%len(backend.Modes)]
			return o.mode
		}
	}
	o.mode = backend.ModeNormal
	return o.mode
}

// UseDocuments returns the document-context flag.
func (o *Orchestrator) UseDocuments() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.useDocuments
}

// SetUseDocuments toggles document-grounded answers.
func (o *Orchestrator) SetUseDocuments(use bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.useDocuments = use
}

// =============================================================================
// TRANSCRIPT ACCESS
// =============================================================================

// Transcript returns a copy of the session's transcript.
func (o *Orchestrator) Transcript(sessionID string) []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	msgs := o.transcripts[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Clear wipes one session's in-memory transcript.
func (o *Orchestrator) Clear(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.transcripts, sessionID)
	o.generation++
	o.sending = false
}

// Sending reports whether a send is in flight.
func (o *Orchestrator) Sending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sending
}

// Invalidate discards any in-flight send, e.g. on session switch. The
// outstanding request is not canceled; its result arrives and is dropped
// because its generation no longer matches.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.sending = false
}

// =============================================================================
// SEND STATE MACHINE
// =============================================================================

// ResultMsg carries a completed chat call back to the UI loop.
type ResultMsg struct {
	SessionID  string
	Generation uint64
	Text       string
	Err        error
}

// Send starts a chat send for the given session.
//
// Guards: a whitespace-only input or an already in-flight send is a
// no-op and returns nil. Otherwise the user message is appended
// optimistically, and the returned command performs the backend call.
func (o *Orchestrator) Send(sessionID, input string) tea.Cmd {
	text := norm.NFC.String(strings.TrimSpace(input))
	if text == "" {
		return nil
	}

	o.mu.Lock()
	if o.sending {
		o.mu.Unlock()
		return nil
	}
	o.sending = true
	o.generation++
	gen := o.generation
	mode := o.mode
	useDocs := o.useDocuments
	o.transcripts[sessionID] = append(o.transcripts[sessionID], Message{
		Sender:    SenderUser,
		Text:      text,
		Timestamp: o.now().Format(time.RFC3339),
	})
	o.mu.Unlock()

	return func() tea.Msg {
		result, err := o.client.Chat(context.Background(), text, useDocs, mode)
		if err != nil {
			return ResultMsg{SessionID: sessionID, Generation: gen, Err: err}
		}
		return ResultMsg{SessionID: sessionID, Generation: gen, Text: result.Response}
	}
}

// Applied describes what Apply did with a completed call.
type Applied struct {
	// Appended is true when an assistant message was added (false for
	// stale results).
	Appended bool
	// Title is the derived session title; set only on the first
	// response in a session.
	Title string
}

// Apply folds a completed call into the transcript.
//
// A result whose generation no longer matches is discarded: the user
// navigated away or cleared the session while the call was in flight.
// On success the assistant text (or the no-response fallback) is
// appended and status goes online; on failure the apologetic fallback
// is appended and status goes offline. The optimistic user message is
// never removed.
func (o *Orchestrator) Apply(msg ResultMsg) Applied {
	o.mu.Lock()
	defer o.mu.Unlock()

	if msg.Generation != o.generation {
		return Applied{}
	}
	o.sending = false

	var reply Message
	if msg.Err != nil {
		o.status.MarkOffline()
		reply = Message{Sender: SenderAssistant, Text: SendFailedText, Timestamp: o.now().Format(time.RFC3339)}
	} else {
		o.status.MarkOnline()
		text := msg.Text
		if text == "" {
			text = NoResponseText
		}
		reply = Message{Sender: SenderAssistant, Text: text, Timestamp: o.now().Format(time.RFC3339)}
	}

	transcript := append(o.transcripts[msg.SessionID], reply)
	o.transcripts[msg.SessionID] = transcript

	applied := Applied{Appended: true}
	// A session is titled at most once; clearing the transcript does not
	// open a second chance.
	if msg.Err == nil && !o.titled[msg.SessionID] && firstExchange(transcript) {
		applied.Title = deriveTitle(transcript)
		o.titled[msg.SessionID] = true
	}
	return applied
}

// firstExchange reports whether the transcript holds exactly one
// user/assistant pair, i.e. this was the session's first response.
func firstExchange(transcript []Message) bool {
	users := 0
	assistants := 0
	for _, m := range transcript {
		switch m.Sender {
		case SenderUser:
			users++
		case SenderAssistant:
			assistants++
		}
	}
	return users == 1 && assistants == 1
}

// deriveTitle builds the session title from the first user message.
func deriveTitle(transcript []Message) string {
	for _, m := range transcript {
		if m.Sender == SenderUser {
			return util.TruncateRunes(util.OneLine(m.Text), titleMaxRunes)
		}
	}
	return ""
}
