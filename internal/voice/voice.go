// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice turns recorded audio into chat input text. Recording
// itself is abstracted behind Recorder; the default implementation
// reads a prepared audio file, which covers both piped captures and
// external recorder tools.
package voice

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
)

// TranscribeFailedText is shown when transcription does not complete.
const TranscribeFailedText = "Couldn't transcribe the recording. Please check that the DRAVIS backend is running."

// Recorder produces an audio capture to transcribe.
type Recorder interface {
	// Record returns the audio stream and the filename to present to
	// the backend. The caller closes the stream.
	Record(ctx context.Context) (io.ReadCloser, string, error)
}

// FileRecorder reads an already-captured audio file.
type FileRecorder struct {
	Path string
}

func (r FileRecorder) Record(context.Context) (io.ReadCloser, string, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, "", err
	}
	return f, filepath.Base(r.Path), nil
}

// Transcriber is the backend surface this package drives.
type Transcriber interface {
	SpeechToText(ctx context.Context, filename string, audio io.Reader, language string) (string, error)
}

// NormalizeLanguage validates and canonicalizes a BCP-47 tag. An empty
// input stays empty (backend auto-detect); an unparseable tag is
// rejected so a typo never silently becomes auto-detect.
func NormalizeLanguage(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", true
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// Orchestrator runs the record-then-transcribe flow.
type Orchestrator struct {
	mu     sync.Mutex
	client Transcriber
	status *status.Cell

	language   string
	generation uint64
	busy       bool
	alert      string
}

// New creates a voice orchestrator writing availability into cell.
func New(client Transcriber, cell *status.Cell) *Orchestrator {
	return &Orchestrator{client: client, status: cell}
}

// SetLanguage sets the transcription language from a BCP-47 tag.
// Invalid tags are rejected and the previous setting is kept.
func (o *Orchestrator) SetLanguage(tag string) bool {
	normalized, ok := NormalizeLanguage(tag)
	if !ok {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.language = normalized
	return true
}

// Language returns the configured transcription language, empty for
// auto-detect.
func (o *Orchestrator) Language() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.language
}

// Busy reports whether a transcription is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Alert returns the current user-facing alert, empty when none.
func (o *Orchestrator) Alert() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.alert
}

// TranscribedMsg carries a completed transcription. Text is destined
// for the chat input field, never sent directly.
type TranscribedMsg struct {
	Generation uint64
	Text       string
	Err        error
}

// TranscribeCmd records via rec and transcribes the capture. A no-op
// while another transcription is in flight.
func (o *Orchestrator) TranscribeCmd(rec Recorder) tea.Cmd {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return nil
	}
	o.busy = true
	o.generation++
	gen := o.generation
	lang := o.language
	o.mu.Unlock()

	return func() tea.Msg {
		audio, filename, err := rec.Record(context.Background())
		if err != nil {
			return TranscribedMsg{Generation: gen, Err: err}
		}
		defer audio.Close()
		text, err := o.client.SpeechToText(context.Background(), filename, audio, lang)
		return TranscribedMsg{Generation: gen, Text: text, Err: err}
	}
}

// Apply folds a completed transcription into state. Returns the text
// to place in the chat input and whether the result was applied.
func (o *Orchestrator) Apply(msg TranscribedMsg) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if msg.Generation != o.generation {
		return "", false
	}
	o.busy = false

	if msg.Err != nil {
		// A recorder error never touches availability; only failures
		// that reached the wire do.
		if backend.IsBackendDown(msg.Err) || backend.IsTimeout(msg.Err) {
			o.status.MarkOffline()
		}
		o.alert = TranscribeFailedText
		return "", false
	}
	o.status.MarkOnline()
	o.alert = ""
	return msg.Text, true
}

// Invalidate discards in-flight transcription results.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.busy = false
}
