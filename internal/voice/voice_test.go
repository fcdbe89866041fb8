// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeTranscriber struct {
	text         string
	err          error
	calls        int
	lastFilename string
	lastLanguage string
	lastAudio    []byte
}

func (f *fakeTranscriber) SpeechToText(_ context.Context, filename string, audio io.Reader, language string) (string, error) {
	f.calls++
	f.lastFilename = filename
	f.lastLanguage = language
	f.lastAudio, _ = io.ReadAll(audio)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type stubRecorder struct {
	content string
	name    string
	err     error
}

func (r stubRecorder) Record(context.Context) (io.ReadCloser, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	return io.NopCloser(strings.NewReader(r.content)), r.name, nil
}

// =============================================================================
// LANGUAGE TAGS
// =============================================================================

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "", true},
		{"  ", "", true},
		{"en", "en", true},
		{"EN-us", "en-US", true},
		{"de-DE", "de-DE", true},
		{"not a tag", "", false},
		{"x!!", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeLanguage(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeLanguage(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSetLanguageRejectsInvalidTag(t *testing.T) {
	o := New(&fakeTranscriber{}, status.NewCell())
	if !o.SetLanguage("sv-SE") {
		t.Fatal("valid tag rejected")
	}
	if o.SetLanguage("???") {
		t.Error("invalid tag accepted")
	}
	if got := o.Language(); got != "sv-SE" {
		t.Errorf("language = %q, want previous setting kept", got)
	}
}

// =============================================================================
// TRANSCRIPTION
// =============================================================================

func TestTranscribeFillsInput(t *testing.T) {
	client := &fakeTranscriber{text: "what is osmosis"}
	cell := status.NewCell()
	o := New(client, cell)
	o.SetLanguage("en")

	rec := stubRecorder{content: "RIFFaudio", name: "capture.wav"}
	msg := o.TranscribeCmd(rec)().(TranscribedMsg)
	text, ok := o.Apply(msg)
	if !ok {
		t.Fatal("transcription not applied")
	}
	if text != "what is osmosis" {
		t.Errorf("text = %q", text)
	}
	if client.lastFilename != "capture.wav" {
		t.Errorf("filename = %q", client.lastFilename)
	}
	if client.lastLanguage != "en" {
		t.Errorf("language = %q", client.lastLanguage)
	}
	if string(client.lastAudio) != "RIFFaudio" {
		t.Errorf("audio = %q", client.lastAudio)
	}
	if cell.State() != status.Online {
		t.Errorf("status = %v, want Online", cell.State())
	}
}

func TestRecorderFailureNeverReachesBackend(t *testing.T) {
	client := &fakeTranscriber{}
	cell := status.NewCell()
	o := New(client, cell)

	rec := stubRecorder{err: os.ErrNotExist}
	msg := o.TranscribeCmd(rec)().(TranscribedMsg)
	if _, ok := o.Apply(msg); ok {
		t.Error("recorder failure was applied")
	}
	if client.calls != 0 {
		t.Errorf("backend called %d times", client.calls)
	}
	if o.Alert() != TranscribeFailedText {
		t.Errorf("alert = %q", o.Alert())
	}
	// A local recorder problem says nothing about the backend.
	if cell.State() != status.Unknown {
		t.Errorf("status = %v, want Unknown", cell.State())
	}
}

func TestBackendFailureMarksOffline(t *testing.T) {
	client := &fakeTranscriber{err: backend.ErrBackendDown}
	cell := status.NewCell()
	o := New(client, cell)

	msg := o.TranscribeCmd(stubRecorder{content: "a", name: "a.wav"})().(TranscribedMsg)
	o.Apply(msg)
	if cell.State() != status.Offline {
		t.Errorf("status = %v, want Offline", cell.State())
	}
}

func TestStaleTranscriptionIsDiscarded(t *testing.T) {
	client := &fakeTranscriber{text: "late words"}
	o := New(client, status.NewCell())

	msg := o.TranscribeCmd(stubRecorder{content: "a", name: "a.wav"})().(TranscribedMsg)
	o.Invalidate()
	if text, ok := o.Apply(msg); ok || text != "" {
		t.Errorf("stale transcription applied: %q, %v", text, ok)
	}
}

func TestTranscribeWhileBusyIsNoOp(t *testing.T) {
	o := New(&fakeTranscriber{}, status.NewCell())
	rec := stubRecorder{content: "a", name: "a.wav"}

	first := o.TranscribeCmd(rec)
	if first == nil {
		t.Fatal("first transcription returned nil")
	}
	if second := o.TranscribeCmd(rec); second != nil {
		t.Error("second transcription started while busy")
	}
}

// =============================================================================
// FILE RECORDER
// =============================================================================

func TestFileRecorderReadsCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take1.wav")
	if err := os.WriteFile(path, []byte("RIFF...."), 0o600); err != nil {
		t.Fatal(err)
	}

	audio, name, err := FileRecorder{Path: path}.Record(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer audio.Close()
	if name != "take1.wav" {
		t.Errorf("name = %q", name)
	}
	data, _ := io.ReadAll(audio)
	if string(data) != "RIFF...." {
		t.Errorf("content = %q", data)
	}
}
