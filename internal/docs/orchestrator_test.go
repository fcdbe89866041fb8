// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeLibrary struct {
	docs []backend.Document

	uploadErr     error
	uploadRefused bool
	uploadCalls   int
	lastFilename  string
	lastContent   []byte

	deleteOK    bool
	deleteErr   error
	deleteCalls int
	lastDeleted string
}

func (f *fakeLibrary) ListDocuments(context.Context) []backend.Document {
	if f.docs == nil {
		return []backend.Document{}
	}
	return f.docs
}

func (f *fakeLibrary) UploadDocument(_ context.Context, filename string, r io.Reader) (*backend.UploadResult, error) {
	f.uploadCalls++
	f.lastFilename = filename
	f.lastContent, _ = io.ReadAll(r)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if f.uploadRefused {
		return &backend.UploadResult{Success: false}, nil
	}
	return &backend.UploadResult{Success: true, DocumentID: "d1"}, nil
}

func (f *fakeLibrary) DeleteDocument(_ context.Context, id string) (bool, error) {
	f.deleteCalls++
	f.lastDeleted = id
	return f.deleteOK, f.deleteErr
}

func newTestOrchestrator(client *fakeLibrary) (*Orchestrator, *status.Cell) {
	cell := status.NewCell()
	return New(client, cell), cell
}

func writeTempDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// =============================================================================
// REFRESH
// =============================================================================

func TestRefreshReplacesListWholesale(t *testing.T) {
	client := &fakeLibrary{docs: []backend.Document{
		{DocumentID: "a", DocumentName: "biology.pdf"},
		{DocumentID: "b", DocumentName: "chemistry.pdf"},
	}}
	o, _ := newTestOrchestrator(client)

	msg := o.RefreshCmd()().(RefreshedMsg)
	if !o.ApplyRefresh(msg) {
		t.Fatal("refresh not applied")
	}
	if got := o.Documents(); len(got) != 2 {
		t.Fatalf("documents = %d, want 2", len(got))
	}

	// A shrunken server list replaces, never merges.
	client.docs = []backend.Document{{DocumentID: "b", DocumentName: "chemistry.pdf"}}
	msg = o.RefreshCmd()().(RefreshedMsg)
	o.ApplyRefresh(msg)
	got := o.Documents()
	if len(got) != 1 || got[0].DocumentID != "b" {
		t.Errorf("documents = %+v, want only b", got)
	}
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	client := &fakeLibrary{docs: []backend.Document{{DocumentID: "a"}}}
	o, _ := newTestOrchestrator(client)

	msg := o.RefreshCmd()().(RefreshedMsg)
	o.Invalidate()
	if o.ApplyRefresh(msg) {
		t.Error("stale refresh was applied")
	}
	if got := o.Documents(); len(got) != 0 {
		t.Errorf("documents = %d, want 0", len(got))
	}
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUploadWithoutSelectionIsNoOp(t *testing.T) {
	client := &fakeLibrary{}
	o, _ := newTestOrchestrator(client)

	if cmd := o.UploadCmd(); cmd != nil {
		t.Error("UploadCmd without selection returned a command")
	}
	if client.uploadCalls != 0 {
		t.Errorf("backend called %d times", client.uploadCalls)
	}
}

func TestUploadSuccessClearsSelection(t *testing.T) {
	client := &fakeLibrary{}
	o, cell := newTestOrchestrator(client)

	path := writeTempDoc(t, "notes.txt", "mitochondria")
	o.SelectFile(path)

	msg := o.UploadCmd()().(UploadedMsg)
	if !o.ApplyUpload(msg) {
		t.Fatal("successful upload did not request a refresh")
	}
	if client.lastFilename != "notes.txt" {
		t.Errorf("uploaded filename = %q", client.lastFilename)
	}
	if string(client.lastContent) != "mitochondria" {
		t.Errorf("uploaded content = %q", client.lastContent)
	}
	if o.SelectedPath() != "" {
		t.Error("selection kept after successful upload")
	}
	if o.Alert() != "" {
		t.Errorf("alert = %q, want none", o.Alert())
	}
	if cell.State() != status.Online {
		t.Errorf("status = %v, want Online", cell.State())
	}
}

func TestUploadFailureKeepsSelectionAndAlerts(t *testing.T) {
	client := &fakeLibrary{uploadErr: backend.ErrBackendDown}
	o, cell := newTestOrchestrator(client)

	path := writeTempDoc(t, "notes.txt", "x")
	o.SelectFile(path)

	msg := o.UploadCmd()().(UploadedMsg)
	if o.ApplyUpload(msg) {
		t.Error("failed upload requested a refresh")
	}
	if o.SelectedPath() != path {
		t.Error("selection dropped on failure, user cannot retry")
	}
	if o.Alert() != UploadFailedText {
		t.Errorf("alert = %q", o.Alert())
	}
	if cell.State() != status.Offline {
		t.Errorf("status = %v, want Offline", cell.State())
	}
}

func TestUploadRefusedByBackendKeepsSelection(t *testing.T) {
	client := &fakeLibrary{uploadRefused: true}
	o, cell := newTestOrchestrator(client)

	path := writeTempDoc(t, "notes.txt", "x")
	o.SelectFile(path)

	msg := o.UploadCmd()().(UploadedMsg)
	if o.ApplyUpload(msg) {
		t.Error("refused upload requested a refresh")
	}
	if o.SelectedPath() != path {
		t.Error("selection dropped on refusal, user cannot retry")
	}
	if o.Alert() != UploadFailedText {
		t.Errorf("alert = %q", o.Alert())
	}
	if cell.State() != status.Online {
		t.Errorf("status = %v, want Online (the backend answered)", cell.State())
	}
}

func TestUploadMissingFileAlerts(t *testing.T) {
	client := &fakeLibrary{}
	o, _ := newTestOrchestrator(client)
	o.SelectFile(filepath.Join(t.TempDir(), "gone.txt"))

	msg := o.UploadCmd()().(UploadedMsg)
	if msg.Err == nil {
		t.Fatal("expected error opening missing file")
	}
	if client.uploadCalls != 0 {
		t.Error("backend called despite unreadable file")
	}
	o.ApplyUpload(msg)
	if o.Alert() != UploadFailedText {
		t.Errorf("alert = %q", o.Alert())
	}
}

func TestUploadWhileBusyIsNoOp(t *testing.T) {
	client := &fakeLibrary{}
	o, _ := newTestOrchestrator(client)
	o.SelectFile(writeTempDoc(t, "a.txt", "a"))

	first := o.UploadCmd()
	if first == nil {
		t.Fatal("first upload returned nil")
	}
	if second := o.UploadCmd(); second != nil {
		t.Error("second upload started while busy")
	}
}

// =============================================================================
// DELETE
// =============================================================================

func TestDeleteRequiresConfirmation(t *testing.T) {
	client := &fakeLibrary{deleteOK: true}
	o, _ := newTestOrchestrator(client)

	o.RequestDelete("d1")
	if client.deleteCalls != 0 {
		t.Fatal("delete reached backend before confirmation")
	}
	if o.PendingDelete() != "d1" {
		t.Errorf("pending = %q", o.PendingDelete())
	}

	msg := o.ConfirmDeleteCmd()().(DeletedMsg)
	if client.deleteCalls != 1 || client.lastDeleted != "d1" {
		t.Errorf("delete calls = %d, id = %q", client.deleteCalls, client.lastDeleted)
	}
	if !o.ApplyDelete(msg) {
		t.Error("confirmed delete did not request a refresh")
	}
}

func TestCancelDeleteNeverCallsBackend(t *testing.T) {
	client := &fakeLibrary{deleteOK: true}
	o, _ := newTestOrchestrator(client)

	o.RequestDelete("d1")
	o.CancelDelete()
	if cmd := o.ConfirmDeleteCmd(); cmd != nil {
		t.Error("confirm after cancel returned a command")
	}
	if client.deleteCalls != 0 {
		t.Errorf("backend called %d times", client.deleteCalls)
	}
}

func TestDeleteRefusedByBackendAlerts(t *testing.T) {
	client := &fakeLibrary{deleteOK: false}
	o, cell := newTestOrchestrator(client)

	o.RequestDelete("d1")
	msg := o.ConfirmDeleteCmd()().(DeletedMsg)
	if o.ApplyDelete(msg) {
		t.Error("refused delete requested a refresh")
	}
	if o.Alert() != DeleteFailedText {
		t.Errorf("alert = %q", o.Alert())
	}
	// The backend answered, so it is reachable.
	if cell.State() != status.Online {
		t.Errorf("status = %v, want Online", cell.State())
	}
}

func TestDeleteTransportFailureMarksOffline(t *testing.T) {
	client := &fakeLibrary{deleteErr: errors.New("connection refused")}
	o, cell := newTestOrchestrator(client)

	o.RequestDelete("d1")
	msg := o.ConfirmDeleteCmd()().(DeletedMsg)
	o.ApplyDelete(msg)
	if cell.State() != status.Offline {
		t.Errorf("status = %v, want Offline", cell.State())
	}
}
