// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docs manages the document library view: listing, uploading
// and deleting study material on the backend.
package docs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
)

// UploadFailedText is shown when an upload does not complete.
const UploadFailedText = "Upload failed. Please check that the DRAVIS backend is running."

// DeleteFailedText is shown when the backend refuses or fails a deletion.
const DeleteFailedText = "Couldn't delete the document. Please try again."

// Library is the backend surface the orchestrator drives.
type Library interface {
	ListDocuments(ctx context.Context) []backend.Document
	UploadDocument(ctx context.Context, filename string, r io.Reader) (*backend.UploadResult, error)
	DeleteDocument(ctx context.Context, id string) (bool, error)
}

// Orchestrator holds the document list and the upload/delete flows.
type Orchestrator struct {
	mu     sync.Mutex
	client Library
	status *status.Cell

	documents  []backend.Document
	generation uint64

	selectedPath string // file staged for upload
	pendingID    string // document awaiting delete confirmation
	busy         bool
	alert        string
}

// New creates a document orchestrator writing availability into cell.
func New(client Library, cell *status.Cell) *Orchestrator {
	return &Orchestrator{client: client, status: cell}
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// Documents returns a copy of the current list.
func (o *Orchestrator) Documents() []backend.Document {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]backend.Document, len(o.documents))
	copy(out, o.documents)
	return out
}

// Busy reports whether an upload or delete is in flight.
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

// ClearAlert dismisses the alert.
func (o *Orchestrator) ClearAlert() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.alert = ""
}

// SelectedPath returns the file currently staged for upload.
func (o *Orchestrator) SelectedPath() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectedPath
}

// SelectFile stages a file for upload.
func (o *Orchestrator) SelectFile(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selectedPath = path
}

// =============================================================================
// REFRESH
// =============================================================================

// RefreshedMsg carries a completed list call.
type RefreshedMsg struct {
	Generation uint64
	Documents  []backend.Document
}

// RefreshCmd fetches the document list. The result replaces the list
// wholesale; a fetch that fails comes back empty, which is rendered as
// an empty library rather than an error.
func (o *Orchestrator) RefreshCmd() tea.Cmd {
	o.mu.Lock()
	gen := o.generation
	o.mu.Unlock()

	return func() tea.Msg {
		return RefreshedMsg{Generation: gen, Documents: o.client.ListDocuments(context.Background())}
	}
}

// ApplyRefresh installs a fetched list, discarding stale results.
func (o *Orchestrator) ApplyRefresh(msg RefreshedMsg) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if msg.Generation != o.generation {
		return false
	}
	o.documents = msg.Documents
	return true
}

// Invalidate discards in-flight list results, e.g. when leaving the view.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.busy = false
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadedMsg carries a completed upload call.
type UploadedMsg struct {
	Generation uint64
	Result     *backend.UploadResult
	Err        error
}

// UploadCmd uploads the staged file. With no file staged or another
// operation in flight it is a no-op and returns nil.
func (o *Orchestrator) UploadCmd() tea.Cmd {
	o.mu.Lock()
	if o.selectedPath == "" || o.busy {
		o.mu.Unlock()
		return nil
	}
	o.busy = true
	gen := o.generation
	path := o.selectedPath
	o.mu.Unlock()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return UploadedMsg{Generation: gen, Err: err}
		}
		defer f.Close()
		result, err := o.client.UploadDocument(context.Background(), filepath.Base(path), f)
		return UploadedMsg{Generation: gen, Result: result, Err: err}
	}
}

// ApplyUpload folds an upload result into state. On success the staged
// file is cleared and the caller should refresh the list; on failure
// the selection is kept so the user can retry. Returns true when the
// library should be refreshed.
func (o *Orchestrator) ApplyUpload(msg UploadedMsg) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if msg.Generation != o.generation {
		return false
	}
	o.busy = false

	if msg.Err != nil {
		o.status.MarkOffline()
		o.alert = UploadFailedText
		return false
	}
	o.status.MarkOnline()
	if msg.Result == nil || !msg.Result.Success {
		// The backend answered but refused the file.
		o.alert = UploadFailedText
		return false
	}
	o.selectedPath = ""
	o.alert = ""
	return true
}

// =============================================================================
// DELETE
// =============================================================================

// DeletedMsg carries a completed delete call.
type DeletedMsg struct {
	Generation uint64
	ID         string
	OK         bool
	Err        error
}

// RequestDelete marks a document as awaiting confirmation. No backend
// call happens until ConfirmDeleteCmd.
func (o *Orchestrator) RequestDelete(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return
	}
	o.pendingID = id
}

// PendingDelete returns the id awaiting confirmation, empty when none.
func (o *Orchestrator) PendingDelete() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pendingID
}

// CancelDelete drops the pending confirmation without calling the backend.
func (o *Orchestrator) CancelDelete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pendingID = ""
}

// ConfirmDeleteCmd performs the confirmed deletion. A no-op when
// nothing is pending.
func (o *Orchestrator) ConfirmDeleteCmd() tea.Cmd {
	o.mu.Lock()
	if o.pendingID == "" || o.busy {
		o.mu.Unlock()
		return nil
	}
	o.busy = true
	gen := o.generation
	id := o.pendingID
	o.pendingID = ""
	o.mu.Unlock()

	return func() tea.Msg {
		ok, err := o.client.DeleteDocument(context.Background(), id)
		return DeletedMsg{Generation: gen, ID: id, OK: ok, Err: err}
	}
}

// ApplyDelete folds a delete result into state. Returns true when the
// library should be refreshed.
func (o *Orchestrator) ApplyDelete(msg DeletedMsg) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if msg.Generation != o.generation {
		return false
	}
	o.busy = false

	if msg.Err != nil {
		o.status.MarkOffline()
		o.alert = DeleteFailedText
		return false
	}
	o.status.MarkOnline()
	if !msg.OK {
		o.alert = DeleteFailedText
		return false
	}
	o.alert = ""
	return true
}
