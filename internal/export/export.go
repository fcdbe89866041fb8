// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat history to disk: the backend's full
// history dump and Markdown renderings of local session transcripts.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dravisapp/dravis-tui/internal/util"
)

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files are saved.
	// Default: current working directory.
	OutputDir string

	// IncludeMetadata includes a frontmatter header (title, dates,
	// message count).
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

func (o *Options) outputDir() (string, error) {
	if o.OutputDir != "" {
		return o.OutputDir, nil
	}
	return os.Getwd()
}

// =============================================================================
// SERVER HISTORY EXPORT
// =============================================================================

// HistoryFilename returns the export filename for a given day:
// dravis_chat_export_<YYYY-MM-DD>.md.
func HistoryFilename(day time.Time) string {
	return fmt.Sprintf("dravis_chat_export_%s.md", day.Format("2006-01-02"))
}

// WriteHistory saves the backend's history dump under the dated export
// name and returns the full path. An existing export for the same day
// is replaced.
func WriteHistory(opts *Options, content []byte, day time.Time) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	dir, err := opts.outputDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve export directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, HistoryFilename(day))
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
