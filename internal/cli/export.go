// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/config"
	"github.com/dravisapp/dravis-tui/internal/export"
)

// =============================================================================
// EXPORT COMMAND
// =============================================================================

// HandleExport writes the backend's chat history to a dated Markdown file.
func HandleExport(args Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	client := backend.NewClient(cfg.Backend.BaseURL)

	if err := ensureAccess(client); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}

	data, err := client.ExportHistory(context.Background())
	if err != nil {
		if backend.IsBackendDown(err) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"),
				"the DRAVIS backend is not reachable; is it running?")
		} else {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		}
		os.Exit(1)
	}

	path, err := export.WriteHistory(&export.Options{OutputDir: cfg.Storage.ExportDir}, data, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	if args.Quiet {
		fmt.Println(path)
	} else {
		fmt.Println(successStyle.Render("History exported to " + path))
	}
}
