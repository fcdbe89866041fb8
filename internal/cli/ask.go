// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/config"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for markdown output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse renders markdown only when stdout is a TTY, so piped
// output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk answers a single question and exits.
func HandleAsk(args Args) {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), "no question given")
		fmt.Fprintln(os.Stderr, infoStyle.Render(`Usage: dravis ask "your question"`))
		os.Exit(1)
	}

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

	useDocs := cfg.Chat.UseDocuments
	mode := backend.Mode(cfg.Chat.Mode)
	for i := 0; i < len(args.Raw); i++ {
		switch args.Raw[i] {
		case "--docs":
			useDocs = true
		case "--mode":
			if i+1 < len(args.Raw) {
				i++
				if m := backend.Mode(args.Raw[i]); m.Valid() {
					mode = m
				}
			}
		}
	}
	if !mode.Valid() {
		mode = backend.ModeNormal
	}

	result, err := client.Chat(context.Background(), args.Query, useDocs, mode)
	if err != nil {
		if backend.IsBackendDown(err) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"),
				"the DRAVIS backend is not reachable; is it running?")
		} else {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
		}
		os.Exit(1)
	}

	if args.JSON {
		out, _ := json.Marshal(map[string]string{"response": result.Response})
		fmt.Println(string(out))
		return
	}
	displayResponse(result.Response)
}
