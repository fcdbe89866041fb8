// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - interactive REPL chat against the DRAVIS backend.
//
// Commands:
//   /help, /h           Show available commands
//   /mode [name]        Show or switch study mode
//   /docs               Toggle document grounding
//   /export             Export chat history to Markdown
//   /quit, /q           Exit chat
//   Ctrl+C, Ctrl+D      Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/config"
	"github.com/dravisapp/dravis-tui/internal/export"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the interactive REPL.
func HandleChat(args Args) {
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

	input := NewChatCLI()
	defer input.Close()

	mode := backend.Mode(cfg.Chat.Mode)
	if !mode.Valid() {
		mode = backend.ModeNormal
	}
	useDocs := cfg.Chat.UseDocuments

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("DRAVIS chat"))
		fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
		fmt.Println()
	}

	for {
		line, err := input.ReadInput(promptStyle.Render("dravis> "))
		if err != nil {
			// Ctrl+C (ErrPromptAborted) and Ctrl+D (EOF) both exit.
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleSlashCommand(line, client, cfg, &mode, &useDocs); quit {
				return
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return
		}

		result, err := client.Chat(context.Background(), line, useDocs, mode)
		if err != nil {
			if backend.IsBackendDown(err) {
				fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"),
					"the DRAVIS backend is not reachable; is it running?")
			} else {
				fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
			}
			continue
		}
		displayResponse(result.Response)
		fmt.Println()
	}
}

// handleSlashCommand executes a /command; returns true to exit.
func handleSlashCommand(line string, client *backend.Client, cfg *config.Config, mode *backend.Mode, useDocs *bool) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/q":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render(`Commands:
  /mode [name]   Show or switch study mode (normal, exam_prep, practice, vocabulary)
  /docs          Toggle document grounding
  /export        Export chat history to Markdown
  /quit, /q      Exit`))

	case "/mode":
		if len(fields) == 1 {
			fmt.Println(infoStyle.Render("Mode: " + mode.Label()))
			break
		}
		if m := backend.Mode(fields[1]); m.Valid() {
			*mode = m
			fmt.Println(successStyle.Render("Mode: " + m.Label()))
		} else {
			fmt.Fprintln(os.Stderr, warningStyle.Render("Unknown mode: "+fields[1]))
		}

	case "/docs":
		*useDocs = !*useDocs
		if *useDocs {
			fmt.Println(successStyle.Render("Document grounding on"))
		} else {
			fmt.Println(infoStyle.Render("Document grounding off"))
		}

	case "/export":
		data, err := client.ExportHistory(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
			break
		}
		path, err := export.WriteHistory(&export.Options{OutputDir: cfg.Storage.ExportDir}, data, time.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[Error]"), err)
			break
		}
		fmt.Println(successStyle.Render("Exported to " + path))

	default:
		fmt.Fprintln(os.Stderr, warningStyle.Render("Unknown command: "+fields[0]))
	}
	return false
}
