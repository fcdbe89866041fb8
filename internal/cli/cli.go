// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and plain-terminal command
// handlers for dravis.
//
// Everything that runs without the TUI lives here: one-shot questions
// (ask), the liner-based REPL (chat), backend status, configuration,
// PIN management, the first-run wizard, and history export. Handlers
// share the TUI's backend client and access policy.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdSetup
	CmdPin
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Debug   bool

	// Command-specific
	Query      string
	Upload     string // file staged for upload when starting the TUI
	ConfigKey  string
	ConfigVal  string
	Subcommand string
	Language   string // BCP-47 tag for transcription

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `dravis - offline study assistant client

DRAVIS is a terminal client for a locally running study backend.

It provides:
  - Multi-session chat with study modes
  - Document upload for grounded answers
  - Quiz generation from your notes
  - Optional PIN access protection

Usage:
  dravis                     Start TUI (default)
  dravis ask "question"      Ask a single question
  dravis chat                Interactive chat
  dravis status, s           Show backend status
  dravis config [show|set]   Configuration
  dravis setup               First-run wizard
  dravis pin [set|check]     PIN management
  dravis export              Export chat history to Markdown
  dravis version, -v         Show version
  dravis help, -h            Show this help

Flags:
  --upload FILE              Stage a document for upload (TUI)
  --docs                     Ground the answer in uploaded documents (ask)
  --mode MODE                Study mode: normal, exam_prep, practice, vocabulary
  --json                     Machine-readable output where supported
  --quiet, -q                Suppress informational output
  --debug                    Write a debug log to ~/.dravis/debug.log (TUI)

Examples:
  dravis ask "Explain osmosis in simple terms"
  dravis ask --docs --mode exam_prep "Summarize chapter 3"
  dravis --upload notes.pdf
  dravis pin set
`

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("dravis %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	raw := os.Args[1:]
	remaining, args := parseGlobalFlags(raw)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := remaining[0]
	rest := remaining[1:]

	switch cmd {
	case "ask":
		parseAskArgs(&args, rest)
		return CmdAsk, args
	case "chat":
		args.Raw = rest
		return CmdChat, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		parseConfigArgs(&args, rest)
		return CmdConfig, args
	case "setup":
		return CmdSetup, args
	case "pin":
		if len(rest) > 0 {
			args.Subcommand = rest[0]
		}
		return CmdPin, args
	case "export":
		return CmdExport, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		// Unknown word: treat it as a question, matching common habit.
		args.Query = strings.Join(remaining, " ")
		return CmdAsk, args
	}
}

// parseGlobalFlags extracts global flags, returning remaining args.
func parseGlobalFlags(in []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(in); i++ {
		switch in[i] {
		case "--quiet", "-q":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "--debug":
			args.Debug = true
		case "--json":
			args.JSON = true
		case "--upload":
			if i+1 < len(in) {
				i++
				args.Upload = in[i]
			}
		case "--language":
			if i+1 < len(in) {
				i++
				args.Language = in[i]
			}
		default:
			remaining = append(remaining, in[i])
		}
	}
	return remaining, args
}

// parseAskArgs handles ask-specific flags and assembles the query.
func parseAskArgs(args *Args, in []string) {
	var words []string
	for i := 0; i < len(in); i++ {
		switch in[i] {
		case "--docs":
			args.Raw = append(args.Raw, "--docs")
		case "--mode":
			if i+1 < len(in) {
				i++
				args.Raw = append(args.Raw, "--mode", in[i])
			}
		default:
			words = append(words, in[i])
		}
	}
	args.Query = strings.Join(words, " ")
}

// parseConfigArgs handles config subcommands: show, set KEY VALUE.
func parseConfigArgs(args *Args, in []string) {
	if len(in) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = in[0]
	if args.Subcommand == "set" && len(in) >= 3 {
		args.ConfigKey = in[1]
		args.ConfigVal = in[2]
	}
}
