// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"dravis"}, argv...)
	defer func() { os.Args = old }()
	return Parse()
}

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parseArgs(t)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseAsk(t *testing.T) {
	cmd, args := parseArgs(t, "ask", "--docs", "--mode", "exam_prep", "what", "is", "osmosis")
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is osmosis" {
		t.Errorf("query = %q", args.Query)
	}
	want := []string{"--docs", "--mode", "exam_prep"}
	if len(args.Raw) != len(want) {
		t.Fatalf("raw = %v, want %v", args.Raw, want)
	}
	for i := range want {
		if args.Raw[i] != want[i] {
			t.Errorf("raw[%d] = %q, want %q", i, args.Raw[i], want[i])
		}
	}
}

func TestParseBareQuestionBecomesAsk(t *testing.T) {
	cmd, args := parseArgs(t, "explain", "the", "water", "cycle")
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "explain the water cycle" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs(t, "--upload", "notes.pdf", "--quiet")
	if cmd != CmdTUI {
		t.Fatalf("cmd = %v, want CmdTUI", cmd)
	}
	if args.Upload != "notes.pdf" {
		t.Errorf("upload = %q", args.Upload)
	}
	if !args.Quiet {
		t.Error("quiet flag not set")
	}
}

func TestParseDebugFlag(t *testing.T) {
	cmd, args := parseArgs(t, "--debug")
	if cmd != CmdTUI {
		t.Fatalf("cmd = %v, want CmdTUI", cmd)
	}
	if !args.Debug {
		t.Error("debug flag not set")
	}
}

func TestParseSubcommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"chat"}, CmdChat},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"setup"}, CmdSetup},
		{[]string{"pin", "set"}, CmdPin},
		{[]string{"export"}, CmdExport},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := parseArgs(t, tt.argv...)
		if cmd != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseConfigSet(t *testing.T) {
	cmd, args := parseArgs(t, "config", "set", "ui.theme", "light")
	if cmd != CmdConfig {
		t.Fatalf("cmd = %v, want CmdConfig", cmd)
	}
	if args.Subcommand != "set" || args.ConfigKey != "ui.theme" || args.ConfigVal != "light" {
		t.Errorf("parsed %q %q %q", args.Subcommand, args.ConfigKey, args.ConfigVal)
	}
}

func TestValidPin(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validPin(tt.pin); got != tt.want {
			t.Errorf("validPin(%q) = %v, want %v", tt.pin, got, tt.want)
		}
	}
}
