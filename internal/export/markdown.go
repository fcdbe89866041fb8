// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/dravisapp/dravis-tui/internal/chat"
	"github.com/dravisapp/dravis-tui/internal/session"
	"github.com/dravisapp/dravis-tui/internal/util"
)

// =============================================================================
// MARKDOWN TRANSCRIPT EXPORTER
// =============================================================================

// MarkdownExporter renders a session transcript to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType returns the Markdown MIME type.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// Export renders a session's transcript to Markdown.
func (e *MarkdownExporter) Export(sess session.Session, transcript []chat.Message) ([]byte, error) {
	if len(transcript) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(sess.Title)))
		sb.WriteString(fmt.Sprintf("created: %s\n", time.UnixMilli(sess.Timestamp).Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(transcript)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: dravis-tui\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", util.OneLine(sess.Title)))

	for i, msg := range transcript {
		label := roleLabel(msg.Sender)
		if e.options.IncludeTimestamps && msg.Timestamp != "" {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(strings.TrimRight(msg.Text, "\n"))
		sb.WriteString("\n\n")

		if i < len(transcript)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n*Exported from DRAVIS on %s*\n", time.Now().Format("January 2, 2006")))
	return []byte(sb.String()), nil
}

// WriteSession exports a transcript and saves it next to the history
// exports, named after the session title.
func (e *MarkdownExporter) WriteSession(sess session.Session, transcript []chat.Message) (string, error) {
	content, err := e.Export(sess, transcript)
	if err != nil {
		return "", err
	}
	dir, err := e.options.outputDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve export directory: %w", err)
	}
	path := buildPath(dir, sess.Title, e.FileExtension())
	if err := writeFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}

func roleLabel(sender chat.Sender) string {
	switch sender {
	case chat.SenderUser:
		return "You"
	case chat.SenderAssistant:
		return "DRAVIS"
	default:
		return string(sender)
	}
}

// formatTimestamp renders an ISO-8601 timestamp for display, passing
// through unparseable values untouched.
func formatTimestamp(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("15:04:05")
}

// escapeYAML keeps a title on one frontmatter line.
func escapeYAML(s string) string {
	s = util.OneLine(s)
	if strings.ContainsAny(s, ":#\"'{}[]") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
