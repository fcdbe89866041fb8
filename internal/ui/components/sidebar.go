// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/dravisapp/dravis-tui/internal/session"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
	"github.com/dravisapp/dravis-tui/internal/util"
)

// =============================================================================
// SESSION SIDEBAR COMPONENT
// =============================================================================

// Sidebar renders the session list, newest first, with the active
// session highlighted.
type Sidebar struct {
	theme *styles.Theme
}

// NewSidebar creates a session sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme}
}

// Render draws the session list at the given width.
func (s Sidebar) Render(width int, sessions []session.Session, activeID string) string {
	inner := width - 4 // border and padding
	if inner < 8 {
		inner = 8
	}

	var lines []string
	lines = append(lines, s.theme.SessionItemSelected.Render("Sessions"), "")
	for _, sess := range sessions {
		title := util.TruncateWidth(util.OneLine(sess.Title), inner)
		when := time.UnixMilli(sess.Timestamp).Format("Jan 2 15:04")
		if sess.ID == activeID {
			lines = append(lines, s.theme.SessionItemSelected.Render("> "+title))
		} else {
			lines = append(lines, s.theme.SessionItem.Render("  "+title))
		}
		lines = append(lines, s.theme.SessionMeta.Render("  "+when))
	}
	return s.theme.SessionList.Width(width).Render(strings.Join(lines, "\n"))
}
