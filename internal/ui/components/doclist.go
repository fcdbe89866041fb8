// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
	"github.com/dravisapp/dravis-tui/internal/util"
)

// =============================================================================
// DOCUMENT LIST COMPONENT
// =============================================================================

// DocList renders the document library with a cursor and an optional
// delete confirmation prompt.
type DocList struct {
	theme *styles.Theme
}

// NewDocList creates a document list.
func NewDocList(theme *styles.Theme) DocList {
	return DocList{theme: theme}
}

// Render draws the library. cursor indexes the highlighted row;
// pendingDelete names the document awaiting confirmation, if any.
func (d DocList) Render(width int, docs []backend.Document, cursor int, pendingDelete string) string {
	if len(docs) == 0 {
		return d.theme.DocList.Render(d.theme.DocMeta.Render("No documents uploaded yet."))
	}

	var lines []string
	for i, doc := range docs {
		name := util.TruncateWidth(doc.DocumentName, width-10)
		meta := fmt.Sprintf("%d chunks", doc.ChunkCount)
		if doc.UploadTime != "" {
			meta = fmt.Sprintf("%s, %s", meta, doc.UploadTime)
		}
		if i == cursor {
			lines = append(lines, d.theme.DocItemSelected.Render("> "+name))
		} else {
			lines = append(lines, d.theme.DocItem.Render("  "+name))
		}
		lines = append(lines, d.theme.DocMeta.Render("    "+meta))
	}

	out := d.theme.DocList.Render(strings.Join(lines, "\n"))
	if pendingDelete != "" {
		prompt := fmt.Sprintf("Delete %q? (y/n)", util.TruncateRunes(pendingDelete, 40))
		out += "\n" + d.theme.ConfirmBox.Render(prompt)
	}
	return out
}
