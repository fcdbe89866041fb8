// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dravisapp/dravis-tui/internal/util"
)

// buildPath derives a filesystem-safe filename from a session title.
func buildPath(dir, title, ext string) string {
	name := sanitizeFilename(title)
	if name == "" {
		name = "chat"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", name, time.Now().Format("2006-01-02"), ext))
}

// sanitizeFilename strips characters that are unsafe in filenames.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(util.OneLine(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('_')
		}
	}
	out := sb.String()
	const maxLen = 60
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return strings.Trim(out, "_")
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
