// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeHonorsConfiguredName(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("dark theme detected as light")
	}
	if NewTheme("light").IsDark {
		t.Error("light theme detected as dark")
	}
}

func TestSetSize(t *testing.T) {
	th := NewTheme("dark")
	th.SetSize(120, 40)
	if th.Width != 120 || th.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", th.Width, th.Height)
	}
}

func TestStylesAreInitialized(t *testing.T) {
	th := NewTheme("dark")
	// Spot-check a few styles render without panicking.
	for _, s := range []string{
		th.LockTitle.Render("DRAVIS"),
		th.UserBubble.Render("hello"),
		th.StatusOnline.Render("Online"),
		th.QuizCorrect.Render("Correct"),
	} {
		if s == "" {
			t.Error("style rendered empty output")
		}
	}
}
