// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package status

import (
	"sync"
	"testing"
)

func TestCell_StartsUnknown(t *testing.T) {
	c := NewCell()
	if c.State() != Unknown {
		t.Errorf("new cell state = %v, want Unknown", c.State())
	}
}

func TestCell_LastWriteWins(t *testing.T) {
	c := NewCell()
	c.MarkOnline()
	c.MarkOffline()
	c.MarkOnline()
	if c.State() != Online {
		t.Errorf("state = %v, want Online", c.State())
	}
}

func TestCell_ConcurrentWrites(t *testing.T) {
	c := NewCell()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); c.MarkOnline() }()
		go func() { defer wg.Done(); c.MarkOffline() }()
	}
	wg.Wait()

	// Whichever write landed last, the cell must hold a definite state.
	if s := c.State(); s != Online && s != Offline {
		t.Errorf("state = %v, want Online or Offline", s)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Unknown, "unknown"},
		{Online, "online"},
		{Offline, "offline"},
	}
	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
