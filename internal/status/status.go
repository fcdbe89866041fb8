// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status provides the shared backend-availability signal.
//
// Every orchestrator writes the outcome of its most recent backend call
// into one Cell; the view shell reads it. Last writer wins, there is no
// aggregation across components.
package status

import "sync"

// State is the derived backend availability.
type State int

const (
	// Unknown means no backend call has completed yet.
	Unknown State = iota
	// Online means the most recent backend call succeeded.
	Online
	// Offline means the most recent backend call failed.
	Offline
)

// String returns the display string for the state.
func (s State) String() string {
	switch s {
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return "unknown"
	}
}

// Cell is a shared availability cell. One instance is constructed at
// startup and injected into every orchestrator.
type Cell struct {
	mu    sync.RWMutex
	state State
}

// NewCell returns a cell in the Unknown state.
func NewCell() *Cell {
	return &Cell{}
}

// Set records the outcome of a backend call.
func (c *Cell) Set(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// State returns the most recently written state.
func (c *Cell) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// MarkOnline is shorthand for Set(Online).
func (c *Cell) MarkOnline() { c.Set(Online) }

// MarkOffline is shorthand for Set(Offline).
func (c *Cell) MarkOffline() { c.Set(Offline) }
