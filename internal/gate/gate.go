// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gate provides the PIN access gate that runs once at startup.
//
// The gate asks the backend whether a PIN is configured. If none is, or
// if the backend cannot answer, the application unlocks immediately: an
// inability to confirm the restriction defaults to permissive behavior
// (fail-open). This is a named policy, not an oversight — the gate guards
// convenience for a local single-user app, and a dead backend must not
// brick the client. Only a configured, reachable PIN locks the app.
package gate

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

// PinLength is the exact number of digits a PIN has.
const PinLength = 4

// IncorrectPinMessage is surfaced on a failed verification.
const IncorrectPinMessage = "Incorrect PIN"

// TooManyAttemptsMessage is surfaced when submissions are throttled.
const TooManyAttemptsMessage = "Too many attempts, wait a moment"

// State is the gate's access state.
type State int

const (
	// Checking is the transient startup state while PIN existence is
	// queried.
	Checking State = iota
	// Locked means a PIN is configured and not yet verified.
	Locked
	// Unlocked grants access to the application.
	Unlocked
)

// String returns the state name for logging and tests.
func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return "checking"
	}
}

// PinClient is the slice of the backend client the gate needs.
type PinClient interface {
	PinExists(ctx context.Context) (bool, error)
	VerifyPin(ctx context.Context, pin string) (bool, error)
}

// Gate is the access-control state machine.
type Gate struct {
	mu      sync.Mutex
	state   State
	input   string
	message string
	pinSet  bool

	client  PinClient
	limiter *rate.Limiter
}

// New creates a gate in the Checking state. Verification attempts are
// throttled client-side so a held-down Enter cannot hammer the backend.
func New(client PinClient) *Gate {
	return &Gate{
		state:   Checking,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(2), 3),
	}
}

// State returns the current access state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Input returns the digits collected so far.
func (g *Gate) Input() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.input
}

// Message returns the current user-facing message, if any.
func (g *Gate) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// =============================================================================
// STARTUP CHECK
// =============================================================================

// Check queries PIN existence and resolves the Checking state.
// Returns the resulting state.
func (g *Gate) Check(ctx context.Context) State {
	exists, err := g.client.PinExists(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pinSet = err == nil && exists
	switch {
	case err != nil:
		// Fail-open policy: unreachable check unlocks.
		g.state = Unlocked
	case !exists:
		g.state = Unlocked
	default:
		g.state = Locked
	}
	return g.state
}

// =============================================================================
// PIN COLLECTION
// =============================================================================

// PushDigit appends one digit to the collected input. Non-numeric runes
// are rejected here, at the input boundary, not at submission. Returns
// true if the rune was accepted.
func (g *Gate) PushDigit(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Locked || len(g.input) >= PinLength {
		return false
	}
	g.input += string(r)
	g.message = ""
	return true
}

// Backspace removes the last collected digit.
func (g *Gate) Backspace() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.input) > 0 {
		g.input = g.input[:len(g.input)-1]
	}
}

// Ready reports whether a full PIN has been collected.
func (g *Gate) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.input) == PinLength
}

// =============================================================================
// VERIFICATION
// =============================================================================

// Submit verifies the collected PIN. A verified result unlocks; anything
// else (wrong PIN or a failed call) clears the input, surfaces the
// incorrect-PIN message, and stays locked. Returns the resulting state.
func (g *Gate) Submit(ctx context.Context) State {
	g.mu.Lock()
	if g.state != Locked || len(g.input) != PinLength {
		state := g.state
		g.mu.Unlock()
		return state
	}
	if !g.limiter.Allow() {
		g.message = TooManyAttemptsMessage
		g.input = ""
		g.mu.Unlock()
		return Locked
	}
	pin := g.input
	g.mu.Unlock()

	verified, err := g.client.VerifyPin(ctx, pin)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil && verified {
		g.state = Unlocked
		g.input = ""
		g.message = ""
		return Unlocked
	}
	g.input = ""
	g.message = IncorrectPinMessage
	return Locked
}

// PinSet reports whether the startup check found a PIN on the backend.
// Re-locking without one would strand the user at an unanswerable prompt.
func (g *Gate) PinSet() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pinSet
}

// Lock re-locks the gate (explicit action from settings). The running
// client has no other Unlocked to Locked transition.
func (g *Gate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Locked
	g.input = ""
	g.message = ""
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// CheckedMsg reports the resolved startup state.
type CheckedMsg struct {
	State State
}

// SubmittedMsg reports the state after a verification attempt.
type SubmittedMsg struct {
	State State
}

// CheckCmd runs the startup existence check off the UI loop.
func CheckCmd(g *Gate) tea.Cmd {
	return func() tea.Msg {
		return CheckedMsg{State: g.Check(context.Background())}
	}
}

// SubmitCmd runs a verification attempt off the UI loop.
func SubmitCmd(g *Gate) tea.Cmd {
	return func() tea.Msg {
		return SubmittedMsg{State: g.Submit(context.Background())}
	}
}
