// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quiz drives quiz generation and answer tracking. Grading is
// the backend's job: a question carries its correct answer and the
// client only reveals it once the user has committed to an answer.
package quiz

import (
	"context"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/status"
)

// GenerateFailedText is shown when quiz generation does not complete.
const GenerateFailedText = "Couldn't generate a quiz. Please check that the DRAVIS backend is running."

// Difficulty levels accepted by the backend.
var Difficulties = []string{"easy", "medium", "hard"}

// Question types accepted by the backend: "simple" yields multiple
// choice and true/false, "advanced" fill-in-the-blank and short answer.
var Types = []string{"simple", "advanced"}

// Generator is the backend surface the orchestrator drives.
type Generator interface {
	GenerateQuiz(ctx context.Context, params backend.QuizParams) ([]backend.QuizQuestion, error)
}

// Orchestrator holds the current question set and the user's answers.
type Orchestrator struct {
	mu     sync.Mutex
	client Generator
	status *status.Cell

	params     backend.QuizParams
	questions  []backend.QuizQuestion
	answers    map[int]string // question index -> committed answer
	generation uint64
	busy       bool
	alert      string
}

// New creates a quiz orchestrator writing availability into cell.
func New(client Generator, cell *status.Cell) *Orchestrator {
	return &Orchestrator{
		client: client,
		status: cell,
		params: backend.QuizParams{
			NumQuestions: backend.DefaultQuizQuestions,
			Difficulty:   "medium",
			QuizType:     "simple",
		},
		answers: make(map[int]string),
	}
}

// =============================================================================
// PARAMETERS
// =============================================================================

// Params returns the current generation parameters.
func (o *Orchestrator) Params() backend.QuizParams {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.params
}

// SetTopic sets the quiz topic.
func (o *Orchestrator) SetTopic(topic string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.params.Topic = strings.TrimSpace(topic)
}

// SetNumQuestions sets the question count; the client clamps it to the
// backend's supported range at request time.
func (o *Orchestrator) SetNumQuestions(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.params.NumQuestions = n
}

// SetDifficulty sets the difficulty if it is a known level.
func (o *Orchestrator) SetDifficulty(d string) {
	for _, known := range Difficulties {
		if d == known {
			o.mu.Lock()
			o.params.Difficulty = d
			o.mu.Unlock()
			return
		}
	}
}

// SetType sets the question type if it is a known type.
func (o *Orchestrator) SetType(qt string) {
	for _, known := range Types {
		if qt == known {
			o.mu.Lock()
			o.params.QuizType = qt
			o.mu.Unlock()
			return
		}
	}
}

// SetUseDocuments toggles document-grounded question generation.
func (o *Orchestrator) SetUseDocuments(use bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.params.UseDocuments = use
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// Questions returns a copy of the current question set.
func (o *Orchestrator) Questions() []backend.QuizQuestion {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]backend.QuizQuestion, len(o.questions))
	copy(out, o.questions)
	return out
}

// Busy reports whether a generation is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Alert returns the current user-facing alert, empty when none.
func (o *Orchestrator) Alert() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.alert
}

// =============================================================================
// GENERATION
// =============================================================================

// GeneratedMsg carries a completed generation call.
type GeneratedMsg struct {
	Generation uint64
	Questions  []backend.QuizQuestion
	Err        error
}

// GenerateCmd starts quiz generation. An empty topic or an in-flight
// generation is a no-op and returns nil. The previous question set and
// all committed answers are cleared before the call goes out, so a
// failure leaves an empty quiz rather than a stale one.
func (o *Orchestrator) GenerateCmd() tea.Cmd {
	o.mu.Lock()
	if o.params.Topic == "" || o.busy {
		o.mu.Unlock()
		return nil
	}
	o.busy = true
	o.generation++
	gen := o.generation
	params := o.params
	o.questions = nil
	o.answers = make(map[int]string)
	o.alert = ""
	o.mu.Unlock()

	return func() tea.Msg {
		questions, err := o.client.GenerateQuiz(context.Background(), params)
		return GeneratedMsg{Generation: gen, Questions: questions, Err: err}
	}
}

// Apply installs a completed generation, replacing the question set
// wholesale. Stale results are discarded.
func (o *Orchestrator) Apply(msg GeneratedMsg) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if msg.Generation != o.generation {
		return false
	}
	o.busy = false

	if msg.Err != nil {
		if backend.IsBackendDown(msg.Err) || backend.IsTimeout(msg.Err) {
			o.status.MarkOffline()
		} else {
			// Semantic failure: the backend answered but could not
			// build a quiz for this topic.
			o.status.MarkOnline()
		}
		o.alert = GenerateFailedText
		return false
	}
	o.status.MarkOnline()
	o.questions = msg.Questions
	return true
}

// Invalidate discards in-flight generation results.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.busy = false
}

// =============================================================================
// ANSWERS
// =============================================================================

// Answer commits the user's answer for a question. The first answer
// sticks: the correct answer is revealed on commit, so changing it
// afterwards would let the reveal leak into the choice.
func (o *Orchestrator) Answer(index int, answer string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if index < 0 || index >= len(o.questions) {
		return
	}
	if _, done := o.answers[index]; done {
		return
	}
	o.answers[index] = answer
}

// Answered reports whether a question has a committed answer and what
// it was.
func (o *Orchestrator) Answered(index int) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	a, ok := o.answers[index]
	return a, ok
}

// Score counts committed answers that match the correct answer. Open
// questions compare case-insensitively on trimmed text.
func (o *Orchestrator) Score() (correct, answered int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, q := range o.questions {
		a, ok := o.answers[i]
		if !ok {
			continue
		}
		answered++
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(q.CorrectAnswer)) {
			correct++
		}
	}
	return correct, answered
}
