// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dravisapp/dravis-tui/internal/backend"
	"github.com/dravisapp/dravis-tui/internal/ui/styles"
)

// =============================================================================
// QUIZ CARD COMPONENT
// =============================================================================

// QuizCard renders one question. Before the user commits an answer the
// correct answer and explanation stay hidden; after commit both are
// revealed along with a right/wrong verdict.
type QuizCard struct {
	theme *styles.Theme
}

// NewQuizCard creates a quiz card.
func NewQuizCard(theme *styles.Theme) QuizCard {
	return QuizCard{theme: theme}
}

// Render draws question number n of total. cursor highlights an option
// for multiple choice; answer and answered describe the commit state.
func (q QuizCard) Render(width int, n, total int, question backend.QuizQuestion, cursor int, answer string, answered bool) string {
	var lines []string
	lines = append(lines,
		q.theme.QuizReveal.Render(fmt.Sprintf("Question %d of %d", n, total)),
		"",
		q.theme.QuizQuestion.Render(question.Question),
		"",
	)

	if len(question.Options) > 0 {
		for i, opt := range question.Options {
			label := fmt.Sprintf("%c) %s", 'A'+i, opt)
			switch {
			case answered && opt == question.CorrectAnswer:
				lines = append(lines, q.theme.QuizCorrect.Render("  "+label))
			case answered && opt == answer:
				lines = append(lines, q.theme.QuizIncorrect.Render("  "+label))
			case !answered && i == cursor:
				lines = append(lines, q.theme.QuizSelected.Render("> "+label))
			default:
				lines = append(lines, q.theme.QuizOption.Render("  "+label))
			}
		}
	} else if answered {
		lines = append(lines, q.theme.QuizOption.Render("Your answer: "+answer))
	}

	if answered {
		lines = append(lines, "")
		if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(question.CorrectAnswer)) {
			lines = append(lines, q.theme.QuizCorrect.Render("Correct!"))
		} else {
			lines = append(lines,
				q.theme.QuizIncorrect.Render("Not quite."),
				q.theme.QuizOption.Render("Answer: "+question.CorrectAnswer))
		}
		if question.Explanation != "" {
			lines = append(lines, q.theme.QuizReveal.Render(question.Explanation))
		}
	}

	return q.theme.QuizCard.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
