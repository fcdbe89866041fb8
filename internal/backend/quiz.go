// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "context"

// Quiz generation limits. The backend caps question batches; the client
// clamps rather than erroring so the UI never has to explain a 422.
const (
	MinQuizQuestions     = 5
	MaxQuizQuestions     = 10
	DefaultQuizQuestions = 5
)

// GenerateQuiz asks the backend to produce a question set for a topic.
// NumQuestions is clamped to the supported range; zero means the default.
func (c *Client) GenerateQuiz(ctx context.Context, params QuizParams) ([]QuizQuestion, error) {
	n := params.NumQuestions
	if n == 0 {
		n = DefaultQuizQuestions
	}
	if n < MinQuizQuestions {
		n = MinQuizQuestions
	}
	if n > MaxQuizQuestions {
		n = MaxQuizQuestions
	}

	req := quizRequest{
		Topic:        params.Topic,
		NumQuestions: n,
		Difficulty:   params.Difficulty,
		QuizType:     params.QuizType,
		UseDocuments: params.UseDocuments,
	}

	var resp quizResponse
	if err := c.postJSON(ctx, "/api/quiz", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &ClientError{Type: ErrTypeSemantic, Message: "quiz generation failed"}
	}

	return resp.Quiz.Questions, nil
}
