package api

import (
	"context"
	"net/http"

	"github.com/p-n-ai/cogni/internal/quiz"
)

func quizPath(curriculumID string) string {
	return curriculumPath(curriculumID) + "/quiz"
}

// GetQuiz returns the curriculum's quiz, results newest first.
func (c *Client) GetQuiz(ctx context.Context, curriculumID string) (*quiz.Quiz, error) {
	data, err := c.do(ctx, http.MethodGet, quizPath(curriculumID), nil)
	if err != nil {
		return nil, err
	}
	return quiz.Decode(data)
}

// GenerateQuiz creates a quiz for the curriculum.
func (c *Client) GenerateQuiz(ctx context.Context, curriculumID string) (*quiz.Quiz, error) {
	data, err := c.do(ctx, http.MethodPost, quizPath(curriculumID)+"/generate", nil)
	if err != nil {
		return nil, err
	}
	return quiz.Decode(data)
}

type submitPayload struct {
	Answers []int `json:"answers"`
}

// SubmitQuiz sends one option index per question. Grading happens on the
// server; fetch the quiz again to read the result.
func (c *Client) SubmitQuiz(ctx context.Context, curriculumID string, answers []int) error {
	return c.call(ctx, http.MethodPost, quizPath(curriculumID)+"/submit", submitPayload{Answers: answers}, nil)
}

// DeleteQuiz removes the quiz and its results.
func (c *Client) DeleteQuiz(ctx context.Context, curriculumID string) error {
	return c.call(ctx, http.MethodDelete, quizPath(curriculumID), nil, nil)
}
