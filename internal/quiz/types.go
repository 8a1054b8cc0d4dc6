// Package quiz models generated quizzes, answer sheets and graded results.
package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// GenerateCost is the credit price of generating a quiz.
const GenerateCost = 5

// Quiz is the multiple-choice quiz attached to a curriculum.
type Quiz struct {
	ID           string     `json:"id,omitempty"`
	CurriculumID string     `json:"curriculumId,omitempty"`
	Questions    []Question `json:"questions"`
	Results      []Result   `json:"results,omitempty"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
}

// Question is one multiple-choice question. CorrectAnswer indexes Options.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Result is a graded submission. The server computes every field.
type Result struct {
	Score           float64     `json:"score"`
	CorrectCount    int         `json:"correctCount,omitempty"`
	IncorrectCount  int         `json:"incorrectCount,omitempty"`
	Answers         Answers     `json:"answers,omitempty"`
	WeakTopics      []WeakTopic `json:"weakTopics,omitempty"`
	Recommendations string      `json:"recommendations,omitempty"`
	CreatedAt       time.Time   `json:"createdAt,omitempty"`
}

// Taken reports whether the quiz has been submitted at least once.
func (q *Quiz) Taken() bool {
	return q != nil && len(q.Results) > 0
}

// Latest returns the most recent result. Results arrive newest first.
func (q *Quiz) Latest() (Result, bool) {
	if !q.Taken() {
		return Result{}, false
	}
	return q.Results[0], true
}

// Correct returns the correct count, estimating it from the score when the
// server did not send one.
func (r Result) Correct(questions int) int {
	if r.CorrectCount > 0 {
		return r.CorrectCount
	}
	return r.estimated(questions)
}

// Incorrect returns the incorrect count, estimating it from the score when
// the server did not send one.
func (r Result) Incorrect(questions int) int {
	if r.IncorrectCount > 0 {
		return r.IncorrectCount
	}
	return questions - r.estimated(questions)
}

func (r Result) estimated(questions int) int {
	return int(math.Round(r.Score / 100 * float64(questions)))
}

// Grade returns the headline shown with a score.
func Grade(score float64) string {
	switch {
	case score >= 80:
		return "Excellent work!"
	case score >= 60:
		return "Good effort!"
	default:
		return "Keep practicing!"
	}
}

// Answers maps a question index to the chosen option index.
type Answers map[int]int

// UnmarshalJSON accepts both an array of option indices and an object keyed
// by question index. Null array entries are unanswered questions.
func (a *Answers) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	out := Answers{}

	switch {
	case bytes.Equal(data, []byte("null")):
		*a = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []*int
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decode answers: %w", err)
		}
		for i, v := range list {
			if v != nil {
				out[i] = *v
			}
		}
	default:
		var obj map[string]*int
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode answers: %w", err)
		}
		for k, v := range obj {
			i, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("decode answers: question index %q: %w", k, err)
			}
			if v != nil {
				out[i] = *v
			}
		}
	}

	*a = out
	return nil
}

// WeakTopic is a topic the grader flagged for review.
type WeakTopic string

// UnmarshalJSON accepts either "topic" or {"topic": "..."}.
func (w *WeakTopic) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = WeakTopic(s)
		return nil
	}

	var obj struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode weak topic: %w", err)
	}
	*w = WeakTopic(obj.Topic)
	return nil
}
