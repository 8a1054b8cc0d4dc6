package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete is returned when a sheet is submitted with unanswered questions.
	ErrIncomplete = errors.New("please answer all questions")
	// ErrInvalidOption is returned for a question or option index outside the quiz.
	ErrInvalidOption = errors.New("invalid option")
	// ErrAlreadyTaken is returned when a quiz that has results is taken again.
	ErrAlreadyTaken = errors.New("quiz already taken")
)

// Sheet collects one selected option per question before submission.
type Sheet struct {
	quiz  *Quiz
	picks map[int]int
}

// NewSheet starts an empty sheet. Quizzes with results cannot be retaken.
func NewSheet(q *Quiz) (*Sheet, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: no quiz", ErrMalformed)
	}
	if q.Taken() {
		return nil, ErrAlreadyTaken
	}
	return &Sheet{quiz: q, picks: make(map[int]int)}, nil
}

// Select records option as the answer to question, replacing any earlier pick.
func (s *Sheet) Select(question, option int) error {
	if question < 0 || question >= len(s.quiz.Questions) {
		return fmt.Errorf("%w: question %d of %d", ErrInvalidOption, question+1, len(s.quiz.Questions))
	}
	opts := s.quiz.Questions[question].Options
	if option < 0 || option >= len(opts) {
		return fmt.Errorf("%w: option %d of %d", ErrInvalidOption, option+1, len(opts))
	}
	s.picks[question] = option
	return nil
}

// Selected returns the pick for question, if any.
func (s *Sheet) Selected(question int) (int, bool) {
	v, ok := s.picks[question]
	return v, ok
}

// Remaining counts unanswered questions.
func (s *Sheet) Remaining() int {
	return len(s.quiz.Questions) - len(s.picks)
}

// Answers returns the picks in question order, the shape the submit endpoint takes.
func (s *Sheet) Answers() ([]int, error) {
	if n := s.Remaining(); n > 0 {
		return nil, fmt.Errorf("%w (%d remaining)", ErrIncomplete, n)
	}
	out := make([]int, len(s.quiz.Questions))
	for i := range out {
		out[i] = s.picks[i]
	}
	return out, nil
}
