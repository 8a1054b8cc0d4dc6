package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/cogni/internal/curriculum"
	"github.com/p-n-ai/cogni/internal/quiz"
	"github.com/p-n-ai/cogni/internal/report"
)

func sampleCurriculum() *curriculum.Curriculum {
	return &curriculum.Curriculum{
		ID:         "cur-1",
		Title:      "Algebra",
		Difficulty: curriculum.Intermediate,
		Modules: []curriculum.Module{
			{Title: "Variables", Lessons: []curriculum.Lesson{{Title: "Letters"}, {Title: "Expressions"}}},
			{Title: "Equations", Lessons: []curriculum.Lesson{{Title: "Balancing"}}},
		},
		Progress: map[string]bool{"module-0": true, "module-0-lesson-1": true},
	}
}

func takenQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		Questions: []quiz.Question{
			{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1},
			{Question: "3+3?", Options: []string{"6", "7"}, CorrectAnswer: 0},
		},
		Results: []quiz.Result{{
			Score:           50,
			Answers:         quiz.Answers{0: 1, 1: 1},
			WeakTopics:      []quiz.WeakTopic{"Addition"},
			Recommendations: "Practice sums.",
		}},
	}
}

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteProgressWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteProgressWorkbook(&buf, sampleCurriculum(), takenQuiz()); err != nil {
		t.Fatalf("WriteProgressWorkbook() error = %v", err)
	}
	f := open(t, &buf)

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != report.ProgressSheet || sheets[1] != report.QuizSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	tests := []struct {
		sheet, cell, want string
	}{
		{report.ProgressSheet, "B1", "Algebra"},
		{report.ProgressSheet, "B2", "Intermediate"},
		{report.ProgressSheet, "B3", "2 / 5"},
		{report.ProgressSheet, "B4", "40%"},
		{report.ProgressSheet, "A7", "1. Variables"},
		{report.ProgressSheet, "D7", "yes"},
		{report.ProgressSheet, "D8", "no"},
		{report.ProgressSheet, "D9", "yes"},
		{report.ProgressSheet, "C10", "module"},
		{report.QuizSheet, "B1", "50%"},
		{report.QuizSheet, "B2", "Keep practicing!"},
		{report.QuizSheet, "B5", "Addition"},
		{report.QuizSheet, "E9", "Correct"},
		{report.QuizSheet, "E10", "Incorrect"},
		{report.QuizSheet, "D10", "6"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) error = %v", tt.sheet, tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}
}

func TestWriteProgressWorkbook_NoQuiz(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteProgressWorkbook(&buf, sampleCurriculum(), nil); err != nil {
		t.Fatalf("WriteProgressWorkbook() error = %v", err)
	}
	f := open(t, &buf)
	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("sheets = %v, want progress only", sheets)
	}
}

func TestWriteProgressWorkbook_NilCurriculum(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteProgressWorkbook(&buf, nil, nil); err == nil {
		t.Fatal("expected error for nil curriculum")
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	full := sampleCurriculum()
	full.ID = "cur-2"
	full.CreatedAt = now
	full.Progress = map[string]bool{
		"module-0": true, "module-0-lesson-0": true, "module-0-lesson-1": true,
		"module-1": true, "module-1-lesson-0": true,
	}
	partial := sampleCurriculum()
	partial.CreatedAt = now.Add(-time.Hour)

	list := []curriculum.Curriculum{*partial, *full}
	quizzes := map[string]*quiz.Quiz{"cur-1": takenQuiz(), "cur-2": {Questions: takenQuiz().Questions}}

	s := report.Summarize(list, quizzes)
	if s.Curricula != 2 || s.QuizzesTaken != 1 || s.Completed != 1 {
		t.Errorf("Summarize() = %+v", s)
	}
	if s.AverageProgress != 70 {
		t.Errorf("AverageProgress = %d, want 70", s.AverageProgress)
	}
	if s.QuizRate() != 50 {
		t.Errorf("QuizRate() = %d, want 50", s.QuizRate())
	}
	if len(s.Recent) != 2 || s.Recent[0].ID != "cur-2" {
		t.Errorf("Recent = %v, want newest first", s.Recent)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := report.Summarize(nil, nil)
	if s.Curricula != 0 || s.AverageProgress != 0 || s.QuizRate() != 0 || len(s.Recent) != 0 {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}
