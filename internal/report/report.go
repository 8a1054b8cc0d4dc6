// Package report renders curriculum progress and quiz results as XLSX
// workbooks and computes dashboard totals.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/cogni/internal/curriculum"
	"github.com/p-n-ai/cogni/internal/progress"
	"github.com/p-n-ai/cogni/internal/quiz"
)

const (
	ProgressSheet = "Progress"
	QuizSheet     = "Quiz"
)

// WriteProgressWorkbook writes c's progress, and q's latest result when the
// quiz has been taken, as an XLSX workbook.
func WriteProgressWorkbook(w io.Writer, c *curriculum.Curriculum, q *quiz.Quiz) error {
	if c == nil {
		return fmt.Errorf("curriculum is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProgressSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeProgress(f, bold, c); err != nil {
		return err
	}
	if q.Taken() {
		if _, err := f.NewSheet(QuizSheet); err != nil {
			return fmt.Errorf("create quiz sheet: %w", err)
		}
		if err := writeQuiz(f, bold, q); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeProgress(f *excelize.File, bold int, c *curriculum.Curriculum) error {
	scheme := progress.DefaultScheme
	done := progress.FromWire(c.Progress)
	stats := progress.Compute(scheme, c.Shape(), done)

	rows := [][]any{
		{"Curriculum", c.Title},
		{"Difficulty", c.Difficulty.Label()},
		{"Completed", fmt.Sprintf("%d / %d", stats.Completed, stats.Total)},
		{"Progress", fmt.Sprintf("%d%%", stats.Percent)},
		{},
		{"Module", "Lesson", "Kind", "Done"},
	}
	header := len(rows)

	for m, mod := range c.Modules {
		rows = append(rows, []any{
			fmt.Sprintf("%d. %s", m+1, mod.Title), "", progress.KindModule.String(), yesNo(done[scheme.ModuleKey(m)]),
		})
		for l, lesson := range mod.Lessons {
			rows = append(rows, []any{
				"", fmt.Sprintf("%d.%d %s", m+1, l+1, lesson.Title), progress.KindLesson.String(), yesNo(done[scheme.LessonKey(m, l)]),
			})
		}
	}

	if err := setRows(f, ProgressSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(ProgressSheet, "A1", "A4", bold); err != nil {
		return fmt.Errorf("style progress sheet: %w", err)
	}
	if err := f.SetCellStyle(ProgressSheet, cell(1, header), cell(4, header), bold); err != nil {
		return fmt.Errorf("style progress sheet: %w", err)
	}
	return f.SetColWidth(ProgressSheet, "A", "B", 40)
}

func writeQuiz(f *excelize.File, bold int, q *quiz.Quiz) error {
	r, _ := q.Latest()
	n := len(q.Questions)

	topics := lo.Map(r.WeakTopics, func(w quiz.WeakTopic, _ int) string { return string(w) })

	rows := [][]any{
		{"Score", fmt.Sprintf("%.0f%%", r.Score)},
		{"Grade", quiz.Grade(r.Score)},
		{"Correct", r.Correct(n)},
		{"Incorrect", r.Incorrect(n)},
		{"Weak topics", strings.Join(topics, ", ")},
		{"Recommendations", r.Recommendations},
		{},
		{"#", "Question", "Your answer", "Correct answer", "Result"},
	}
	header := len(rows)

	for _, item := range quiz.Review(q, r) {
		result := "Incorrect"
		if item.IsCorrect {
			result = "Correct"
		}
		answer := item.ChosenText
		if !item.Answered {
			answer = "(no answer)"
		}
		rows = append(rows, []any{item.Index + 1, item.Question, answer, item.CorrectText, result})
	}

	if err := setRows(f, QuizSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(QuizSheet, "A1", "A6", bold); err != nil {
		return fmt.Errorf("style quiz sheet: %w", err)
	}
	if err := f.SetCellStyle(QuizSheet, cell(1, header), cell(5, header), bold); err != nil {
		return fmt.Errorf("style quiz sheet: %w", err)
	}
	return f.SetColWidth(QuizSheet, "B", "D", 40)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := f.SetSheetRow(sheet, cell(1, i+1), &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
