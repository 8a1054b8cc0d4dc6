package report

import (
	"math"

	"github.com/samber/lo"

	"github.com/p-n-ai/cogni/internal/curriculum"
	"github.com/p-n-ai/cogni/internal/progress"
	"github.com/p-n-ai/cogni/internal/quiz"
)

// Summary holds the dashboard totals.
type Summary struct {
	Curricula       int
	QuizzesTaken    int
	Completed       int
	AverageProgress int
	Recent          []curriculum.Curriculum
}

const recentLimit = 5

// Summarize computes dashboard totals. quizzes maps curriculum id to its
// quiz; curricula without one may be absent.
func Summarize(curricula []curriculum.Curriculum, quizzes map[string]*quiz.Quiz) Summary {
	percents := lo.Map(curricula, func(c curriculum.Curriculum, _ int) int {
		return progress.Percentage(&c)
	})

	s := Summary{
		Curricula: len(curricula),
		QuizzesTaken: lo.CountBy(curricula, func(c curriculum.Curriculum) bool {
			return quizzes[c.ID].Taken()
		}),
		Completed: lo.CountBy(percents, func(p int) bool { return p == 100 }),
	}
	if len(percents) > 0 {
		s.AverageProgress = int(math.Round(float64(lo.Sum(percents)) / float64(len(percents))))
	}

	recent := curriculum.Filter(curricula, curriculum.ListQuery{Order: curriculum.Newest})
	s.Recent = recent[:min(recentLimit, len(recent))]
	return s
}

// QuizRate is the share of curricula with a taken quiz, 0-100.
func (s Summary) QuizRate() int {
	if s.Curricula == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.QuizzesTaken) / float64(s.Curricula)))
}
