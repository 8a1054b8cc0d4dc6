package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cogni/internal/api"
	"github.com/p-n-ai/cogni/internal/curriculum"
	"github.com/p-n-ai/cogni/internal/quiz"
	"github.com/p-n-ai/cogni/internal/report"
)

func newReportCmd(get func() *app) *cobra.Command {
	var (
		output string
		from   string
	)

	cmd := &cobra.Command{
		Use:   "report [curriculum-id]",
		Short: "Export progress and quiz results to an XLSX workbook",
		Long: "Writes a workbook with a Progress sheet and, when the quiz was taken, a Quiz\n" +
			"sheet. With --from, the progress sheet is built from a YAML snapshot written by\n" +
			"`cogni show -o yaml` and no request is made.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()

			var (
				c   *curriculum.Curriculum
				q   *quiz.Quiz
				err error
			)
			switch {
			case from != "":
				if c, err = curriculum.LoadFile(from); err != nil {
					return err
				}
			case len(args) == 1:
				if _, err := a.requireUser(cmd.Context()); err != nil {
					return err
				}
				if c, err = a.client.FetchCurriculum(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("fetch curriculum: %w", err)
				}
				q, err = a.client.GetQuiz(cmd.Context(), args[0])
				if err != nil && !errors.Is(err, api.ErrNotFound) {
					return fmt.Errorf("fetch quiz: %w", err)
				}
			default:
				return fmt.Errorf("pass a curriculum id or --from <snapshot.yaml>")
			}

			if output == "" {
				output = c.ID + ".xlsx"
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			if err := report.WriteProgressWorkbook(f, c, q); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook path (default <id>.xlsx)")
	cmd.Flags().StringVar(&from, "from", "", "build the report from a YAML snapshot")
	return cmd
}

func newDashboardCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize your curricula, quizzes and credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			sess, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			if sess, err = a.refreshUser(cmd.Context(), sess); err != nil {
				return err
			}

			list, err := a.client.ListCurricula(cmd.Context(), curriculum.ListQuery{})
			if err != nil {
				return fmt.Errorf("list curricula: %w", err)
			}
			quizzes := make(map[string]*quiz.Quiz, len(list))
			for _, c := range list {
				q, err := a.client.GetQuiz(cmd.Context(), c.ID)
				if err != nil {
					continue
				}
				quizzes[c.ID] = q
			}
			s := report.Summarize(list, quizzes)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Welcome back, %s\n\n", displayName(sess.User))
			fmt.Fprintf(out, "Credits:          %d\n", sess.User.Credits)
			fmt.Fprintf(out, "Curricula:        %d (%d completed)\n", s.Curricula, s.Completed)
			fmt.Fprintf(out, "Quizzes taken:    %d/%d (%d%%)\n", s.QuizzesTaken, s.Curricula, s.QuizRate())
			fmt.Fprintf(out, "Average progress: %d%%\n", s.AverageProgress)

			if len(s.Recent) > 0 {
				fmt.Fprintln(out, "\nRecent curricula:")
				for _, c := range s.Recent {
					fmt.Fprintf(out, "  %s  %s\n", c.ID, c.Title)
				}
			}
			return nil
		},
	}
}
