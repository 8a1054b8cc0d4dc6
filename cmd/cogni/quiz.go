package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cogni/internal/api"
	"github.com/p-n-ai/cogni/internal/quiz"
)

func newQuizCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate, take and review curriculum quizzes",
	}
	cmd.AddCommand(
		newQuizGenerateCmd(get),
		newQuizTakeCmd(get),
		newQuizResultsCmd(get),
		newQuizDeleteCmd(get),
	)
	return cmd
}

func newQuizGenerateCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <curriculum-id>",
		Short: fmt.Sprintf("Generate a quiz (%d credits)", quiz.GenerateCost),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			sess, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.User.CanAfford(quiz.GenerateCost) {
				return fmt.Errorf("insufficient credits: generating a quiz costs %d, you have %d",
					quiz.GenerateCost, sess.User.Credits)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Generating quiz...")
			q, err := a.client.GenerateQuiz(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("generate quiz: %w", err)
			}
			if _, err := a.refreshUser(cmd.Context(), sess); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not refresh credits: %v\n", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quiz ready with %d questions. Take it with `cogni quiz take %s`.\n",
				len(q.Questions), args[0])
			return nil
		},
	}
}

func newQuizTakeCmd(get func() *app) *cobra.Command {
	var answers string

	cmd := &cobra.Command{
		Use:   "take <curriculum-id>",
		Short: "Answer the quiz and submit it for grading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			id := args[0]
			out := cmd.OutOrStdout()

			q, err := a.client.GetQuiz(cmd.Context(), id)
			if errors.Is(err, api.ErrNotFound) {
				return fmt.Errorf("no quiz found, generate one with `cogni quiz generate %s`", id)
			}
			if err != nil {
				return fmt.Errorf("fetch quiz: %w", err)
			}

			sheet, err := quiz.NewSheet(q)
			if errors.Is(err, quiz.ErrAlreadyTaken) {
				fmt.Fprintln(out, "You already took this quiz.")
				printResults(out, q)
				return nil
			}
			if err != nil {
				return err
			}

			if answers != "" {
				err = fillSheet(sheet, answers)
			} else {
				err = askSheet(newPrompter(cmd.InOrStdin(), out), q, sheet)
			}
			if err != nil {
				return err
			}

			picks, err := sheet.Answers()
			if err != nil {
				return err
			}
			if err := a.client.SubmitQuiz(cmd.Context(), id, picks); err != nil {
				return fmt.Errorf("submit quiz: %w", err)
			}

			graded, err := a.client.GetQuiz(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fetch results: %w", err)
			}
			fmt.Fprintln(out, "Quiz submitted!")
			printResults(out, graded)
			return nil
		},
	}
	cmd.Flags().StringVar(&answers, "answers", "", "comma-separated 1-based options, one per question (skips prompts)")
	return cmd
}

// fillSheet applies answers like "2,1,3".
func fillSheet(sheet *quiz.Sheet, answers string) error {
	for i, part := range strings.Split(answers, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("answer %d: %q is not a number", i+1, part)
		}
		if err := sheet.Select(i, n-1); err != nil {
			return fmt.Errorf("answer %d: %w", i+1, err)
		}
	}
	return nil
}

func askSheet(p *prompter, q *quiz.Quiz, sheet *quiz.Sheet) error {
	total := len(q.Questions)
	for i, question := range q.Questions {
		fmt.Fprintf(p.out, "\nQuestion %d of %d\n%s\n", i+1, total, question.Question)
		for o, opt := range question.Options {
			fmt.Fprintf(p.out, "  %c) %s\n", 'A'+o, opt)
		}

		for {
			line, err := p.ask("Answer: ")
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			o, ok := parseOption(line, len(question.Options))
			if !ok {
				fmt.Fprintf(p.out, "Pick A-%c or 1-%d\n", 'A'+len(question.Options)-1, len(question.Options))
				continue
			}
			if err := sheet.Select(i, o); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

// parseOption accepts a letter (A, b) or a 1-based number.
func parseOption(s string, n int) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && c < 'a'+byte(n) {
			return int(c - 'a'), true
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v - 1, true
}

func newQuizResultsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "results <curriculum-id>",
		Short: "Show the latest quiz result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			q, err := a.client.GetQuiz(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch quiz: %w", err)
			}
			if !q.Taken() {
				return fmt.Errorf("no results yet, take the quiz with `cogni quiz take %s`", args[0])
			}
			printResults(cmd.OutOrStdout(), q)
			return nil
		},
	}
}

func printResults(w io.Writer, q *quiz.Quiz) {
	r, ok := q.Latest()
	if !ok {
		return
	}
	n := len(q.Questions)

	fmt.Fprintf(w, "\nScore: %.0f%% · %s\n", r.Score, quiz.Grade(r.Score))
	fmt.Fprintf(w, "Correct: %d  Incorrect: %d\n\n", r.Correct(n), r.Incorrect(n))

	for _, item := range quiz.Review(q, r) {
		mark := "✗"
		if item.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %d. %s\n", mark, item.Index+1, item.Question)
		switch {
		case !item.Answered:
			fmt.Fprintf(w, "    No answer · correct: %s\n", item.CorrectText)
		case item.IsCorrect:
			fmt.Fprintf(w, "    %s\n", item.ChosenText)
		default:
			fmt.Fprintf(w, "    Your answer: %s · correct: %s\n", item.ChosenText, item.CorrectText)
		}
	}

	if len(r.WeakTopics) > 0 {
		topics := make([]string, len(r.WeakTopics))
		for i, t := range r.WeakTopics {
			topics[i] = string(t)
		}
		fmt.Fprintf(w, "\nAreas to review: %s\n", strings.Join(topics, ", "))
	}
	if r.Recommendations != "" {
		fmt.Fprintf(w, "\nRecommendations: %s\n", r.Recommendations)
	}
}

func newQuizDeleteCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <curriculum-id>",
		Short: "Delete the quiz and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.DeleteQuiz(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete quiz: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Quiz deleted")
			return nil
		},
	}
}
