package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cogni/internal/curriculum"
	"github.com/p-n-ai/cogni/internal/progress"
)

func newListCmd(get func() *app) *cobra.Command {
	var (
		q     curriculum.ListQuery
		order string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your curricula",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			switch order {
			case "newest", "":
				q.Order = curriculum.Newest
			case "oldest":
				q.Order = curriculum.Oldest
			default:
				return fmt.Errorf("--order must be newest or oldest, got %q", order)
			}

			all, err := a.client.ListCurricula(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("list curricula: %w", err)
			}
			shown := curriculum.Filter(all, q)

			out := cmd.OutOrStdout()
			if len(shown) == 0 {
				if len(all) == 0 {
					fmt.Fprintln(out, "No curricula yet. Create one with `cogni create`.")
				} else {
					fmt.Fprintln(out, "No matching curricula")
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDIFFICULTY\tMODULES\tPROGRESS")
			for _, c := range shown {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d%%\n", c.ID, c.Title, c.Difficulty.Label(), len(c.Modules), progress.Percentage(&c))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Showing %d of %d curricula\n", len(shown), len(all))
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "match title or topic")
	cmd.Flags().StringVar(&q.Difficulty, "difficulty", "all", "beginner, intermediate, advanced or all")
	cmd.Flags().StringVar(&order, "order", "newest", "newest or oldest")
	return cmd
}

func newCreateCmd(get func() *app) *cobra.Command {
	var (
		req        curriculum.CreateRequest
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Generate a curriculum (%d credits)", curriculum.CreateCost),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			sess, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			if !sess.User.CanAfford(curriculum.CreateCost) {
				return fmt.Errorf("insufficient credits: creating a curriculum costs %d, you have %d",
					curriculum.CreateCost, sess.User.Credits)
			}

			if difficulty != "" {
				d, err := curriculum.ParseDifficulty(difficulty)
				if err != nil {
					return err
				}
				req.Difficulty = d
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Generating curriculum, this can take a minute...")
			c, err := a.client.CreateCurriculum(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create curriculum: %w", err)
			}
			if _, err := a.refreshUser(cmd.Context(), sess); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not refresh credits: %v\n", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s) with %d modules and %d lessons\n",
				c.Title, c.ID, len(c.Modules), c.LessonCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Topic, "topic", "", "what to learn")
	cmd.Flags().StringVar(&difficulty, "difficulty", "beginner", "beginner, intermediate or advanced")
	cmd.Flags().StringVar(&req.Depth, "depth", "moderate", "how deep the curriculum should go")
	return cmd
}

func newShowCmd(get func() *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <curriculum-id>",
		Short: "Show a curriculum and your progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			c, err := a.client.FetchCurriculum(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch curriculum: %w", err)
			}

			switch format {
			case "yaml":
				return curriculum.WriteYAML(cmd.OutOrStdout(), c)
			case "text":
				printCurriculum(cmd.OutOrStdout(), c)
				return nil
			default:
				return fmt.Errorf("--output must be text or yaml, got %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "text or yaml")
	return cmd
}

func printCurriculum(w io.Writer, c *curriculum.Curriculum) {
	scheme := progress.DefaultScheme
	done := progress.FromWire(c.Progress)
	stats := progress.Compute(scheme, c.Shape(), done)

	fmt.Fprintf(w, "%s\n", c.Title)
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n", c.Description)
	}
	fmt.Fprintf(w, "%s · %d modules · %d lessons · %d%% complete\n\n",
		c.Difficulty.Label(), len(c.Modules), c.LessonCount(), stats.Percent)

	for m, mod := range c.Modules {
		fmt.Fprintf(w, "%s %d. %s\n", checkbox(done[scheme.ModuleKey(m)]), m+1, mod.Title)
		for l, lesson := range mod.Lessons {
			fmt.Fprintf(w, "    %s %d.%d %s\n", checkbox(done[scheme.LessonKey(m, l)]), m+1, l+1, lesson.Title)
		}
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func newRenameCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <curriculum-id> <title>",
		Short: "Rename a curriculum",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			c, err := a.client.FetchCurriculum(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch curriculum: %w", err)
			}

			title, changed := curriculum.NormalizeTitle(c.Title, args[1])
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "Title unchanged")
				return nil
			}
			if err := a.client.RenameCurriculum(cmd.Context(), c.ID, title); err != nil {
				return fmt.Errorf("rename curriculum: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %q\n", title)
			return nil
		},
	}
}

func newDeleteCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <curriculum-id>",
		Short: "Delete a curriculum and its quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.DeleteCurriculum(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete curriculum: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Curriculum deleted")
			return nil
		},
	}
}

func newToggleCmd(get func() *app) *cobra.Command {
	var guard bool

	cmd := &cobra.Command{
		Use:   "toggle <curriculum-id> <module> [lesson]",
		Short: "Mark a module or lesson complete or incomplete",
		Long: "Toggles completion of a module, or of a lesson within it. Numbers are 1-based,\n" +
			"as printed by `cogni show`. The change is shown immediately and saved in the\n" +
			"background; if saving fails it is undone.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}

			m, err := position(args[1], "module")
			if err != nil {
				return err
			}
			l := -1
			if len(args) == 3 {
				if l, err = position(args[2], "lesson"); err != nil {
					return err
				}
			}

			var reverted *progress.Revert
			opts := []progress.Option{
				progress.WithEventLogger(a.journal),
				progress.WithBaseContext(cmd.Context()),
				progress.OnRevert(func(r progress.Revert) { reverted = &r }),
			}
			if guard {
				opts = append(opts, progress.WithStaleRollbackGuard())
			}

			store, c, err := progress.Open(cmd.Context(), a.client, args[0], opts...)
			if err != nil {
				return err
			}

			shape := c.Shape()
			var key progress.Key
			switch {
			case !shape.HasModule(m):
				return fmt.Errorf("module %d does not exist (curriculum has %d)", m+1, shape.Modules())
			case l < 0:
				key = store.Scheme().ModuleKey(m)
			case !shape.HasLesson(m, l):
				return fmt.Errorf("lesson %d.%d does not exist (module has %d lessons)", m+1, l+1, shape[m])
			default:
				key = store.Scheme().LessonKey(m, l)
			}

			next := store.Toggle(key)
			state := "incomplete"
			if next[key] {
				state = "complete"
			}
			out := cmd.OutOrStdout()
			pct := progress.Compute(store.Scheme(), shape, next).Percent
			fmt.Fprintf(out, "Marked %s %s · %d%% complete\n", label(m, l), state, pct)

			store.Wait()
			if reverted != nil {
				fmt.Fprintf(out, "Could not save progress, change undone · %d%% complete\n", store.CompletionPercentage())
				return fmt.Errorf("save progress: %w", reverted.Err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&guard, "keep-newer", false, "do not undo this change if a later change was already saved")
	return cmd
}

// position parses a 1-based number from the command line into an index.
func position(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", what, s)
	}
	return n - 1, nil
}

func label(m, l int) string {
	if l < 0 {
		return fmt.Sprintf("module %d", m+1)
	}
	return fmt.Sprintf("lesson %d.%d", m+1, l+1)
}

func newHistoryCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <curriculum-id>",
		Short: "Show journaled progress changes (needs COGNI_JOURNAL_ENABLED)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if a.history == nil {
				return fmt.Errorf("the progress journal is disabled, set COGNI_JOURNAL_ENABLED=true and COGNI_DATABASE_URL")
			}
			events, err := a.history.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No journaled changes")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tEVENT\tKEY\tSEQ")
			for _, e := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Type, e.Key, e.Seq)
			}
			return tw.Flush()
		},
	}
}
