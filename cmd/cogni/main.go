// Command cogni is a terminal client for the cogni learning platform.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cogni/internal/platform/config"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process exit code, so deferred
// cleanup finishes before main exits.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	slog.SetDefault(newLogger(cfg.Log, os.Stderr))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	root, closeApp := newRootCmd(cfg, func(ctx context.Context) (*app, error) {
		return newApp(ctx, cfg)
	})
	defer closeApp()

	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// newLogger builds the slog logger described by cfg. Unknown levels fall
// back to warn.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

const skipAppAnnotation = "cogni/skip-app"

// newRootCmd assembles the command tree. build is called once per run, before
// any command that needs the API client. The returned func closes the built
// app and must be called whether or not the command failed.
func newRootCmd(cfg *config.Config, build func(context.Context) (*app, error)) (*cobra.Command, func()) {
	var current *app
	get := func() *app { return current }
	closeApp := func() {
		if current != nil {
			current.Close()
			current = nil
		}
	}

	root := &cobra.Command{
		Use:          "cogni",
		Short:        "Study AI-generated curricula from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipAppAnnotation] == "true" {
				return nil
			}
			a, err := build(cmd.Context())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
	}

	root.AddCommand(
		newLoginCmd(get),
		newRegisterCmd(get),
		newLogoutCmd(get),
		newWhoamiCmd(get),
		newProfileCmd(get),
		newListCmd(get),
		newCreateCmd(get),
		newShowCmd(get),
		newRenameCmd(get),
		newDeleteCmd(get),
		newToggleCmd(get),
		newHistoryCmd(get),
		newQuizCmd(get),
		newMentorCmd(get),
		newReportCmd(get),
		newDashboardCmd(get),
		newDoctorCmd(cfg),
	)
	return root, closeApp
}
