package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cogni/internal/mentor"
)

func newMentorCmd(get func() *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "mentor",
		Short: "Chat with the AI mentor",
		Long: "Starts an interactive chat. Type /new for a fresh conversation and /quit\n" +
			"(or Ctrl-D) to leave. With --message, sends one message and prints the reply.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			chat, err := mentor.NewChat(a.client, mentor.NewMemoryStore())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if message != "" {
				reply, err := chat.Send(cmd.Context(), message)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, reply)
				return nil
			}

			fmt.Fprintln(out, "Ask your mentor anything. /new starts over, /quit exits.")
			p := newPrompter(cmd.InOrStdin(), out)
			for {
				line, err := p.ask("> ")
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(out)
					return nil
				}
				if err != nil {
					return err
				}

				switch strings.ToLower(line) {
				case "/quit", "/exit":
					return nil
				case "/new":
					if err := chat.Reset(); err != nil {
						return err
					}
					fmt.Fprintln(out, "Started a new conversation.")
					continue
				}

				reply, err := chat.Send(cmd.Context(), line)
				switch {
				case errors.Is(err, mentor.ErrEmptyMessage):
					continue
				case err != nil:
					fmt.Fprintln(out, mentor.ErrorReply)
				default:
					fmt.Fprintln(out, reply)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "send a single message")
	return cmd
}
