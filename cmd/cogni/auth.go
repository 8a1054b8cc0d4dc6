package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/cogni/internal/session"
)

func newLoginCmd(get func() *app) *cobra.Command {
	var req session.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			var err error
			if req.Email, err = p.value(req.Email, "Email: "); err != nil {
				return err
			}
			if req.Password, err = p.value(req.Password, "Password: "); err != nil {
				return err
			}

			sess, err := a.client.Login(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := a.sessions.Save(cmd.Context(), sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			a.client.SetSession(sess)

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%d credits)\n", displayName(sess.User), sess.User.Credits)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newRegisterCmd(get func() *app) *cobra.Command {
	var req session.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			var err error
			if req.DisplayName, err = p.value(req.DisplayName, "Name: "); err != nil {
				return err
			}
			if req.Email, err = p.value(req.Email, "Email: "); err != nil {
				return err
			}
			if req.Password, err = p.value(req.Password, "Password: "); err != nil {
				return err
			}

			sess, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			if err := a.sessions.Save(cmd.Context(), sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			a.client.SetSession(sess)

			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You have %d credits.\n", displayName(sess.User), sess.User.Credits)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newLogoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.sessions.Clear(cmd.Context()); err != nil {
				return err
			}
			a.client.SetSession(nil)
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and credit balance",
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

			u := sess.User
			account := "User account"
			if u.IsAdmin() {
				account = "Admin account"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", displayName(u), u.Email)
			fmt.Fprintf(out, "%s, %d credits\n", account, u.Credits)
			if u.GeminiAPIKey != "" {
				fmt.Fprintln(out, "Using your own Gemini API key")
			}
			return nil
		},
	}
}

func newProfileCmd(get func() *app) *cobra.Command {
	var req session.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your name or Gemini API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			sess, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			if req.Name == "" {
				req.Name = sess.User.Name
			}

			u, err := a.client.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			sess.User = u
			if err := a.sessions.Save(cmd.Context(), sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.GeminiAPIKey, "gemini-key", "", "Gemini API key used instead of platform credits")
	return cmd
}

func displayName(u session.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
