package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/at-ishikawa/notesync/internal/auth"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errAuthNotConfigured = errors.New("auth.url is not configured")

func newLoginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := newAuthClient(cfg)
			if client == nil {
				return errAuthNotConfigured
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				if email, err = prompt(cmd, reader, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				password = os.Getenv("NOTESYNC_PASSWORD")
			}
			if password == "" {
				if password, err = prompt(cmd, reader, "Password: "); err != nil {
					return err
				}
			}

			session, err := client.SignIn(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("client.SignIn > %w", err)
			}
			if err := newFileProvider(cfg).Save(session); err != nil {
				return fmt.Errorf("provider.Save > %w", err)
			}
			_, err = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", session.Email)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (defaults to NOTESYNC_PASSWORD or a prompt)")
	return cmd
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	if _, err := fmt.Fprint(cmd.ErrOrStderr(), label); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reader.ReadString > %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			provider := newFileProvider(cfg)
			session, err := provider.CurrentSession(cmd.Context())
			if err != nil {
				return fmt.Errorf("provider.CurrentSession > %w", err)
			}
			if session != nil {
				if client := newAuthClient(cfg); client != nil {
					if err := client.SignOut(cmd.Context(), session.AccessToken); err != nil {
						// The local session is removed regardless.
						cmd.PrintErrf("remote sign out failed: %v\n", err)
					}
				}
			}
			if err := provider.Remove(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.API.AccessToken != "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Using the access token from the configuration")
				return err
			}
			session, err := newFileProvider(cfg).CurrentSession(cmd.Context())
			if err != nil {
				return fmt.Errorf("provider.CurrentSession > %w", err)
			}
			if session == nil {
				return describe(auth.ErrNoSession, "")
			}
			email := session.Email
			if email == "" {
				email = "(unknown email)"
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, email); err != nil {
				return err
			}
			if !session.ExpiresAt.IsZero() {
				_, err = fmt.Fprintf(out, "session expires %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return err
		},
	}
}
