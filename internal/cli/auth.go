package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shopadmin/internal/session"
	"github.com/example/shopadmin/internal/validation"
)

// NewLoginCommand authenticates against the API and persists the session.
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate and store credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			if err := validation.ValidateEmail(email); err != nil {
				return err
			}

			app, err := NewApp()
			if err != nil {
				return err
			}

			if err := app.Session.Login(cmd.Context(), email); err != nil {
				return fmt.Errorf("login failed: %s", app.Session.Err())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", app.Session.Email())
			return nil
		},
	}
}

// NewLogoutCommand clears the persisted session.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}

			// Restore first so the gateway token is cleared too; a missing
			// session means there is nothing to log out of.
			if err := app.Session.RestoreFromStorage(); err != nil && !errors.Is(err, session.ErrNoCredentials) && !errors.Is(err, session.ErrExpiredToken) {
				return err
			}

			if err := app.Session.Logout(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// NewWhoamiCommand shows the persisted session.
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}

			if err := app.Session.RestoreFromStorage(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", app.Session.Email(), app.Session.State())
			return nil
		},
	}
}
