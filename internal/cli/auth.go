package cli

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kidwatch/kidwatch/internal/backend"
)

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

			if password == "" {
				fmt.Fprint(app.out, "Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(app.out)
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = string(raw)
			}

			user, err := app.client.SignIn(cmd.Context(), email, password)
			if err != nil {
				var statusErr *backend.StatusError
				if errors.As(err, &statusErr) && statusErr.Status == 401 {
					return errors.New("invalid email or password")
				}
				return err
			}

			fmt.Fprintf(app.out, "Signed in as %s (%s)\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sessions.Logout(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			fmt.Fprintln(app.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.sessions.IsAuthenticated() {
				return errors.New("not signed in")
			}
			user := app.sessions.User()
			fmt.Fprintf(app.out, "%s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(app.out, "Role: %s\n", user.Role)
			if len(user.AllowedDevices) > 0 {
				fmt.Fprintf(app.out, "Devices: %s\n", strings.Join(user.AllowedDevices, ", "))
			}
			return nil
		},
	}
}

func newForgotPasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.client.ForgotPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "If the account exists, a reset email has been sent")
			return nil
		},
	}
}

func newResetPasswordCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password with a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(app.out, "New password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(app.out)
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = string(raw)
			}

			if err := app.client.ResetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Password updated, sign in with your new password")
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "new password (prompted if omitted)")
	return cmd
}
