package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/fyp-cli/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var email string
	var password string
	var rememberMe bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := app.session.Authenticate(cmd.Context(), email, password, rememberMe)
			if err != nil {
				return asUserError(err)
			}
			if err := app.projects.LoadLibrary(cmd.Context(), state.User.ID); err != nil {
				app.logger.Warn("library unavailable after sign in", zap.Error(err))
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", userTitle(*state.User))
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&rememberMe, "remember-me", false, "Ask the backend for a long-lived refresh token")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCmd(app *app) *cobra.Command {
	var registration domain.Registration
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registration.Role = domain.Role(role)
			state, err := app.session.Register(cmd.Context(), registration)
			if err != nil {
				return asUserError(err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Registered %s\n", userTitle(*state.User))
			if !state.User.EmailVerified {
				_, _ = fmt.Fprintln(out, "Check your inbox to verify your email address.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&registration.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&registration.Password, "password", "", "Account password")
	cmd.Flags().StringVar(&registration.ConfirmPassword, "confirm-password", "", "Repeat the password")
	cmd.Flags().StringVar(&registration.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleStudent), "Role (student|supervisor|admin)")
	cmd.Flags().StringVar(&registration.StudentID, "student-id", "", "Student number")
	cmd.Flags().StringVar(&registration.Department, "department", "", "Department")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm-password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all {
				app.session.LogoutFromAllDevices(cmd.Context())
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out from all devices")
				return err
			}

			app.session.Logout(cmd.Context())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Revoke every session of this account")

	return cmd
}

func userTitle(user domain.User) string {
	if user.Name == "" {
		return user.Email
	}
	return fmt.Sprintf("%s <%s>", user.Name, user.Email)
}
