package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/fyp-cli/internal/domain"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Verify email addresses and recover passwords",
	}

	cmd.AddCommand(
		newMessageCmd("verify-email", "Confirm an email address with the emailed token", "token", "Verification token", app.session.VerifyEmail),
		newMessageCmd("forgot-password", "Request a password reset email", "email", "Account email", app.session.ForgotPassword),
		newMessageCmd("resend-verification", "Send the verification email again", "email", "Account email", app.session.ResendEmailVerification),
		newResetPasswordCmd(app),
	)

	return cmd
}

// newMessageCmd builds a command that sends one required flag to call and prints the returned message.
func newMessageCmd(use, short, flag, usage string, call func(context.Context, string) (string, error)) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			message, err := call(cmd.Context(), value)
			if err != nil {
				return asUserError(err)
			}
			return printMessage(cmd, message)
		},
	}

	cmd.Flags().StringVar(&value, flag, "", usage)
	_ = cmd.MarkFlagRequired(flag)

	return cmd
}

func newResetPasswordCmd(app *app) *cobra.Command {
	var reset domain.PasswordReset

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Choose a new password with the emailed reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			message, err := app.session.ResetPassword(cmd.Context(), reset)
			if err != nil {
				return asUserError(err)
			}
			return printMessage(cmd, message)
		},
	}

	cmd.Flags().StringVar(&reset.Token, "token", "", "Reset token")
	cmd.Flags().StringVar(&reset.NewPassword, "password", "", "New password")
	cmd.Flags().StringVar(&reset.ConfirmPassword, "confirm", "", "Repeat the new password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm")

	return cmd
}

func printMessage(cmd *cobra.Command, message string) error {
	if message == "" {
		message = "Done."
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), message)
	return err
}
