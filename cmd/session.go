package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/fyp-cli/internal/adapters/httpapi"
	"github.com/bnema/fyp-cli/internal/adapters/render"
	"github.com/bnema/fyp-cli/internal/application"
	"github.com/bnema/fyp-cli/internal/domain"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and maintain the stored session",
	}

	cmd.AddCommand(newSessionStatusCmd(app), newSessionRefreshCmd(app), newSessionKeepaliveCmd(app))

	return cmd
}

type sessionStatusOutput struct {
	Authenticated bool         `json:"authenticated"`
	Expired       bool         `json:"expired"`
	User          *domain.User `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	RefreshAt     *time.Time   `json:"refresh_at,omitempty"`
	IssuedAt      *time.Time   `json:"issued_at,omitempty"`
	Token         *tokenOutput `json:"token,omitempty"`
}

// tokenOutput describes the access token claims. The token itself is never printed.
type tokenOutput struct {
	Subject   domain.UserID `json:"subject"`
	Email     string        `json:"email,omitempty"`
	Role      domain.Role   `json:"role,omitempty"`
	IssuedAt  *time.Time    `json:"issued_at,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

func newSessionStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user and token lifetime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := app.session.Snapshot()
			if asJSON {
				return writeJSON(cmd, newSessionStatusOutput(state, app.session.IsExpired()))
			}

			rendered, err := app.renderSession(state, render.SessionOptions{Now: app.now()})
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newSessionStatusOutput(state application.SessionState, expired bool) sessionStatusOutput {
	out := sessionStatusOutput{
		Authenticated: state.IsAuthenticated,
		Expired:       expired,
		User:          state.User,
		ExpiresAt:     timePtr(state.ExpiresAt),
		RefreshAt:     timePtr(state.RefreshAt),
		IssuedAt:      timePtr(state.IssuedAt),
	}
	if state.Credentials == nil {
		return out
	}

	info, err := httpapi.ParseAccessTokenClaims(state.Credentials.AccessToken)
	if err != nil {
		return out
	}
	out.Token = &tokenOutput{
		Subject:   info.Subject,
		Email:     info.Email,
		Role:      info.Role,
		IssuedAt:  timePtr(info.IssuedAt),
		ExpiresAt: timePtr(info.ExpiresAt),
	}
	return out
}

func newSessionRefreshCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Refresh(cmd.Context()); err != nil {
				return asUserError(err)
			}

			state := app.session.Snapshot()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Session refreshed, next refresh at %s\n", state.RefreshAt.Format("15:04:05"))
			return err
		},
	}
}

// newSessionKeepaliveCmd blocks and lets the scheduled refresh keep the session alive until interrupted.
func newSessionKeepaliveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keepalive",
		Short: "Keep the session refreshed until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.currentUser(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			initial := app.session.Snapshot()
			lastRefresh := initial.RefreshAt
			_, _ = fmt.Fprintf(out, "Keeping session alive, next refresh at %s\n", initial.RefreshAt.Format("15:04:05"))

			lost := make(chan error, 1)
			unsubscribe := app.session.Subscribe(func(state application.SessionState) {
				switch {
				case !state.IsAuthenticated && state.Err != nil:
					select {
					case lost <- state.Err:
					default:
					}
				case !state.RefreshAt.IsZero() && !state.RefreshAt.Equal(lastRefresh):
					lastRefresh = state.RefreshAt
					_, _ = fmt.Fprintf(out, "Session refreshed, next refresh at %s\n", state.RefreshAt.Format("15:04:05"))
				}
			})
			defer unsubscribe()

			select {
			case <-cmd.Context().Done():
				return nil
			case err := <-lost:
				return asUserError(err)
			}
		},
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
