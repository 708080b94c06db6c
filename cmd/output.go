package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/fyp-cli/internal/domain"
)

// userError shows the user-facing message for err while keeping err in the chain.
type userError struct {
	err error
}

func (e userError) Error() string {
	return domain.UserMessage(e.err)
}

func (e userError) Unwrap() error {
	return e.err
}

func asUserError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return userError{err: err}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRendered(cmd *cobra.Command, rendered string, err error) error {
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// restore loads the persisted session and, when signed in, the user's local library.
func (a *app) restore(ctx context.Context) error {
	if err := a.session.Initialize(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	state := a.session.Snapshot()
	if !state.IsAuthenticated || state.User == nil {
		return nil
	}
	a.session.TouchActivity()
	if err := a.projects.LoadLibrary(ctx, state.User.ID); err != nil {
		a.logger.Warn("library unavailable, continuing without bookmarks", zap.Error(err))
	}
	return nil
}

func (a *app) currentUser() (domain.User, error) {
	state := a.session.Snapshot()
	if !state.IsAuthenticated || state.User == nil {
		return domain.User{}, userError{err: domain.ErrUnauthenticated}
	}
	return *state.User, nil
}

// withFreshToken runs call and, when the backend rejects the access token, refreshes the session once
// and retries. A restored session only estimates its expiry, so the token may already be stale.
func (a *app) withFreshToken(ctx context.Context, call func() error) error {
	err := call()
	if err == nil || !errors.Is(err, domain.ErrInvalidCredentials) || a.session.AccessToken() == "" {
		return err
	}

	a.logger.Debug("access token rejected, refreshing session")
	if refreshErr := a.session.Refresh(ctx); refreshErr != nil {
		return refreshErr
	}
	return call()
}
