package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fyp",
		Short:         "FYP CLI (fyp): sign in and browse final year projects",
		Long:          "fyp keeps an authenticated session with the final year project portal, refreshes it before the access token expires, and browses, searches and bookmarks projects through a short-lived local cache.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp(stderrWriter{cmd: rootCmd})
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.restore(cmd.Context())
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newSessionCmd(app),
		newAccountCmd(app),
		newProjectsCmd(app),
	)

	return rootCmd
}

// stderrWriter resolves the command's error stream on each write, so logs follow SetErr.
type stderrWriter struct {
	cmd *cobra.Command
}

var _ io.Writer = stderrWriter{}

func (w stderrWriter) Write(p []byte) (int, error) {
	return w.cmd.ErrOrStderr().Write(p)
}
