package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fyp-cli/internal/domain"
)

func TestProjectSpinnerFinalFrame(t *testing.T) {
	testCases := []struct {
		name string
		msg  projectsFetchedMsg
		want string
	}{
		{name: "single project", msg: projectsFetchedMsg{count: 1}, want: "✓ 1 project"},
		{name: "page", msg: projectsFetchedMsg{count: 12}, want: "✓ 12 projects"},
		{name: "backend error", msg: projectsFetchedMsg{err: domain.NewAPIError(404, "Project not found")}, want: "✗ Project not found"},
		{name: "canceled", msg: projectsFetchedMsg{err: context.Canceled}, want: "✗ canceled"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model := newProjectSpinnerModel("Searching projects...", nil)
			assert.Contains(t, model.View(), "Searching projects...")

			updated, cmd := model.Update(tc.msg)
			require.NotNil(t, cmd)
			assert.Contains(t, updated.View(), tc.want)
			assert.NotContains(t, updated.View(), "Searching projects...")
		})
	}
}

func TestRunProjectSpinnerReturnsFetchError(t *testing.T) {
	err := runProjectSpinner(context.Background(), &bytes.Buffer{}, "Fetching project...", func(context.Context) (int, error) {
		return 0, domain.NewAPIError(404, "Project not found")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
