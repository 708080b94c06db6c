package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "session store key is empty"},
		{name: "whitespace", key: "   ", wantErr: "session store key is empty"},
		{name: "absolute", key: "/etc/passwd", wantErr: "invalid session store key"},
		{name: "parent", key: "..", wantErr: "invalid session store key"},
		{name: "traversal", key: "../escape", wantErr: "invalid session store key"},
		{name: "nested traversal", key: "fyp/../../escape", wantErr: "invalid session store key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	key := "fyp/session/tokens"
	want := `{"access_token":"a","refresh_token":"r"}`

	require.NoError(t, store.Put(context.Background(), key, want))
	require.NoError(t, store.Put(context.Background(), key, want))

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Join(root, "fyp", "session", "tokens"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(entryMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(root, "fyp", "session"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStoreGetMissingEntry(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background(), "fyp/session/user")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	key := "fyp/session/issued_at"

	require.NoError(t, store.Put(context.Background(), key, "2026-03-02T09:00:00Z"))
	require.NoError(t, store.Delete(context.Background(), key))
	require.NoError(t, store.Delete(context.Background(), key))

	_, err := store.Get(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore(t.TempDir())
	assert.ErrorIs(t, store.Put(ctx, "fyp/session/user", "{}"), context.Canceled)
}
