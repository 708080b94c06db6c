package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	repo, err := NewRepository(path, fixedClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "library.toml"))
	ada := domain.Library{
		Owner:     "u-1",
		Bookmarks: []domain.ProjectID{"p1", "p2"},
		RecentlyViewed: []domain.ProjectSummary{
			{ID: "p2", Title: "Graph neural networks", SupervisorName: "Dr Turing", Department: "Computer Science"},
			{ID: "p1", Title: "Compiler testing"},
		},
	}
	grace := domain.Library{Owner: "u-2", Bookmarks: []domain.ProjectID{"p9"}}

	require.NoError(t, repo.Save(context.Background(), ada))
	require.NoError(t, repo.Save(context.Background(), grace))

	got, err := repo.Load(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, ada, got)

	got, err = repo.Load(context.Background(), "u-2")
	require.NoError(t, err)
	assert.Equal(t, grace.Bookmarks, got.Bookmarks)
	assert.Empty(t, got.RecentlyViewed)
}

func TestRepositorySaveReplacesOwnerEntry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "library.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.Library{Owner: "u-1", Bookmarks: []domain.ProjectID{"p1"}}))
	require.NoError(t, repo.Save(context.Background(), domain.Library{Owner: "u-1", Bookmarks: []domain.ProjectID{"p3"}}))

	got, err := repo.Load(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.ProjectID{"p3"}, got.Bookmarks)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "[[libraries]]"))
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "2026-03-02T09:00:00Z")
}

func TestRepositoryLoadUnknownOwnerAndMissingFile(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "library.toml"))

	got, err := repo.Load(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Library{Owner: "u-1"}, got)
}

func TestRepositoryLoadNormalizesHandEditedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "library.toml")
	lines := []string{
		"version = 1",
		"",
		"[[libraries]]",
		"owner = \"u-1\"",
		"bookmarks = [\"p1\", \" p1 \", \"\", \"p2\"]",
	}
	for i := 0; i < 12; i++ {
		lines = append(lines, "", "[[libraries.recently_viewed]]", "id = \"p"+strconv.Itoa(i)+"\"", "title = \"T\"")
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600))

	got, err := newTestRepository(t, path).Load(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.ProjectID{"p1", "p2"}, got.Bookmarks)
	assert.Len(t, got.RecentlyViewed, domain.MaxRecentlyViewed)
}

func TestRepositorySaveEnforcesPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "library.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.Library{Owner: "u-1"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "library.toml")
	require.NoError(t, os.WriteFile(path, []byte("libraries = ["), 0o600))

	_, err := newTestRepository(t, path).Load(context.Background(), "u-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode library file")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "library.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 999\n"), 0o600))

	_, err := newTestRepository(t, path).Load(context.Background(), "u-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported library schema version")
}

func TestRepositorySaveRejectsMissingOwnerAndCanceledContext(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "library.toml"))
	assert.ErrorContains(t, repo.Save(context.Background(), domain.Library{}), "library owner is empty")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := repo.Save(ctx, domain.Library{Owner: "u-1"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveEveryOwner(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "library.toml")
	repoA := newTestRepository(t, path)
	repoB := newTestRepository(t, path)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	save := func(repo *Repository, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repo.Save(context.Background(), domain.Library{Owner: domain.UserID(prefix + strconv.Itoa(i))})
		}
	}
	go save(repoA, "a-")
	go save(repoB, "b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	file, err := repoA.readSchema()
	require.NoError(t, err)
	assert.Len(t, file.Libraries, perRepoWrites*2)
}

func TestNewRepositoryFromConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.toml")
	cfg := viper.New()
	cfg.Set(LibraryPathKey, path)

	repo, err := NewRepositoryFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, path, repo.Path())
}

func TestNewRepositoryFromConfigDefaultsToHome(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepositoryFromConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, ".fyp", "library.toml"), repo.Path())
}
