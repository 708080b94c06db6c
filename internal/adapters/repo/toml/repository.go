package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	LibraryPathKey = "library.path"

	libraryFileMode   = 0o600
	libraryDirMode    = 0o700
	libraryConfigDir  = ".fyp"
	libraryConfigFile = "library.toml"
	tempFilePattern   = ".library-*.toml.tmp"
)

// Repository keeps every user's bookmarks and recently viewed projects in one TOML file.
type Repository struct {
	libraryPath string
	clock       ports.Clock
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.LibraryRepository = (*Repository)(nil)

// NewRepositoryFromConfig resolves library.path from cfg, defaulting to ~/.fyp/library.toml.
func NewRepositoryFromConfig(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if cfg.GetString(LibraryPathKey) == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SetDefault(LibraryPathKey, filepath.Join(homeDir, libraryConfigDir, libraryConfigFile))
	}

	return NewRepository(cfg.GetString(LibraryPathKey), nil)
}

func NewRepository(path string, clock ports.Clock) (*Repository, error) {
	if path == "" {
		return nil, errors.New("library path is empty")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	libraryPath, err := normalizeLibraryPath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{libraryPath: libraryPath, clock: clock, mu: lockForPath(libraryPath)}, nil
}

func (r *Repository) Path() string {
	return r.libraryPath
}

// Load returns the owner's library, or an empty one when the owner has none yet.
func (r *Repository) Load(ctx context.Context, owner domain.UserID) (domain.Library, error) {
	if err := ctx.Err(); err != nil {
		return domain.Library{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Library{}, err
	}

	for _, entry := range file.Libraries {
		if entry.Owner == string(owner) {
			return fromSchema(entry), nil
		}
	}

	return domain.Library{Owner: owner}, nil
}

func (r *Repository) Save(ctx context.Context, library domain.Library) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if library.Owner == "" {
		return errors.New("library owner is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(library)
	encoded.UpdatedAt = r.clock.Now().UTC().Format(time.RFC3339)

	updated := false
	for i := range file.Libraries {
		if file.Libraries[i].Owner == encoded.Owner {
			file.Libraries[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Libraries = append(file.Libraries, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.libraryPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read library file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode library file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	dir := filepath.Dir(r.libraryPath)
	if err := os.MkdirAll(dir, libraryDirMode); err != nil {
		return fmt.Errorf("create library directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode library file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp library file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp library file: %w", err)
	}
	if err := tempFile.Chmod(libraryFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp library file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp library file: %w", err)
	}
	if err := os.Rename(tempName, r.libraryPath); err != nil {
		return fmt.Errorf("replace library file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizeLibraryPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve library path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

// lockForPath shares one lock between repositories pointing at the same file.
func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(library domain.Library) librarySchema {
	bookmarks := make([]string, 0, len(library.Bookmarks))
	for _, id := range library.Bookmarks {
		bookmarks = append(bookmarks, string(id))
	}

	recent := make([]summarySchema, 0, len(library.RecentlyViewed))
	for _, summary := range library.RecentlyViewed {
		recent = append(recent, summarySchema{
			ID:             string(summary.ID),
			Title:          summary.Title,
			SupervisorName: summary.SupervisorName,
			Department:     summary.Department,
		})
	}

	return librarySchema{
		Owner:          string(library.Owner),
		Bookmarks:      bookmarks,
		RecentlyViewed: recent,
	}
}

func fromSchema(entry librarySchema) domain.Library {
	library := domain.Library{Owner: domain.UserID(entry.Owner)}
	for _, id := range entry.Bookmarks {
		library.Bookmarks = append(library.Bookmarks, domain.ProjectID(id))
	}
	for _, summary := range entry.RecentlyViewed {
		library.RecentlyViewed = append(library.RecentlyViewed, domain.ProjectSummary{
			ID:             domain.ProjectID(summary.ID),
			Title:          summary.Title,
			SupervisorName: summary.SupervisorName,
			Department:     summary.Department,
		})
	}
	if len(library.RecentlyViewed) > domain.MaxRecentlyViewed {
		library.RecentlyViewed = library.RecentlyViewed[:domain.MaxRecentlyViewed]
	}
	library.NormalizeBookmarks()

	return library
}
