package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int             `toml:"version"`
	Libraries []librarySchema `toml:"libraries"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported library schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type librarySchema struct {
	Owner          string          `toml:"owner"`
	UpdatedAt      string          `toml:"updated_at,omitempty"`
	Bookmarks      []string        `toml:"bookmarks"`
	RecentlyViewed []summarySchema `toml:"recently_viewed,omitempty"`
}

type summarySchema struct {
	ID             string `toml:"id"`
	Title          string `toml:"title"`
	SupervisorName string `toml:"supervisor_name,omitempty"`
	Department     string `toml:"department,omitempty"`
}
