package ports

import (
	"context"

	"github.com/bnema/fyp-cli/internal/domain"
)

type ProjectBackend interface {
	GetProject(ctx context.Context, id domain.ProjectID) (domain.Project, error)
	SearchProjects(ctx context.Context, filters domain.SearchFilters) (domain.ResultPage, error)
	PopularProjects(ctx context.Context, limit int) ([]domain.ProjectSummary, error)
	RelatedProjects(ctx context.Context, id domain.ProjectID, limit int) ([]domain.ProjectSummary, error)
	BookmarkProject(ctx context.Context, id domain.ProjectID) error
	UnbookmarkProject(ctx context.Context, id domain.ProjectID) error
}

type LibraryRepository interface {
	Load(ctx context.Context, owner domain.UserID) (domain.Library, error)
	Save(ctx context.Context, library domain.Library) error
}
