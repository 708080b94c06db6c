package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultFreshness = 5 * time.Minute

type ProjectState struct {
	CurrentProject *domain.Project
	Results        *domain.ResultPage
	Filters        domain.SearchFilters
	RecentlyViewed []domain.ProjectSummary
	Bookmarks      []domain.ProjectID
	Popular        []domain.ProjectSummary
	Related        []domain.ProjectSummary
	IsLoading      bool
	IsSearching    bool
	IsLoadingMore  bool
	Err            error
}

// ProjectCache is a read-through cache over the project backend with a fixed freshness window.
type ProjectCache struct {
	backend ports.ProjectBackend
	repo    ports.LibraryRepository
	clock   ports.Clock
	logger  *zap.Logger

	projects *expiringMap[domain.ProjectID, domain.Project]
	searches *expiringMap[string, domain.ResultPage]
	fetches  singleflight.Group

	listeners listeners[ProjectState]

	mu          sync.Mutex
	current     *domain.Project
	results     *domain.ResultPage
	resultsGen  uint64
	filters     domain.SearchFilters
	library     domain.Library
	popular     []domain.ProjectSummary
	related     []domain.ProjectSummary
	loading     int
	searching   bool
	loadingMore bool
	err         error
}

func NewProjectCache(backend ports.ProjectBackend, repo ports.LibraryRepository, clock ports.Clock, logger *zap.Logger) *ProjectCache {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProjectCache{
		backend:  backend,
		repo:     repo,
		clock:    clock,
		logger:   logger.Named("projects"),
		projects: newExpiringMap[domain.ProjectID, domain.Project](DefaultFreshness),
		searches: newExpiringMap[string, domain.ResultPage](DefaultFreshness),
		filters:  domain.DefaultSearchFilters(),
	}
}

// LoadLibrary replaces the in-memory bookmarks and recently viewed list with the owner's saved library.
func (c *ProjectCache) LoadLibrary(ctx context.Context, owner domain.UserID) error {
	library := domain.Library{Owner: owner}
	if c.repo != nil && owner != "" {
		loaded, err := c.repo.Load(ctx, owner)
		if err != nil {
			return fmt.Errorf("load library for %s: %w", owner, err)
		}
		library = loaded
		library.Owner = owner
	}
	library.NormalizeBookmarks()

	c.mu.Lock()
	c.library = library
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.listeners.notify(state)
	return nil
}

// GetProject returns the cached project when useCache is set and the entry is fresh, fetching otherwise.
// Concurrent fetches for the same id share one backend call, which no single caller can cancel.
func (c *ProjectCache) GetProject(ctx context.Context, id domain.ProjectID, useCache bool) (domain.Project, error) {
	id = domain.ProjectID(strings.TrimSpace(string(id)))
	if id == "" {
		return domain.Project{}, invalidRequest(errors.New("project id is required"))
	}

	if useCache {
		if project, ok := c.projects.get(id, c.clock.Now()); ok {
			c.viewed(project)
			return project, nil
		}
	}

	c.beginLoading()
	shared := context.WithoutCancel(ctx)
	results := c.fetches.DoChan(string(id), func() (any, error) {
		project, err := c.backend.GetProject(shared, id)
		if err != nil {
			return domain.Project{}, err
		}
		c.projects.set(id, project, c.clock.Now())
		return project, nil
	})

	var value any
	var err error
	select {
	case <-ctx.Done():
		c.endLoading(nil)
		return domain.Project{}, fmt.Errorf("fetch project %s: %w", id, ctx.Err())
	case result := <-results:
		value, err = result.Val, result.Err
	}
	if err != nil {
		err = classify(err)
		c.endLoading(err)
		c.logger.Debug("fetch project failed", zap.String("project_id", string(id)), zap.Error(err))
		return domain.Project{}, err
	}
	c.endLoading(nil)

	project := value.(domain.Project)
	c.viewed(project)
	return project, nil
}

// Search merges patch over the current filters and always queries the backend. Empty patch fields
// keep the current value, so clearing a single filter takes ResetFilters followed by a new Search.
func (c *ProjectCache) Search(ctx context.Context, patch domain.SearchFilters) (domain.ResultPage, error) {
	c.mu.Lock()
	filters := c.filters.Merge(patch)
	if patch.Offset == 0 {
		filters.Offset = 0
	}
	c.searching = true
	c.err = nil
	c.resultsGen++
	gen := c.resultsGen
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.listeners.notify(state)

	page, err := c.backend.SearchProjects(ctx, filters)

	c.mu.Lock()
	if gen != c.resultsGen {
		c.mu.Unlock()
		return domain.ResultPage{}, fmt.Errorf("search superseded: %w", context.Canceled)
	}
	c.searching = false
	if err != nil {
		err = classify(err)
		c.err = err
		state = c.snapshotLocked()
		c.mu.Unlock()
		c.listeners.notify(state)
		return domain.ResultPage{}, err
	}
	c.filters = filters
	stored := copyPage(page)
	c.results = &stored
	state = c.snapshotLocked()
	c.mu.Unlock()

	c.searches.set(filters.Fingerprint(), copyPage(page), c.clock.Now())
	c.listeners.notify(state)
	return page, nil
}

// LoadMore appends the next page to the current results. It returns the current page unchanged when
// there is nothing more to load or another search is running.
func (c *ProjectCache) LoadMore(ctx context.Context) (domain.ResultPage, error) {
	c.mu.Lock()
	if c.results == nil {
		c.mu.Unlock()
		return domain.ResultPage{}, nil
	}
	if c.searching || c.loadingMore || !c.results.HasMore {
		page := copyPage(*c.results)
		c.mu.Unlock()
		return page, nil
	}
	filters := c.filters
	filters.Offset = c.results.Offset + c.results.Limit
	gen := c.resultsGen
	c.loadingMore = true
	c.err = nil
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.listeners.notify(state)

	next, err := c.backend.SearchProjects(ctx, filters)

	c.mu.Lock()
	c.loadingMore = false
	if gen != c.resultsGen || c.results == nil {
		state = c.snapshotLocked()
		c.mu.Unlock()
		c.listeners.notify(state)
		return domain.ResultPage{}, fmt.Errorf("load more superseded: %w", context.Canceled)
	}
	if err != nil {
		err = classify(err)
		c.err = err
		state = c.snapshotLocked()
		c.mu.Unlock()
		c.listeners.notify(state)
		return domain.ResultPage{}, err
	}

	merged := copyPage(*c.results)
	merged.Items = append(merged.Items, next.Items...)
	merged.Total = next.Total
	merged.Offset = next.Offset
	merged.Limit = next.Limit
	merged.HasMore = next.HasMore
	c.results = &merged
	page := copyPage(merged)
	state = c.snapshotLocked()
	c.mu.Unlock()

	c.listeners.notify(state)
	return page, nil
}

func (c *ProjectCache) CachedProject(id domain.ProjectID) (domain.Project, bool) {
	return c.projects.peek(id, c.clock.Now())
}

// CachedSearch probes the search map. Search itself never reads from it.
func (c *ProjectCache) CachedSearch(filters domain.SearchFilters) (domain.ResultPage, bool) {
	page, ok := c.searches.peek(filters.Fingerprint(), c.clock.Now())
	if !ok {
		return domain.ResultPage{}, false
	}
	return copyPage(page), true
}

// ClearCache drops every cached project and search. Bookmarks and recently viewed are kept.
func (c *ProjectCache) ClearCache() {
	projects, searches := c.projects.len(), c.searches.len()
	c.projects.clear()
	c.searches.clear()
	c.logger.Debug("cache cleared", zap.Int("projects", projects), zap.Int("searches", searches))
}

func (c *ProjectCache) ResetFilters() {
	c.mu.Lock()
	c.filters = domain.DefaultSearchFilters()
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.listeners.notify(state)
}

func (c *ProjectCache) Popular(ctx context.Context, limit int) ([]domain.ProjectSummary, error) {
	c.beginLoading()
	items, err := c.backend.PopularProjects(ctx, limit)
	if err != nil {
		err = classify(err)
		c.endLoading(err)
		return nil, err
	}

	c.mu.Lock()
	c.popular = append([]domain.ProjectSummary(nil), items...)
	c.mu.Unlock()
	c.endLoading(nil)
	return items, nil
}

func (c *ProjectCache) Related(ctx context.Context, id domain.ProjectID, limit int) ([]domain.ProjectSummary, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, invalidRequest(errors.New("project id is required"))
	}

	c.beginLoading()
	items, err := c.backend.RelatedProjects(ctx, id, limit)
	if err != nil {
		err = classify(err)
		c.endLoading(err)
		return nil, err
	}

	c.mu.Lock()
	c.related = append([]domain.ProjectSummary(nil), items...)
	c.mu.Unlock()
	c.endLoading(nil)
	return items, nil
}

// Bookmark adds id locally, then asks the backend to persist it. A backend failure restores the previous set.
func (c *ProjectCache) Bookmark(ctx context.Context, id domain.ProjectID) error {
	return c.changeBookmark(ctx, id, true)
}

func (c *ProjectCache) Unbookmark(ctx context.Context, id domain.ProjectID) error {
	return c.changeBookmark(ctx, id, false)
}

func (c *ProjectCache) IsBookmarked(id domain.ProjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.library.IsBookmarked(id)
}

func (c *ProjectCache) changeBookmark(ctx context.Context, id domain.ProjectID, add bool) error {
	id = domain.ProjectID(strings.TrimSpace(string(id)))
	if id == "" {
		return invalidRequest(errors.New("project id is required"))
	}

	c.mu.Lock()
	if c.library.IsBookmarked(id) == add {
		c.mu.Unlock()
		return nil
	}
	previous := append([]domain.ProjectID(nil), c.library.Bookmarks...)
	if add {
		c.library.Bookmarks = append(c.library.Bookmarks, id)
	} else {
		c.library.Bookmarks = removeProjectID(c.library.Bookmarks, id)
	}
	library := copyLibrary(c.library)
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.listeners.notify(state)

	var err error
	if add {
		err = c.backend.BookmarkProject(ctx, id)
	} else {
		err = c.backend.UnbookmarkProject(ctx, id)
	}
	if err != nil {
		err = classify(err)
		c.mu.Lock()
		c.library.Bookmarks = previous
		c.err = err
		state = c.snapshotLocked()
		c.mu.Unlock()
		c.listeners.notify(state)

		c.logger.Warn("bookmark change rejected, restored previous bookmarks",
			zap.String("project_id", string(id)), zap.Bool("add", add), zap.Error(err))
		return err
	}

	if saveErr := c.save(ctx, library); saveErr != nil {
		c.logger.Warn("save library", zap.Error(saveErr))
	}
	return nil
}

func (c *ProjectCache) Snapshot() ProjectState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ProjectCache) Subscribe(fn func(ProjectState)) func() {
	return c.listeners.add(fn)
}

func (c *ProjectCache) viewed(project domain.Project) {
	c.mu.Lock()
	current := project
	c.current = &current
	c.library.RecordView(project.Summary())
	library := copyLibrary(c.library)
	state := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.save(context.Background(), library); err != nil {
		c.logger.Warn("save recently viewed", zap.Error(err))
	}
	c.listeners.notify(state)
}

func (c *ProjectCache) save(ctx context.Context, library domain.Library) error {
	if c.repo == nil || library.Owner == "" {
		return nil
	}
	return c.repo.Save(ctx, library)
}

func (c *ProjectCache) beginLoading() {
	c.mu.Lock()
	c.loading++
	c.err = nil
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.listeners.notify(state)
}

func (c *ProjectCache) endLoading(err error) {
	c.mu.Lock()
	if c.loading > 0 {
		c.loading--
	}
	if err != nil {
		c.err = err
	}
	state := c.snapshotLocked()
	c.mu.Unlock()
	c.listeners.notify(state)
}

func (c *ProjectCache) snapshotLocked() ProjectState {
	state := ProjectState{
		Filters:        c.filters,
		RecentlyViewed: append([]domain.ProjectSummary(nil), c.library.RecentlyViewed...),
		Bookmarks:      append([]domain.ProjectID(nil), c.library.Bookmarks...),
		Popular:        append([]domain.ProjectSummary(nil), c.popular...),
		Related:        append([]domain.ProjectSummary(nil), c.related...),
		IsLoading:      c.loading > 0,
		IsSearching:    c.searching,
		IsLoadingMore:  c.loadingMore,
		Err:            c.err,
	}
	state.Filters.Tags = append([]string(nil), c.filters.Tags...)
	if c.current != nil {
		current := *c.current
		state.CurrentProject = &current
	}
	if c.results != nil {
		results := copyPage(*c.results)
		state.Results = &results
	}
	return state
}

func copyPage(page domain.ResultPage) domain.ResultPage {
	page.Items = append([]domain.Project(nil), page.Items...)
	return page
}

func copyLibrary(library domain.Library) domain.Library {
	library.Bookmarks = append([]domain.ProjectID(nil), library.Bookmarks...)
	library.RecentlyViewed = append([]domain.ProjectSummary(nil), library.RecentlyViewed...)
	return library
}

func removeProjectID(ids []domain.ProjectID, id domain.ProjectID) []domain.ProjectID {
	kept := make([]domain.ProjectID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}
