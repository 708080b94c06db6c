package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/fyp-cli/internal/adapters/render"
	"github.com/bnema/fyp-cli/internal/domain"
)

const defaultSummaryLimit = 5

func newProjectsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   "Browse, search and bookmark projects",
	}

	cmd.AddCommand(
		newProjectsGetCmd(app),
		newProjectsSearchCmd(app),
		newProjectsPopularCmd(app),
		newProjectsRelatedCmd(app),
		newProjectsBookmarkCmd(app, true),
		newProjectsBookmarkCmd(app, false),
		newProjectsBookmarksCmd(app),
		newProjectsRecentCmd(app),
	)

	return cmd
}

type pageOutput struct {
	Items   []domain.Project `json:"items"`
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
	HasMore bool             `json:"has_more"`
}

type summariesOutput struct {
	Items []domain.ProjectSummary `json:"items"`
}

func (a *app) projectOptions() render.ProjectOptions {
	return render.ProjectOptions{Bookmarked: a.projects.IsBookmarked}
}

// fetch runs call behind a spinner on stderr unless the output is JSON.
func fetch(cmd *cobra.Command, asJSON bool, label string, call projectFetch) error {
	if asJSON {
		_, err := call(cmd.Context())
		return err
	}
	return runProjectSpinner(cmd.Context(), cmd.ErrOrStderr(), label, call)
}

func newProjectsGetCmd(app *app) *cobra.Command {
	var noCache bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var project domain.Project
			err := fetch(cmd, asJSON, "Fetching project...", func(ctx context.Context) (int, error) {
				var err error
				project, err = app.projects.GetProject(ctx, domain.ProjectID(args[0]), !noCache)
				if err != nil {
					return 0, err
				}
				return 1, nil
			})
			if err != nil {
				return asUserError(err)
			}

			if asJSON {
				return writeJSON(cmd, project)
			}
			rendered, err := app.renderProject(project, app.projectOptions())
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Always fetch from the backend")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newProjectsSearchCmd(app *app) *cobra.Command {
	var filters domain.SearchFilters
	var supervisor string
	var status string
	var pages int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}
			filters.SupervisorID = domain.UserID(supervisor)
			filters.Status = domain.ProjectStatus(status)

			var page domain.ResultPage
			err := fetch(cmd, asJSON, "Searching projects...", func(ctx context.Context) (int, error) {
				var err error
				page, err = app.projects.Search(ctx, filters)
				if err != nil {
					return 0, err
				}
				first := page.Offset
				for i := 1; i < pages && page.HasMore; i++ {
					if page, err = app.projects.LoadMore(ctx); err != nil {
						return 0, err
					}
				}
				// The accumulated page starts where the first request did.
				page.Offset = first
				return len(page.Items), nil
			})
			if err != nil {
				return asUserError(err)
			}

			if asJSON {
				return writeJSON(cmd, pageOutput(page))
			}
			rendered, err := app.renderPage(page, app.projectOptions())
			return writeRendered(cmd, rendered, err)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&filters.Query, "query", "q", "", "Text to match in titles and descriptions")
	flags.StringVar(&filters.Department, "department", "", "Department")
	flags.StringVar(&supervisor, "supervisor", "", "Supervisor id")
	flags.StringVar(&status, "status", "", "Project status (open|full|archived)")
	flags.StringSliceVar(&filters.Tags, "tag", nil, "Required tag (repeatable)")
	flags.StringVar(&filters.SortBy, "sort", "", "Sort field (created_at|title|capacity)")
	flags.StringVar(&filters.SortOrder, "order", "", "Sort order (asc|desc)")
	flags.IntVar(&filters.Limit, "limit", 0, "Page size")
	flags.IntVar(&filters.Offset, "offset", 0, "Start offset")
	flags.IntVar(&pages, "pages", 1, "Number of pages to load")
	flags.BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newProjectsPopularCmd(app *app) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most viewed projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var items []domain.ProjectSummary
			err := fetch(cmd, asJSON, "Fetching popular projects...", func(ctx context.Context) (int, error) {
				var err error
				items, err = app.projects.Popular(ctx, limit)
				return len(items), err
			})
			if err != nil {
				return asUserError(err)
			}
			return writeSummaries(cmd, app, "Popular projects", items, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultSummaryLimit, "Number of projects")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newProjectsRelatedCmd(app *app) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "related <id>",
		Short: "List projects related to one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []domain.ProjectSummary
			err := fetch(cmd, asJSON, "Fetching related projects...", func(ctx context.Context) (int, error) {
				var err error
				items, err = app.projects.Related(ctx, domain.ProjectID(args[0]), limit)
				return len(items), err
			})
			if err != nil {
				return asUserError(err)
			}
			return writeSummaries(cmd, app, "Related to "+args[0], items, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultSummaryLimit, "Number of projects")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newProjectsBookmarkCmd(app *app, add bool) *cobra.Command {
	use, short, done := "bookmark <id>", "Bookmark a project", "Bookmarked"
	if !add {
		use, short, done = "unbookmark <id>", "Remove a project bookmark", "Removed bookmark"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.currentUser(); err != nil {
				return err
			}

			id := domain.ProjectID(args[0])
			err := app.withFreshToken(cmd.Context(), func() error {
				if add {
					return app.projects.Bookmark(cmd.Context(), id)
				}
				return app.projects.Unbookmark(cmd.Context(), id)
			})
			if err != nil {
				return asUserError(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, id)
			return err
		},
	}
}

func newProjectsBookmarksCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarked projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.currentUser(); err != nil {
				return err
			}

			state := app.projects.Snapshot()
			if asJSON {
				ids := state.Bookmarks
				if ids == nil {
					ids = []domain.ProjectID{}
				}
				return writeJSON(cmd, map[string][]domain.ProjectID{"items": ids})
			}

			known := make(map[domain.ProjectID]domain.ProjectSummary, len(state.RecentlyViewed))
			for _, summary := range state.RecentlyViewed {
				known[summary.ID] = summary
			}
			items := make([]domain.ProjectSummary, 0, len(state.Bookmarks))
			for _, id := range state.Bookmarks {
				summary, ok := known[id]
				if !ok {
					summary = domain.ProjectSummary{ID: id}
				}
				items = append(items, summary)
			}
			return writeSummaries(cmd, app, "Bookmarks", items, false)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newProjectsRecentCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently viewed projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSummaries(cmd, app, "Recently viewed", app.projects.Snapshot().RecentlyViewed, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeSummaries(cmd *cobra.Command, app *app, title string, items []domain.ProjectSummary, asJSON bool) error {
	if asJSON {
		if items == nil {
			items = []domain.ProjectSummary{}
		}
		return writeJSON(cmd, summariesOutput{Items: items})
	}
	rendered, err := app.renderSummaries(title, items, app.projectOptions())
	return writeRendered(cmd, rendered, err)
}
