package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bnema/fyp-cli/internal/domain"
)

const projectsPath = "/projects"

// PageData is the data member of the project search response.
type PageData struct {
	Items   []domain.Project `json:"items"`
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
	HasMore bool             `json:"has_more"`
}

type SummariesData struct {
	Items []domain.ProjectSummary `json:"items"`
}

func (c Client) GetProject(ctx context.Context, id domain.ProjectID) (domain.Project, error) {
	path, err := projectPath(id, "")
	if err != nil {
		return domain.Project{}, err
	}

	var project domain.Project
	if _, err := c.do(ctx, request{method: http.MethodGet, path: path}, &project); err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

func (c Client) SearchProjects(ctx context.Context, filters domain.SearchFilters) (domain.ResultPage, error) {
	var data PageData
	if _, err := c.do(ctx, request{method: http.MethodGet, path: projectsPath, query: SearchQuery(filters)}, &data); err != nil {
		return domain.ResultPage{}, err
	}

	return domain.ResultPage{
		Items:   data.Items,
		Total:   data.Total,
		Offset:  data.Offset,
		Limit:   data.Limit,
		HasMore: data.HasMore,
	}, nil
}

func (c Client) PopularProjects(ctx context.Context, limit int) ([]domain.ProjectSummary, error) {
	var data SummariesData
	if _, err := c.do(ctx, request{method: http.MethodGet, path: projectsPath + "/popular", query: limitQuery(limit)}, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

func (c Client) RelatedProjects(ctx context.Context, id domain.ProjectID, limit int) ([]domain.ProjectSummary, error) {
	path, err := projectPath(id, "/related")
	if err != nil {
		return nil, err
	}

	var data SummariesData
	if _, err := c.do(ctx, request{method: http.MethodGet, path: path, query: limitQuery(limit)}, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

func (c Client) BookmarkProject(ctx context.Context, id domain.ProjectID) error {
	path, err := projectPath(id, "/bookmark")
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodPost, path: path, auth: true}, nil)
	return err
}

func (c Client) UnbookmarkProject(ctx context.Context, id domain.ProjectID) error {
	path, err := projectPath(id, "/bookmark")
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: path, auth: true}, nil)
	return err
}

// SearchQuery encodes filters as query parameters, omitting zero values.
func SearchQuery(filters domain.SearchFilters) url.Values {
	query := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			query.Set(key, value)
		}
	}

	set("q", filters.Query)
	set("department", filters.Department)
	set("supervisor_id", string(filters.SupervisorID))
	set("status", string(filters.Status))
	set("tags", strings.Join(filters.Tags, ","))
	set("sort_by", filters.SortBy)
	set("sort_order", filters.SortOrder)
	if filters.Offset > 0 {
		query.Set("offset", strconv.Itoa(filters.Offset))
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}

	return query
}

// ParseSearchQuery is the inverse of SearchQuery.
func ParseSearchQuery(query url.Values) domain.SearchFilters {
	filters := domain.SearchFilters{
		Query:        query.Get("q"),
		Department:   query.Get("department"),
		SupervisorID: domain.UserID(query.Get("supervisor_id")),
		Status:       domain.ProjectStatus(query.Get("status")),
		SortBy:       query.Get("sort_by"),
		SortOrder:    query.Get("sort_order"),
	}
	if tags := strings.TrimSpace(query.Get("tags")); tags != "" {
		filters.Tags = strings.Split(tags, ",")
	}
	filters.Offset, _ = strconv.Atoi(query.Get("offset"))
	filters.Limit, _ = strconv.Atoi(query.Get("limit"))
	return filters
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}

func projectPath(id domain.ProjectID, suffix string) (string, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return "", &domain.APIError{Kind: domain.ErrInvalidRequest, Err: errors.New("project id is required")}
	}
	return projectsPath + "/" + url.PathEscape(trimmed) + suffix, nil
}
