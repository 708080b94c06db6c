package fakeapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/fyp-cli/internal/adapters/httpapi"
	"github.com/bnema/fyp-cli/internal/domain"
)

const defaultListLimit = 5

func (s *Server) searchProjects(w http.ResponseWriter, r *http.Request) {
	filters := domain.DefaultSearchFilters().Merge(httpapi.ParseSearchQuery(r.URL.Query()))
	if filters.Offset < 0 || filters.Limit < 0 || filters.Limit > 100 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "offset or limit out of range")
		return
	}

	s.mu.Lock()
	matches := make([]domain.Project, 0, len(s.projects))
	for _, project := range s.projects {
		if matchesFilters(project, filters) {
			matches = append(matches, project)
		}
	}
	s.mu.Unlock()

	sortProjects(matches, filters.SortBy, filters.SortOrder)

	total := len(matches)
	start := min(filters.Offset, total)
	end := min(start+filters.Limit, total)
	writeData(w, http.StatusOK, "", httpapi.PageData{
		Items:   matches[start:end],
		Total:   total,
		Offset:  filters.Offset,
		Limit:   filters.Limit,
		HasMore: end < total,
	})
}

func (s *Server) popularProjects(w http.ResponseWriter, r *http.Request) {
	limit := listLimit(r)

	s.mu.Lock()
	ranked := slices.Clone(s.projects)
	views := make(map[domain.ProjectID]int, len(s.views))
	for id, count := range s.views {
		views[id] = count
	}
	s.mu.Unlock()

	slices.SortStableFunc(ranked, func(a, b domain.Project) int {
		return views[b.ID] - views[a.ID]
	})
	writeData(w, http.StatusOK, "", httpapi.SummariesData{Items: summaries(ranked, limit)})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	project, ok := s.findProject(domain.ProjectID(chi.URLParam(r, "id")), true)
	if !ok {
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
		return
	}
	writeData(w, http.StatusOK, "", project)
}

// relatedProjects ranks the other projects by shared tags, then by department.
func (s *Server) relatedProjects(w http.ResponseWriter, r *http.Request) {
	id := domain.ProjectID(chi.URLParam(r, "id"))
	target, ok := s.findProject(id, false)
	if !ok {
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
		return
	}

	s.mu.Lock()
	candidates := make([]domain.Project, 0, len(s.projects))
	for _, project := range s.projects {
		if project.ID != id {
			candidates = append(candidates, project)
		}
	}
	s.mu.Unlock()

	score := func(p domain.Project) int {
		shared := 0
		for _, tag := range p.Tags {
			if slices.Contains(target.Tags, tag) {
				shared += 2
			}
		}
		if p.Department == target.Department {
			shared++
		}
		return shared
	}
	related := candidates[:0]
	for _, project := range candidates {
		if score(project) > 0 {
			related = append(related, project)
		}
	}
	slices.SortStableFunc(related, func(a, b domain.Project) int {
		return score(b) - score(a)
	})

	writeData(w, http.StatusOK, "", httpapi.SummariesData{Items: summaries(related, listLimit(r))})
}

func (s *Server) bookmark(w http.ResponseWriter, r *http.Request) {
	s.setBookmark(w, r, true)
}

func (s *Server) unbookmark(w http.ResponseWriter, r *http.Request) {
	s.setBookmark(w, r, false)
}

func (s *Server) setBookmark(w http.ResponseWriter, r *http.Request, on bool) {
	userID := r.Context().Value(userKey{}).(domain.UserID)
	id := domain.ProjectID(chi.URLParam(r, "id"))
	if _, ok := s.findProject(id, false); !ok {
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
		return
	}

	s.mu.Lock()
	if s.bookmarks[userID] == nil {
		s.bookmarks[userID] = map[domain.ProjectID]bool{}
	}
	if on {
		s.bookmarks[userID][id] = true
	} else {
		delete(s.bookmarks[userID], id)
	}
	s.mu.Unlock()

	if on {
		writeData(w, http.StatusOK, "Project bookmarked", nil)
		return
	}
	writeData(w, http.StatusOK, "Bookmark removed", nil)
}

func (s *Server) findProject(id domain.ProjectID, countView bool) (domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, project := range s.projects {
		if project.ID == id {
			if countView {
				s.views[id]++
			}
			return project, true
		}
	}
	return domain.Project{}, false
}

func matchesFilters(p domain.Project, f domain.SearchFilters) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(p.Title + " " + p.Description)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if f.Department != "" && !strings.EqualFold(p.Department, f.Department) {
		return false
	}
	if f.SupervisorID != "" && p.Supervisor.ID != f.SupervisorID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	for _, tag := range f.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !slices.ContainsFunc(p.Tags, func(have string) bool { return strings.EqualFold(have, tag) }) {
			return false
		}
	}
	return true
}

func sortProjects(projects []domain.Project, by, order string) {
	cmp := func(a, b domain.Project) int {
		switch by {
		case "title":
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case "capacity":
			return a.Capacity - b.Capacity
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	slices.SortStableFunc(projects, func(a, b domain.Project) int {
		if order == "asc" {
			return cmp(a, b)
		}
		return cmp(b, a)
	})
}

func summaries(projects []domain.Project, limit int) []domain.ProjectSummary {
	out := make([]domain.ProjectSummary, 0, min(len(projects), limit))
	for _, project := range projects {
		if len(out) == limit {
			break
		}
		out = append(out, project.Summary())
	}
	return out
}

func listLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}

// SeedProjects returns count deterministic projects spread over three departments.
func SeedProjects(count int) []domain.Project {
	departments := []string{"Computer Science", "Electrical Engineering", "Mathematics"}
	supervisors := []domain.Supervisor{
		{ID: "sup-1", Name: "Dr. Ada Byron"},
		{ID: "sup-2", Name: "Prof. Alan Turing"},
		{ID: "sup-3", Name: "Dr. Grace Hopper"},
	}
	topics := []string{"Distributed caching", "Compiler testing", "Graph embeddings", "Sensor fusion", "Formal verification"}
	tags := [][]string{{"systems", "go"}, {"compilers"}, {"ml", "graphs"}, {"embedded"}, {"logic", "proofs"}}
	base := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	projects := make([]domain.Project, 0, count)
	for i := range count {
		topic := i % len(topics)
		projects = append(projects, domain.Project{
			ID:          domain.ProjectID("p-" + strconv.Itoa(i+1)),
			Title:       topics[topic] + " " + strconv.Itoa(i+1),
			Description: "Final year project on " + strings.ToLower(topics[topic]) + ".",
			Supervisor:  supervisors[i%len(supervisors)],
			Department:  departments[i%len(departments)],
			Tags:        slices.Clone(tags[topic]),
			Status:      domain.ProjectStatusOpen,
			Capacity:    1 + i%3,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	return projects
}
