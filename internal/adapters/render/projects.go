package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/fyp-cli/internal/domain"
)

// ProjectOptions mark bookmarked projects. A nil Bookmarked marks none.
type ProjectOptions struct {
	Bookmarked func(domain.ProjectID) bool
}

func (o ProjectOptions) bookmarked(id domain.ProjectID) bool {
	return o.Bookmarked != nil && o.Bookmarked(id)
}

func Project(project domain.Project, opts ProjectOptions) (string, error) {
	return run(func(s styles) string {
		return projectView(project, opts, s)
	})
}

// Page renders one page of search results with its position in the full result set.
func Page(page domain.ResultPage, opts ProjectOptions) (string, error) {
	return run(func(s styles) string {
		return pageView(page, opts, s)
	})
}

func Summaries(title string, items []domain.ProjectSummary, opts ProjectOptions) (string, error) {
	return run(func(s styles) string {
		return summariesView(title, items, opts, s)
	})
}

func projectView(project domain.Project, opts ProjectOptions, s styles) string {
	title := s.title.Render(project.Title)
	if opts.bookmarked(project.ID) {
		title += " " + s.bookmark.Render("[bookmarked]")
	}

	facts := []string{string(project.ID)}
	if project.Department != "" {
		facts = append(facts, project.Department)
	}
	if project.Status != "" {
		facts = append(facts, string(project.Status))
	}
	if project.Capacity > 0 {
		facts = append(facts, fmt.Sprintf("capacity %d", project.Capacity))
	}

	lines := []string{
		title,
		s.meta.Render(strings.Join(facts, " · ")),
	}
	if project.Supervisor.Name != "" {
		lines = append(lines, s.detail.Render("supervisor: "+project.Supervisor.Name))
	}
	if len(project.Tags) > 0 {
		lines = append(lines, s.detail.Render("tags: "+strings.Join(project.Tags, ", ")))
	}
	if description := strings.TrimSpace(project.Description); description != "" {
		lines = append(lines, s.section.Render(description))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func pageView(page domain.ResultPage, opts ProjectOptions, s styles) string {
	lines := []string{s.title.Render("Projects")}
	if len(page.Items) == 0 {
		lines = append(lines, s.empty.Render("No projects match these filters."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	header := fmt.Sprintf("showing %d-%d of %d", page.Offset+1, page.Offset+len(page.Items), page.Total)
	if page.HasMore {
		header += " (more available)"
	}
	lines = append(lines, s.header.Render(header))

	for _, project := range page.Items {
		lines = append(lines, summaryLine(project.Summary(), opts, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func summariesView(title string, items []domain.ProjectSummary, opts ProjectOptions, s styles) string {
	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("projects: %d", len(items))),
	}
	if len(items) == 0 {
		lines = append(lines, s.empty.Render("Nothing here yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, item := range items {
		lines = append(lines, summaryLine(item, opts, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func summaryLine(summary domain.ProjectSummary, opts ProjectOptions, s styles) string {
	marker := " "
	if opts.bookmarked(summary.ID) {
		marker = s.bookmark.Render("*")
	}

	var meta []string
	if summary.SupervisorName != "" {
		meta = append(meta, summary.SupervisorName)
	}
	if summary.Department != "" {
		meta = append(meta, summary.Department)
	}

	parts := []string{marker, " ", s.projectID.Render(fmt.Sprintf("%-8s", summary.ID)), " ", s.detail.Render(summary.Title)}
	if len(meta) > 0 {
		parts = append(parts, "  ", s.meta.Render(strings.Join(meta, " · ")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
