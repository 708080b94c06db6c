package domain

import "time"

type ProjectID string

type ProjectStatus string

const (
	ProjectStatusOpen     ProjectStatus = "open"
	ProjectStatusFull     ProjectStatus = "full"
	ProjectStatusArchived ProjectStatus = "archived"
)

type Supervisor struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID          ProjectID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Supervisor  Supervisor    `json:"supervisor"`
	Department  string        `json:"department"`
	Tags        []string      `json:"tags,omitempty"`
	Status      ProjectStatus `json:"status"`
	Capacity    int           `json:"capacity"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ProjectSummary is the projection kept in the recently viewed list and returned by list endpoints.
type ProjectSummary struct {
	ID             ProjectID `json:"id"`
	Title          string    `json:"title"`
	SupervisorName string    `json:"supervisor_name"`
	Department     string    `json:"department"`
}

func (p Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:             p.ID,
		Title:          p.Title,
		SupervisorName: p.Supervisor.Name,
		Department:     p.Department,
	}
}
