package render

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fyp-cli/internal/application"
	"github.com/bnema/fyp-cli/internal/domain"
)

func TestRenderSignedInSession(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC)
	issued := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	output, err := Session(application.SessionState{
		User:            &domain.User{ID: "u-1", Email: "ada@uni.edu", Name: "Ada Lovelace", Role: domain.RoleStudent},
		Credentials:     &domain.CredentialPair{AccessToken: "a", RefreshToken: "r"},
		ExpiresAt:       issued.Add(application.AccessTokenLifetime),
		RefreshAt:       issued.Add(application.AccessTokenLifetime - application.RefreshLeadTime),
		IssuedAt:        issued,
		LastActivity:    now.Add(-time.Minute),
		IsAuthenticated: true,
	}, SessionOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "Ada Lovelace <ada@uni.edu>")
	assert.Contains(t, output, "role: student")
	assert.Contains(t, output, "email: not verified")
	assert.Contains(t, output, "10 minutes left (09:15)")
	assert.Contains(t, output, "(refresh at 09:13:00)")
	assert.Contains(t, output, "issued 09:00")
	assert.Contains(t, output, "last activity 09:04")
	assert.Contains(t, output, "[================--------]")
	assert.NotContains(t, output, "[expired]")
}

func TestRenderExpiredSession(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	output, err := Session(application.SessionState{
		User:            &domain.User{ID: "u-1", Email: "ada@uni.edu", EmailVerified: true},
		Credentials:     &domain.CredentialPair{AccessToken: "a", RefreshToken: "r"},
		ExpiresAt:       now.Add(-time.Minute),
		IsAuthenticated: true,
	}, SessionOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "ada@uni.edu")
	assert.Contains(t, output, "email: verified")
	assert.Contains(t, output, "expired")
	assert.Contains(t, output, "[expired]")
	assert.Contains(t, output, "[------------------------]")
}

func TestRenderSignedOutSessionShowsError(t *testing.T) {
	output, err := Session(application.SessionState{
		Err: errors.Join(domain.ErrSessionExpired, errors.New("refresh rejected")),
	}, SessionOptions{Now: time.Now()})

	require.NoError(t, err)
	assert.Contains(t, output, "Not signed in.")
	assert.Contains(t, output, "Your session has expired. Please log in again.")
}

func TestRenderProject(t *testing.T) {
	output, err := Project(domain.Project{
		ID:          "p-3",
		Title:       "Graph embeddings",
		Description: "Learn node embeddings for citation graphs.",
		Supervisor:  domain.Supervisor{ID: "sup-3", Name: "Dr. Grace Hopper"},
		Department:  "Mathematics",
		Tags:        []string{"ml", "graphs"},
		Status:      domain.ProjectStatusOpen,
		Capacity:    2,
	}, ProjectOptions{Bookmarked: func(id domain.ProjectID) bool { return id == "p-3" }})

	require.NoError(t, err)
	assert.Contains(t, output, "Graph embeddings [bookmarked]")
	assert.Contains(t, output, "p-3 · Mathematics · open · capacity 2")
	assert.Contains(t, output, "supervisor: Dr. Grace Hopper")
	assert.Contains(t, output, "tags: ml, graphs")
	assert.Contains(t, output, "citation graphs")
}

func TestRenderPage(t *testing.T) {
	items := []domain.Project{
		{ID: "p-21", Title: "Compiler testing", Supervisor: domain.Supervisor{Name: "Prof. Alan Turing"}, Department: "Computer Science"},
		{ID: "p-22", Title: "Sensor fusion"},
	}

	output, err := Page(domain.ResultPage{Items: items, Total: 35, Offset: 20, Limit: 20, HasMore: true}, ProjectOptions{
		Bookmarked: func(id domain.ProjectID) bool { return id == "p-22" },
	})

	require.NoError(t, err)
	assert.Contains(t, output, "showing 21-22 of 35 (more available)")
	assert.Contains(t, output, "p-21")
	assert.Contains(t, output, "Prof. Alan Turing · Computer Science")
	assert.Contains(t, output, "* p-22")

	output, err = Page(domain.ResultPage{}, ProjectOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "No projects match these filters.")
}

func TestRenderSummaries(t *testing.T) {
	output, err := Summaries("Recently viewed", []domain.ProjectSummary{
		{ID: "p-1", Title: "Distributed caching", SupervisorName: "Dr. Ada Byron"},
	}, ProjectOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Recently viewed")
	assert.Contains(t, output, "projects: 1")
	assert.Contains(t, output, "Distributed caching")

	output, err = Summaries("Bookmarks", nil, ProjectOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "Nothing here yet.")
}

func TestFormatRemaining(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		until time.Time
		want  string
	}{
		{name: "seconds round up", until: now.Add(30 * time.Second), want: "1 minute left (09:00)"},
		{name: "minutes", until: now.Add(13 * time.Minute), want: "13 minutes left (09:13)"},
		{name: "hours", until: now.Add(90 * time.Minute), want: "2 hours left (10:30)"},
		{name: "days", until: now.Add(36 * time.Hour), want: "2 days left (21:00 on 03 Mar)"},
		{name: "past", until: now.Add(-time.Second), want: "expired"},
		{name: "boundary", until: now, want: "expired"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatRemaining(tc.until, now))
		})
	}
}
