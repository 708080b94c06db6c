package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryRecordViewDeduplicatesMostRecentFirst(t *testing.T) {
	t.Parallel()

	var library Library
	e1 := ProjectSummary{ID: "e1", Title: "Compilers"}
	e2 := ProjectSummary{ID: "e2", Title: "Robotics"}

	library.RecordView(e1)
	library.RecordView(e1)
	library.RecordView(e2)

	assert.Equal(t, []ProjectSummary{e2, e1}, library.RecentlyViewed)
}

func TestLibraryRecordViewKeepsTenMostRecent(t *testing.T) {
	t.Parallel()

	var library Library
	for i := 1; i <= 11; i++ {
		library.RecordView(ProjectSummary{ID: ProjectID(fmt.Sprintf("p%d", i))})
	}

	require.Len(t, library.RecentlyViewed, MaxRecentlyViewed)
	assert.Equal(t, ProjectID("p11"), library.RecentlyViewed[0].ID)
	assert.Equal(t, ProjectID("p2"), library.RecentlyViewed[9].ID)
	for _, summary := range library.RecentlyViewed {
		assert.NotEqual(t, ProjectID("p1"), summary.ID)
	}
}

func TestLibraryRecordViewIgnoresEmptyID(t *testing.T) {
	t.Parallel()

	library := Library{RecentlyViewed: []ProjectSummary{{ID: "p1"}}}
	library.RecordView(ProjectSummary{ID: "  "})

	assert.Equal(t, []ProjectSummary{{ID: "p1"}}, library.RecentlyViewed)
}

func TestLibraryNormalizeBookmarks(t *testing.T) {
	t.Parallel()

	library := Library{Bookmarks: []ProjectID{"p1", "", "p2", " p1 ", "p3"}}
	library.NormalizeBookmarks()

	assert.Equal(t, []ProjectID{"p1", "p2", "p3"}, library.Bookmarks)
	assert.True(t, library.IsBookmarked("p2"))
	assert.False(t, library.IsBookmarked("p9"))
}
