package domain

import "strings"

const MaxRecentlyViewed = 10

// Library is the per-user local state that survives cache clears: bookmarks and recently viewed projects.
type Library struct {
	Owner          UserID
	Bookmarks      []ProjectID
	RecentlyViewed []ProjectSummary
}

// RecordView moves summary to the front of the recently viewed list, dropping any earlier
// occurrence and keeping at most MaxRecentlyViewed entries.
func (l *Library) RecordView(summary ProjectSummary) {
	if l == nil || strings.TrimSpace(string(summary.ID)) == "" {
		return
	}

	recent := make([]ProjectSummary, 0, MaxRecentlyViewed)
	recent = append(recent, summary)
	for _, existing := range l.RecentlyViewed {
		if existing.ID == summary.ID {
			continue
		}
		if len(recent) == MaxRecentlyViewed {
			break
		}
		recent = append(recent, existing)
	}

	l.RecentlyViewed = recent
}

func (l Library) IsBookmarked(id ProjectID) bool {
	for _, bookmark := range l.Bookmarks {
		if bookmark == id {
			return true
		}
	}
	return false
}

// NormalizeBookmarks drops empty and duplicate ids, preserving first-seen order.
func (l *Library) NormalizeBookmarks() {
	if l == nil {
		return
	}

	bookmarks := make([]ProjectID, 0, len(l.Bookmarks))
	seen := make(map[ProjectID]struct{}, len(l.Bookmarks))
	for _, bookmark := range l.Bookmarks {
		trimmed := ProjectID(strings.TrimSpace(string(bookmark)))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		bookmarks = append(bookmarks, trimmed)
	}

	l.Bookmarks = bookmarks
}
