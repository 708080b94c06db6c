package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultSearchLimit     = 20
	DefaultSearchSortBy    = "created_at"
	DefaultSearchSortOrder = "desc"
)

type SearchFilters struct {
	Query        string
	Department   string
	SupervisorID UserID
	Status       ProjectStatus
	Tags         []string
	SortBy       string
	SortOrder    string
	Offset       int
	Limit        int
}

type ResultPage struct {
	Items   []Project
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

func DefaultSearchFilters() SearchFilters {
	return SearchFilters{
		SortBy:    DefaultSearchSortBy,
		SortOrder: DefaultSearchSortOrder,
		Limit:     DefaultSearchLimit,
	}
}

// Merge returns f with every non-zero field of patch applied over it.
func (f SearchFilters) Merge(patch SearchFilters) SearchFilters {
	merged := f
	if patch.Query != "" {
		merged.Query = patch.Query
	}
	if patch.Department != "" {
		merged.Department = patch.Department
	}
	if patch.SupervisorID != "" {
		merged.SupervisorID = patch.SupervisorID
	}
	if patch.Status != "" {
		merged.Status = patch.Status
	}
	if len(patch.Tags) > 0 {
		merged.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.SortBy != "" {
		merged.SortBy = patch.SortBy
	}
	if patch.SortOrder != "" {
		merged.SortOrder = patch.SortOrder
	}
	if patch.Offset > 0 {
		merged.Offset = patch.Offset
	}
	if patch.Limit > 0 {
		merged.Limit = patch.Limit
	}

	return merged
}

// Fingerprint identifies the query independently of tag order and surrounding whitespace.
func (f SearchFilters) Fingerprint() string {
	tags := make([]string, 0, len(f.Tags))
	for _, tag := range f.Tags {
		if trimmed := strings.ToLower(strings.TrimSpace(tag)); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	sort.Strings(tags)

	raw := strings.Join([]string{
		strings.TrimSpace(f.Query),
		strings.TrimSpace(f.Department),
		strings.TrimSpace(string(f.SupervisorID)),
		string(f.Status),
		strings.Join(tags, ","),
		f.SortBy,
		f.SortOrder,
		fmt.Sprintf("%d", f.Offset),
		fmt.Sprintf("%d", f.Limit),
	}, "|")
	hash := sha1.Sum([]byte(raw))
	return hex.EncodeToString(hash[:])
}
