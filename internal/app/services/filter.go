package services

import (
	"strings"

	"github.com/chmouel/lazychanges/internal/models"
)

// FilterService stores the filter and search queries for the tree pane.
// Filtering narrows the record set before the forest is reassembled;
// searching jumps the cursor between matching rows without narrowing.
type FilterService struct {
	FilterQuery string
	SearchQuery string
}

// NewFilterService creates a FilterService with an optional initial filter.
func NewFilterService(initialFilter string) *FilterService {
	return &FilterService{FilterQuery: initialFilter}
}

// Apply returns the records whose path contains the filter query,
// case-insensitively. An empty query returns the input unchanged.
func (f *FilterService) Apply(records []models.ChangedFile) []models.ChangedFile {
	query := strings.ToLower(strings.TrimSpace(f.FilterQuery))
	if query == "" {
		return records
	}
	matched := make([]models.ChangedFile, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Path), query) {
			matched = append(matched, record)
		}
	}
	return matched
}

// MatchesSearch reports whether a row name matches the search query.
func (f *FilterService) MatchesSearch(name string) bool {
	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), query)
}
