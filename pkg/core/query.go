package core

import (
	"slices"
	"strings"
)

// AllTags is the tag filter sentinel that disables tag filtering.
const AllTags = "all"

// SortKey selects the timestamp used to order a view.
type SortKey string

const (
	SortByCreated SortKey = "createdAt"
	SortByUpdated SortKey = "updatedAt"
)

// ParseSortKey maps a user-supplied key to a SortKey, falling back to SortByCreated.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByUpdated:
		return SortByUpdated
	default:
		return SortByCreated
	}
}

// Query describes which dreams to display and in which order.
type Query struct {
	Tag    string
	Search string
	Sort   SortKey
}

// DeriveView produces the display list for q from the full collection.
//
// Entries are sorted newest first by the chosen timestamp (ties keep their
// input order), then filtered by tag, then by a case-insensitive substring
// match on title or content. The input slice is never modified.
func DeriveView(entries []Dream, q Query) []Dream {
	sorted := slices.Clone(entries)
	key := ParseSortKey(string(q.Sort))
	slices.SortStableFunc(sorted, func(a, b Dream) int {
		return sortTime(b, key).Compare(sortTime(a, key).Time)
	})

	needle := strings.ToLower(q.Search)
	out := make([]Dream, 0, len(sorted))
	for _, d := range sorted {
		if q.Tag != "" && q.Tag != AllTags && !d.HasTag(q.Tag) {
			continue
		}
		if needle != "" && !matches(d, needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func sortTime(d Dream, key SortKey) Timestamp {
	if key == SortByUpdated {
		return d.UpdatedAt
	}
	return d.CreatedAt
}

func matches(d Dream, needle string) bool {
	return strings.Contains(strings.ToLower(d.Title), needle) ||
		strings.Contains(strings.ToLower(d.Content), needle)
}
