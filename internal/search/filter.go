// Package search narrows a collection down to the entities matching a query.
package search

import (
	"strings"

	"github.com/at-ishikawa/notesync/internal/entity"
)

// Filter returns the entities whose title, primary content or raw tags
// contain query, ignoring case. A query that is empty after trimming returns
// entities unchanged. The query itself is matched untrimmed.
func Filter[E entity.Searchable](entities []E, query string) []E {
	if strings.TrimSpace(query) == "" {
		return entities
	}

	needle := strings.ToLower(query)
	var matched []E
	for _, e := range entities {
		if Matches(e, needle) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Matches reports whether any search field of e contains the lower-cased
// needle.
func Matches(e entity.Searchable, needle string) bool {
	for _, field := range e.SearchFields() {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
