// Package collection holds the list of entities a view displays and keeps it
// consistent with confirmed server mutations.
package collection

import (
	"github.com/at-ishikawa/notesync/internal/entity"
)

// InsertFront returns a new slice with item placed before items.
func InsertFront[E entity.Entity](items []E, item E) []E {
	result := make([]E, 0, len(items)+1)
	result = append(result, item)
	return append(result, items...)
}

// ReplaceByID returns a copy of items where the entry with item's id is
// replaced. Items without a match are returned unchanged.
func ReplaceByID[E entity.Entity](items []E, item E) []E {
	result := make([]E, len(items))
	for i, existing := range items {
		if existing.EntityID() == item.EntityID() {
			result[i] = item
			continue
		}
		result[i] = existing
	}
	return result
}

// RemoveByID returns a copy of items without the entry with id.
func RemoveByID[E entity.Entity](items []E, id string) []E {
	result := make([]E, 0, len(items))
	for _, existing := range items {
		if existing.EntityID() != id {
			result = append(result, existing)
		}
	}
	return result
}
