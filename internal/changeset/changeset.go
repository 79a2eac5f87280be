// Package changeset decides whether a settled field group differs from the
// last persisted one.
package changeset

import (
	"github.com/at-ishikawa/notesync/internal/entity"
)

// Detect compares a settled snapshot with the baseline as one group.
// A snapshot whose fields are all empty is never dirty. Otherwise it is dirty
// when any field differs by exact string comparison, and the payload carries
// every field of the snapshot.
func Detect(settled, baseline entity.Fields) (entity.Fields, bool) {
	if settled.IsEmpty() {
		return nil, false
	}
	if settled.Equal(baseline) {
		return nil, false
	}
	return settled.Clone(), true
}

// Diff returns the sorted names of the fields whose values differ.
func Diff(a, b entity.Fields) []string {
	names := make(map[string]struct{}, len(a)+len(b))
	for name := range a {
		names[name] = struct{}{}
	}
	for name := range b {
		names[name] = struct{}{}
	}

	changed := entity.Fields{}
	for name := range names {
		if a.Get(name) != b.Get(name) {
			changed[name] = ""
		}
	}
	return changed.Names()
}
