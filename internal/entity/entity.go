// Package entity defines the records synchronized with the remote API and the
// flat field maps the autosave engine works on.
package entity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTags    = "tags"
	FieldURL     = "url"
	FieldStatus  = "status"
)

// TagSeparator separates tags inside the raw tags string.
const TagSeparator = "|"

// Fields maps an editable field name to its value.
// A missing key is equivalent to an empty string.
type Fields map[string]string

// Get returns the value of name, or "" when it is absent.
func (f Fields) Get(name string) string {
	return f[name]
}

func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// Equal compares two field groups by exact value. Missing keys count as "".
func (f Fields) Equal(other Fields) bool {
	for name, value := range f {
		if other[name] != value {
			return false
		}
	}
	for name, value := range other {
		if f[name] != value {
			return false
		}
	}
	return true
}

// IsEmpty reports whether every field holds an empty string.
func (f Fields) IsEmpty() bool {
	for _, value := range f {
		if value != "" {
			return false
		}
	}
	return true
}

// Names returns the field names in sorted order.
func (f Fields) Names() []string {
	return slices.Sorted(maps.Keys(f))
}

// Entity is a persisted record with a stable identity and a fixed group of
// editable text fields.
type Entity interface {
	EntityID() string
	EditableFields() Fields
	LastUpdated() *time.Time
}

// Searchable exposes the fields the incremental filter matches against.
type Searchable interface {
	SearchFields() []string
}

// SplitTags splits a raw tags string into trimmed, non-empty tags.
func SplitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, TagSeparator) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}
