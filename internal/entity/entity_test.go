package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestFields_Equal(t *testing.T) {
	tests := []struct {
		name string
		a    Fields
		b    Fields
		want bool
	}{
		{
			name: "identical",
			a:    Fields{"title": "a", "content": "b"},
			b:    Fields{"title": "a", "content": "b"},
			want: true,
		},
		{
			name: "missing key equals empty string",
			a:    Fields{"title": "a", "tags": ""},
			b:    Fields{"title": "a"},
			want: true,
		},
		{
			name: "whitespace is significant",
			a:    Fields{"title": "a "},
			b:    Fields{"title": "a"},
			want: false,
		},
		{
			name: "nil and empty",
			a:    nil,
			b:    Fields{"title": ""},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestFields_CloneIsIndependent(t *testing.T) {
	original := Fields{"title": "a"}
	clone := original.Clone()
	clone["title"] = "b"

	assert.Equal(t, "a", original["title"])
	assert.Equal(t, Fields{}, Fields(nil).Clone())
}

func TestFields_IsEmpty(t *testing.T) {
	assert.True(t, Fields{"title": "", "content": ""}.IsEmpty())
	assert.True(t, Fields{}.IsEmpty())
	assert.False(t, Fields{"title": "", "content": " "}.IsEmpty())
}

func TestNote_EditableFields(t *testing.T) {
	note := Note{ID: "n1", Title: "Groceries", Content: "milk", Tags: nil}

	assert.Equal(t, Fields{"title": "Groceries", "content": "milk", "tags": ""}, note.EditableFields())
	assert.Equal(t, "n1", note.EntityID())
}

func TestNote_LastUpdated(t *testing.T) {
	tests := []struct {
		name string
		note Note
		want *time.Time
	}{
		{
			name: "updated_at wins",
			note: Note{CreatedAt: strPtr("2025-01-01T00:00:00Z"), UpdatedAt: strPtr("2025-02-01T10:00:00Z")},
			want: func() *time.Time { v := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC); return &v }(),
		},
		{
			name: "falls back to created_at",
			note: Note{CreatedAt: strPtr("2025-01-01T00:00:00Z")},
			want: func() *time.Time { v := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); return &v }(),
		},
		{
			name: "unparseable",
			note: Note{UpdatedAt: strPtr("yesterday")},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.note.LastUpdated()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

func TestNewNoteInput(t *testing.T) {
	input := NewNoteInput(Fields{"title": "t", "content": "", "tags": ""})
	assert.Equal(t, "t", input.Title)
	assert.Equal(t, "", input.Content)
	assert.Nil(t, input.Tags)

	input = NewNoteInput(Fields{"tags": "work|home"})
	require.NotNil(t, input.Tags)
	assert.Equal(t, "work|home", *input.Tags)
}

func TestNote_Markdown(t *testing.T) {
	note := Note{Title: "Plan", Content: "- step one", Tags: strPtr("work| home")}
	assert.Equal(t, "# Plan\n\n_work, home_\n\n- step one\n", note.Markdown())

	assert.Equal(t, "# Untitled\n\n\n", Note{}.Markdown())
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTags("a| b ||"))
	assert.Nil(t, SplitTags(""))
}

func TestBookmarkInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   BookmarkInput
		wantErr bool
	}{
		{
			name:  "valid",
			input: BookmarkInput{Title: "Go", URL: "https://go.dev", Status: BookmarkStatusUnread},
		},
		{
			name:  "status is optional",
			input: BookmarkInput{Title: "Go", URL: "https://go.dev"},
		},
		{
			name:    "missing title",
			input:   BookmarkInput{URL: "https://go.dev"},
			wantErr: true,
		},
		{
			name:    "relative url",
			input:   BookmarkInput{Title: "Go", URL: "go.dev"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			input:   BookmarkInput{Title: "Go", URL: "https://go.dev", Status: "starred"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBookmark)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBookmark_Fields(t *testing.T) {
	bookmark := Bookmark{
		ID:        "b1",
		Title:     "Go",
		URL:       "https://go.dev",
		Tags:      strPtr("lang"),
		Status:    BookmarkStatusRead,
		TimeAdded: 1700000000,
	}

	assert.Equal(t, Fields{"title": "Go", "url": "https://go.dev", "tags": "lang", "status": "read"}, bookmark.EditableFields())
	assert.Equal(t, []string{"Go", "https://go.dev", "lang"}, bookmark.SearchFields())
	require.NotNil(t, bookmark.LastUpdated())
	assert.Equal(t, int64(1700000000), bookmark.LastUpdated().Unix())

	input := NewBookmarkInput(bookmark.EditableFields())
	assert.Equal(t, BookmarkStatusRead, input.Status)
	require.NotNil(t, input.Tags)
}
