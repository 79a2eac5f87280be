package entity

import (
	"strings"
	"time"
)

type Note struct {
	ID        string  `json:"id" yaml:"id"`
	UserID    string  `json:"user_id" yaml:"user_id"`
	Title     string  `json:"title" yaml:"title"`
	Content   string  `json:"content" yaml:"content"`
	Tags      *string `json:"tags" yaml:"tags"`
	CreatedAt *string `json:"created_at" yaml:"created_at"`
	UpdatedAt *string `json:"updated_at" yaml:"updated_at"`
}

// NoteInput is the body of a note create or update request.
// Every field is sent; empty tags are sent as null.
type NoteInput struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Tags    *string `json:"tags"`
}

func (n Note) EntityID() string {
	return n.ID
}

func (n Note) EditableFields() Fields {
	return Fields{
		FieldTitle:   n.Title,
		FieldContent: n.Content,
		FieldTags:    deref(n.Tags),
	}
}

func (n Note) LastUpdated() *time.Time {
	if updated := parseTime(n.UpdatedAt); updated != nil {
		return updated
	}
	return parseTime(n.CreatedAt)
}

func (n Note) SearchFields() []string {
	return []string{n.Title, n.Content, deref(n.Tags)}
}

func (n Note) TagList() []string {
	return SplitTags(deref(n.Tags))
}

// Markdown renders the note as a markdown document headed by its title.
func (n Note) Markdown() string {
	var sb strings.Builder
	title := n.Title
	if title == "" {
		title = "Untitled"
	}
	sb.WriteString("# " + title + "\n\n")
	if tags := n.TagList(); len(tags) > 0 {
		sb.WriteString("_" + strings.Join(tags, ", ") + "_\n\n")
	}
	sb.WriteString(n.Content)
	sb.WriteString("\n")
	return sb.String()
}

func NewNoteInput(fields Fields) NoteInput {
	return NoteInput{
		Title:   fields.Get(FieldTitle),
		Content: fields.Get(FieldContent),
		Tags:    nullable(fields.Get(FieldTags)),
	}
}
