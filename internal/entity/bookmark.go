package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type BookmarkStatus string

const (
	BookmarkStatusUnread   BookmarkStatus = "unread"
	BookmarkStatusRead     BookmarkStatus = "read"
	BookmarkStatusArchived BookmarkStatus = "archived"
)

var AllBookmarkStatuses = []BookmarkStatus{
	BookmarkStatusUnread,
	BookmarkStatusRead,
	BookmarkStatusArchived,
}

type Bookmark struct {
	ID        string         `json:"id" yaml:"id"`
	UserID    string         `json:"user_id" yaml:"user_id"`
	Title     string         `json:"title" yaml:"title"`
	URL       string         `json:"url" yaml:"url"`
	TimeAdded int64          `json:"time_added" yaml:"time_added"`
	Tags      *string        `json:"tags" yaml:"tags"`
	Status    BookmarkStatus `json:"status" yaml:"status"`
	CreatedAt *string        `json:"created_at" yaml:"created_at"`
	UpdatedAt *string        `json:"updated_at" yaml:"updated_at"`
	OGImage   *string        `json:"ogImage,omitempty" yaml:"og_image,omitempty"`
}

// BookmarkInput is the body of a bookmark create or update request.
type BookmarkInput struct {
	Title  string         `json:"title" validate:"required"`
	URL    string         `json:"url" validate:"required,url"`
	Tags   *string        `json:"tags"`
	Status BookmarkStatus `json:"status,omitempty" validate:"omitempty,oneof=read unread archived"`
}

var ErrInvalidBookmark = errors.New("invalid bookmark")

var bookmarkValidator = validator.New()

// Validate checks that a bookmark has a title and an absolute URL.
func (in BookmarkInput) Validate() error {
	if err := bookmarkValidator.Struct(in); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("bookmarkValidator.Struct > %w", err)
		}
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(e.Field()), e.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidBookmark, strings.Join(msgs, ", "))
	}
	return nil
}

func (b Bookmark) EntityID() string {
	return b.ID
}

func (b Bookmark) EditableFields() Fields {
	return Fields{
		FieldTitle:  b.Title,
		FieldURL:    b.URL,
		FieldTags:   deref(b.Tags),
		FieldStatus: string(b.Status),
	}
}

func (b Bookmark) LastUpdated() *time.Time {
	if updated := parseTime(b.UpdatedAt); updated != nil {
		return updated
	}
	if created := parseTime(b.CreatedAt); created != nil {
		return created
	}
	if b.TimeAdded > 0 {
		t := time.Unix(b.TimeAdded, 0)
		return &t
	}
	return nil
}

func (b Bookmark) SearchFields() []string {
	return []string{b.Title, b.URL, deref(b.Tags)}
}

func (b Bookmark) TagList() []string {
	return SplitTags(deref(b.Tags))
}

func NewBookmarkInput(fields Fields) BookmarkInput {
	return BookmarkInput{
		Title:  fields.Get(FieldTitle),
		URL:    fields.Get(FieldURL),
		Tags:   nullable(fields.Get(FieldTags)),
		Status: BookmarkStatus(fields.Get(FieldStatus)),
	}
}
