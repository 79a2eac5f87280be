package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/at-ishikawa/notesync/internal/collection"
	"github.com/at-ishikawa/notesync/internal/entity"
)

// Resource is one REST collection such as /v1/notes.
type Resource[E entity.Entity] struct {
	client *Client
	path   string
	body   func(entity.Fields) any
	check  func(entity.Fields) error
}

func NewNotes(client *Client) *Resource[entity.Note] {
	return &Resource[entity.Note]{
		client: client,
		path:   "/v1/notes",
		body: func(fields entity.Fields) any {
			return entity.NewNoteInput(fields)
		},
	}
}

// NewBookmarks creates the bookmarks resource. New bookmarks need a title and
// an absolute URL.
func NewBookmarks(client *Client) *Resource[entity.Bookmark] {
	return &Resource[entity.Bookmark]{
		client: client,
		path:   "/v1/bookmarks",
		body: func(fields entity.Fields) any {
			return entity.NewBookmarkInput(fields)
		},
		check: func(fields entity.Fields) error {
			return entity.NewBookmarkInput(fields).Validate()
		},
	}
}

func (r *Resource[E]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[E]) List(ctx context.Context) ([]E, error) {
	request, err := r.client.request(ctx)
	if err != nil {
		return nil, err
	}

	response, err := request.
		SetResult(&envelope[[]E]{}).
		Get(r.path)
	if err := checkResponse(response, err, "Get"); err != nil {
		return nil, err
	}
	return response.Result().(*envelope[[]E]).Data, nil
}

// Get loads one entity. A missing entity yields ErrNotFound.
func (r *Resource[E]) Get(ctx context.Context, id string) (E, error) {
	var zero E
	request, err := r.client.request(ctx)
	if err != nil {
		return zero, err
	}

	response, err := request.
		SetResult(&envelope[E]{}).
		Get(r.itemPath(id))
	if err := checkResponse(response, err, "Get"); err != nil {
		return zero, err
	}
	return response.Result().(*envelope[E]).Data, nil
}

func (r *Resource[E]) Create(ctx context.Context, fields entity.Fields) (E, error) {
	var zero E
	if r.check != nil {
		if err := r.check(fields); err != nil {
			return zero, err
		}
	}
	request, err := r.client.request(ctx)
	if err != nil {
		return zero, err
	}

	response, err := request.
		SetBody(r.body(fields)).
		SetResult(&envelope[E]{}).
		Post(r.path)
	if err := checkResponse(response, err, "Post"); err != nil {
		return zero, err
	}
	return response.Result().(*envelope[E]).Data, nil
}

// Update sends every field of the group and returns the server's copy.
func (r *Resource[E]) Update(ctx context.Context, id string, fields entity.Fields) (E, error) {
	var zero E
	request, err := r.client.request(ctx)
	if err != nil {
		return zero, err
	}

	response, err := request.
		SetBody(r.body(fields)).
		SetResult(&envelope[E]{}).
		Put(r.itemPath(id))
	if err := checkResponse(response, err, "Put"); err != nil {
		return zero, err
	}
	return response.Result().(*envelope[E]).Data, nil
}

func (r *Resource[E]) Delete(ctx context.Context, id string) error {
	request, err := r.client.request(ctx)
	if err != nil {
		return err
	}

	response, err := request.Delete(r.itemPath(id))
	if err := checkResponse(response, err, "Delete"); err != nil {
		return fmt.Errorf("delete %s > %w", id, err)
	}
	return nil
}

var _ collection.Source[entity.Note] = (*Resource[entity.Note])(nil)
var _ collection.Source[entity.Bookmark] = (*Resource[entity.Bookmark])(nil)
