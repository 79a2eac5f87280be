package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/at-ishikawa/notesync/internal/auth"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func newTestClient(t *testing.T, handler func(t *testing.T, w http.ResponseWriter, r *http.Request)) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		handler(t, w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, auth.NewStaticProvider("token"), 0)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestResource_List(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/notes", r.URL.Path)
		writeJSON(t, w, http.StatusOK, `{"data":[
			{"id":"n1","user_id":"u","title":"First","content":"a","tags":"x|y","created_at":"2025-01-01T00:00:00Z","updated_at":null},
			{"id":"n2","user_id":"u","title":"Second","content":"","tags":null,"created_at":null,"updated_at":null}
		]}`)
	})

	notes, err := NewNotes(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "First", notes[0].Title)
	require.NotNil(t, notes[0].Tags)
	assert.Equal(t, "x|y", *notes[0].Tags)
	assert.Nil(t, notes[1].Tags)
}

func TestResource_Get(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    entity.Note
		wantErr error
	}{
		{
			name:   "found",
			status: http.StatusOK,
			body:   `{"data":{"id":"n1","title":"Plan","content":"steps"}}`,
			want:   entity.Note{ID: "n1", Title: "Plan", Content: "steps"},
		},
		{
			name:    "missing",
			status:  http.StatusNotFound,
			body:    `{"error":"Note not found"}`,
			wantErr: ErrNotFound,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":"boom"}`,
			wantErr: ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/notes/n1", r.URL.Path)
				writeJSON(t, w, tt.status, tt.body)
			})

			got, err := NewNotes(client).Get(context.Background(), "n1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResource_UpdateSendsWholeGroup(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/notes/n1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"title": "Plan", "content": "", "tags": nil}, body)

		writeJSON(t, w, http.StatusOK, `{"data":{"id":"n1","title":"Plan","content":"","tags":null,"updated_at":"2025-03-01T10:00:00Z"}}`)
	})

	updated, err := NewNotes(client).Update(context.Background(), "n1", entity.Fields{"title": "Plan", "content": "", "tags": ""})
	require.NoError(t, err)
	assert.Equal(t, "Plan", updated.Title)
	assert.NotNil(t, updated.LastUpdated())
}

func TestResource_CreateBookmark(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		client := newTestClient(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/bookmarks", r.URL.Path)

			var body entity.BookmarkInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Go", body.Title)
			assert.Equal(t, "https://go.dev", body.URL)

			writeJSON(t, w, http.StatusCreated, `{"data":{"id":"b1","title":"Go","url":"https://go.dev","status":"unread","time_added":1700000000}}`)
		})

		created, err := NewBookmarks(client).Create(context.Background(), entity.Fields{"title": "Go", "url": "https://go.dev"})
		require.NoError(t, err)
		assert.Equal(t, "b1", created.ID)
		assert.Equal(t, entity.BookmarkStatusUnread, created.Status)
	})

	t.Run("invalid input is not sent", func(t *testing.T) {
		client := newTestClient(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
			assert.Fail(t, "unexpected request")
		})

		_, err := NewBookmarks(client).Create(context.Background(), entity.Fields{"title": "Go"})
		assert.ErrorIs(t, err, entity.ErrInvalidBookmark)
	})
}

func TestResource_Delete(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "deleted", status: http.StatusOK},
		{name: "no content", status: http.StatusNoContent},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/v1/bookmarks/b1", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			err := NewBookmarks(client).Delete(context.Background(), "b1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResource_NoSessionFailsFast(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient(server.URL, auth.NewStaticProvider(""), 0)
	defer func() {
		_ = client.Close()
	}()

	_, err := NewNotes(client).Update(context.Background(), "n1", entity.Fields{"title": "x"})
	assert.ErrorIs(t, err, auth.ErrNoSession)
	_, err = client.LookupPage(context.Background(), "https://go.dev")
	assert.ErrorIs(t, err, auth.ErrNoSession)
	assert.Zero(t, requests)
}

func TestClient_LookupPage(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantTitle string
		wantImage string
	}{
		{
			name:      "found",
			status:    http.StatusOK,
			body:      `{"ogImage":"https://go.dev/og.png","title":"The Go Programming Language"}`,
			wantTitle: "The Go Programming Language",
			wantImage: "https://go.dev/og.png",
		},
		{
			name:   "lookup failure yields empty metadata",
			status: http.StatusBadGateway,
			body:   `{"error":"upstream"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/bookmarks/og-image", r.URL.Path)
				assert.Equal(t, "https://go.dev/?a=1", r.URL.Query().Get("url"))
				writeJSON(t, w, tt.status, tt.body)
			})

			info, err := client.LookupPage(context.Background(), "https://go.dev/?a=1")
			require.NoError(t, err)
			if tt.wantTitle == "" {
				assert.Nil(t, info.Title)
				assert.Nil(t, info.OGImage)
				return
			}
			require.NotNil(t, info.Title)
			require.NotNil(t, info.OGImage)
			assert.Equal(t, tt.wantTitle, *info.Title)
			assert.Equal(t, tt.wantImage, *info.OGImage)
		})
	}
}
