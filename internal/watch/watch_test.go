package watch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/at-ishikawa/notesync/internal/api"
	"github.com/at-ishikawa/notesync/internal/auth"
	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotes(t *testing.T, server *testutil.NoteServer) *api.Resource[entity.Note] {
	t.Helper()
	client := api.NewClient(server.URL, auth.NewStaticProvider("token"), 0)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return api.NewNotes(client)
}

func lastContent(server *testutil.NoteServer) string {
	updates := server.Updates()
	if len(updates) == 0 {
		return ""
	}
	return updates[len(updates)-1].Content
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(t.TempDir(), "[", nil)
	assert.Error(t, err)
}

func TestWatcher_noteID(t *testing.T) {
	dir := filepath.Join("/", "notes")
	tests := []struct {
		name    string
		pattern string
		path    string
		wantID  string
		wantOK  bool
	}{
		{
			name:    "top level markdown",
			pattern: "**/*.md",
			path:    filepath.Join(dir, "n1.md"),
			wantID:  "n1",
			wantOK:  true,
		},
		{
			name:    "nested markdown",
			pattern: "**/*.md",
			path:    filepath.Join(dir, "work", "n2.md"),
			wantID:  "n2",
			wantOK:  true,
		},
		{
			name:    "pattern mismatch",
			pattern: "**/*.md",
			path:    filepath.Join(dir, "n1.txt"),
		},
		{
			name:    "outside directory",
			pattern: "**/*.md",
			path:    filepath.Join("/", "other", "n1.md"),
		},
		{
			name:    "hidden file",
			pattern: "**/*",
			path:    filepath.Join(dir, ".swp"),
		},
		{
			name:    "top level only",
			pattern: "*.md",
			path:    filepath.Join(dir, "work", "n2.md"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(dir, tt.pattern, nil)
			require.NoError(t, err)
			id, ok := w.noteID(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestWatcher_WriteAutosaves(t *testing.T) {
	server := testutil.NewNoteServer(t, entity.Note{ID: "n1", Title: "Plan", Content: "old"})
	dir := t.TempDir()
	path := testutil.WriteNoteFile(t, dir, "n1", "old")

	w, err := New(dir, "**/*.md", newNotes(t, server),
		WithSessionOptions(autosave.WithDelay(30*time.Millisecond)))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)

	testutil.WriteNoteFile(t, dir, "n1", "draft one")
	testutil.WriteNoteFile(t, dir, "n1", "draft two")

	assert.Eventually(t, func() bool {
		return lastContent(server) == "draft two"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Plan", server.Notes()[0].Title)
	assert.FileExists(t, path)

	state := w.State().(WatcherState)
	assert.True(t, state.Running)
	assert.Equal(t, []string{"n1"}, state.Sessions)
	assert.Positive(t, state.Events)
}

func TestWatcher_UnknownNoteSkipped(t *testing.T) {
	server := testutil.NewNoteServer(t)
	dir := t.TempDir()

	w, err := New(dir, "**/*.md", newNotes(t, server))
	require.NoError(t, err)

	w.Apply(context.Background(), "ghost", "text")
	w.Apply(context.Background(), "ghost", "more")

	_, ok := w.Session("ghost")
	assert.False(t, ok)
	state := w.State().(WatcherState)
	assert.Equal(t, []string{"ghost"}, state.Skipped)
	assert.Zero(t, state.Events)
	assert.Empty(t, server.Updates())
}

func TestWatcher_StopFlushesPending(t *testing.T) {
	server := testutil.NewNoteServer(t, entity.Note{ID: "n1", Title: "Plan", Content: "old"})
	dir := t.TempDir()

	w, err := New(dir, "**/*.md", newNotes(t, server),
		WithSessionOptions(autosave.WithDelay(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Apply(context.Background(), "n1", "typed but not settled")
	session, ok := w.Session("n1")
	require.True(t, ok)
	assert.Equal(t, "typed but not settled", session.Draft().Get(entity.FieldContent))
	assert.Empty(t, server.Updates())

	w.Stop()

	assert.Equal(t, "typed but not settled", lastContent(server))
	_, ok = w.Session("n1")
	assert.False(t, ok)
	assert.False(t, w.State().(WatcherState).Running)
}

func TestWatcher_StartTwice(t *testing.T) {
	w, err := New(t.TempDir(), "**/*.md", newNotes(t, testutil.NewNoteServer(t)))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)

	assert.ErrorIs(t, w.Start(context.Background()), ErrStarted)
}
