package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir, "http://127.0.0.1:1")

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "base_url: http://127.0.0.1:1")
	assert.Contains(t, string(content), "access_token: test-token")

	info, err := os.Stat(filepath.Join(tmpDir, "notes"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteNoteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := WriteNoteFile(t, dir, "n1", "hello")

	assert.Equal(t, filepath.Join(dir, "n1.md"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestNoteServer(t *testing.T) {
	server := NewNoteServer(t, entity.Note{ID: "n1", Title: "First"})

	body, err := json.Marshal(entity.NoteInput{Title: "Renamed", Content: "body"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, server.URL+"/v1/notes/n1", bytes.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	notes := server.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "Renamed", notes[0].Title)
	assert.NotNil(t, notes[0].UpdatedAt)
	assert.Len(t, server.Updates(), 1)

	res, err = http.Get(server.URL + "/v1/notes/missing")
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
