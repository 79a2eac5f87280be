// Package testutil provides shared test helpers for config files, note files
// and an in-memory notes API.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file pointing at apiURL and the
// notes directory under tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, apiURL string) string {
	t.Helper()

	notesDir := filepath.Join(tmpDir, "notes")
	require.NoError(t, os.MkdirAll(notesDir, 0755))

	configContent := fmt.Sprintf(`api:
  base_url: %s
  access_token: test-token
auth:
  session_file: %s
autosave:
  delay: 20ms
search:
  delay: 10ms
watch:
  directory: %s
  pattern: "**/*.md"
`,
		apiURL,
		filepath.Join(tmpDir, "session.toml"),
		notesDir,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteNoteFile writes content to <dir>/<id>.md and returns the path.
func WriteNoteFile(t *testing.T, dir, id, content string) string {
	t.Helper()
	path := filepath.Join(dir, id+".md")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// NoteServer is an in-memory implementation of the /v1/notes endpoints.
type NoteServer struct {
	*httptest.Server

	mu      sync.Mutex
	notes   []entity.Note
	updates []entity.NoteInput
	nextID  int
}

// NewNoteServer starts a server holding notes. It is closed on test cleanup.
func NewNoteServer(t *testing.T, notes ...entity.Note) *NoteServer {
	t.Helper()
	s := &NoteServer{notes: notes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Notes returns a copy of the stored notes.
func (s *NoteServer) Notes() []entity.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Note(nil), s.notes...)
}

// Updates returns every update body received so far.
func (s *NoteServer) Updates() []entity.NoteInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.NoteInput(nil), s.updates...)
}

func (s *NoteServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, hasID := strings.CutPrefix(r.URL.Path, "/v1/notes/")
	switch {
	case r.URL.Path == "/v1/notes" && r.Method == http.MethodGet:
		writeData(w, http.StatusOK, s.notes)
	case r.URL.Path == "/v1/notes" && r.Method == http.MethodPost:
		var input entity.NoteInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeData(w, http.StatusBadRequest, err.Error())
			return
		}
		s.nextID++
		note := applyInput(entity.Note{ID: fmt.Sprintf("new-%d", s.nextID), UserID: "user"}, input)
		s.notes = append([]entity.Note{note}, s.notes...)
		writeData(w, http.StatusCreated, note)
	case hasID:
		index := s.indexOf(id)
		if index < 0 {
			writeData(w, http.StatusNotFound, "note not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeData(w, http.StatusOK, s.notes[index])
		case http.MethodPut:
			var input entity.NoteInput
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
				writeData(w, http.StatusBadRequest, err.Error())
				return
			}
			s.updates = append(s.updates, input)
			s.notes[index] = applyInput(s.notes[index], input)
			writeData(w, http.StatusOK, s.notes[index])
		case http.MethodDelete:
			s.notes = append(s.notes[:index], s.notes[index+1:]...)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *NoteServer) indexOf(id string) int {
	for i, note := range s.notes {
		if note.ID == id {
			return i
		}
	}
	return -1
}

func applyInput(note entity.Note, input entity.NoteInput) entity.Note {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	note.Title = input.Title
	note.Content = input.Content
	note.Tags = input.Tags
	if note.CreatedAt == nil {
		note.CreatedAt = &now
	}
	note.UpdatedAt = &now
	return note
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}
