package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNote(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name: "pdf written",
			path: "note.pdf",
		},
		{
			name:    "wrong extension",
			path:    "note.md",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), tt.path)
			note := entity.Note{ID: "n1", Title: "Plan", Content: "- one\n- two"}

			got, err := RenderNote(note, out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
			info, err := os.Stat(got)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "n1.pdf"), DefaultPath("out", entity.Note{ID: "n1"}))
}
