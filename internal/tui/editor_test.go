package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/entity"
	mock_autosave "github.com/at-ishikawa/notesync/internal/mocks/autosave"
	"github.com/at-ishikawa/notesync/internal/savestatus"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func typeRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func newEditorSession(t *testing.T, store autosave.Store[entity.Note]) *autosave.Session[entity.Note] {
	t.Helper()
	note := entity.Note{ID: "n1", Title: "Plan", Content: "body"}
	session := autosave.NewSession(context.Background(), note, store, autosave.WithDelay(time.Hour))
	t.Cleanup(session.Close)
	return session
}

func TestEditor_Typing(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := newEditorSession(t, mock_autosave.NewMockStore[entity.Note](ctrl))

	m, _ := send(t, NewEditor(context.Background(), session, NoteFields),
		typeRunes("!"),
		tea.KeyMsg{Type: tea.KeyTab},
		typeRunes("?"),
		tea.KeyMsg{Type: tea.KeyTab},
		typeRunes("go"),
	)

	draft := session.Draft()
	assert.Equal(t, "Plan!", draft.Get(entity.FieldTitle))
	assert.Equal(t, "body?", draft.Get(entity.FieldContent))
	assert.Equal(t, "go", draft.Get(entity.FieldTags))
	assert.Equal(t, savestatus.StatePending, session.Status().State)
	assert.Contains(t, m.View(), "Unsaved changes")
}

func TestEditor_ShiftTabWraps(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := newEditorSession(t, mock_autosave.NewMockStore[entity.Note](ctrl))

	send(t, NewEditor(context.Background(), session, NoteFields),
		tea.KeyMsg{Type: tea.KeyShiftTab},
		typeRunes("x"),
	)
	assert.Equal(t, "x", session.Draft().Get(entity.FieldTags))
}

func TestEditor_ManualSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_autosave.NewMockStore[entity.Note](ctrl)
	saved := entity.Note{ID: "n1", Title: "Plans", Content: "body"}
	store.EXPECT().
		Update(gomock.Any(), "n1", entity.Fields{entity.FieldTitle: "Plans", entity.FieldContent: "body", entity.FieldTags: ""}).
		Return(saved, nil).
		Times(1)
	session := newEditorSession(t, store)

	m, _ := send(t, NewEditor(context.Background(), session, NoteFields),
		typeRunes("s"),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	session.Wait()

	assert.Equal(t, "Plans", session.Baseline().Get(entity.FieldTitle))
	m, _ = send(t, m, statusTickMsg(time.Now()))
	assert.Contains(t, m.View(), "Saved")
}

func TestEditor_ShowsServerNormalizedValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_autosave.NewMockStore[entity.Note](ctrl)
	store.EXPECT().
		Update(gomock.Any(), "n1", gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, fields entity.Fields) (entity.Note, error) {
			return entity.Note{
				ID:      id,
				Title:   strings.TrimSpace(fields.Get(entity.FieldTitle)),
				Content: fields.Get(entity.FieldContent),
			}, nil
		}).
		Times(1)
	session := newEditorSession(t, store)

	m, _ := send(t, NewEditor(context.Background(), session, NoteFields),
		typeRunes(" x "),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	session.Wait()
	m, _ = send(t, m, statusTickMsg(time.Now()))

	assert.Equal(t, "Plan x", session.Draft().Get(entity.FieldTitle))
	assert.Equal(t, "Plan x", m.(Editor).fields[0].value())
	assert.Contains(t, m.View(), "Saved")

	// further typing starts from the shown value
	send(t, m, typeRunes("!"))
	assert.Equal(t, "Plan x!", session.Draft().Get(entity.FieldTitle))
}

func TestEditor_KeepsTypingOverServerValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := newEditorSession(t, mock_autosave.NewMockStore[entity.Note](ctrl))

	m, _ := send(t, NewEditor(context.Background(), session, NoteFields), typeRunes("s"))
	m, _ = send(t, m, statusTickMsg(time.Now()))

	assert.Equal(t, "Plans", m.(Editor).fields[0].value())
	assert.Equal(t, "Plans", session.Draft().Get(entity.FieldTitle))
}

func TestEditor_Delete(t *testing.T) {
	tests := []struct {
		name        string
		deleteErr   error
		wantDeleted bool
		wantQuit    bool
	}{
		{
			name:        "confirmed delete closes the editor",
			wantDeleted: true,
			wantQuit:    true,
		},
		{
			name:      "failed delete keeps the editor open",
			deleteErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mock_autosave.NewMockStore[entity.Note](ctrl)
			store.EXPECT().Delete(gomock.Any(), "n1").Return(tt.deleteErr).Times(1)
			session := newEditorSession(t, store)

			m, cmd := send(t, NewEditor(context.Background(), session, NoteFields),
				tea.KeyMsg{Type: tea.KeyCtrlD},
			)
			assert.Nil(t, cmd)
			assert.Contains(t, m.View(), "Delete this item?")

			m, cmd = send(t, m, typeRunes("y"))
			require.NotNil(t, cmd)
			m, cmd = send(t, m, cmd())

			result := m.(Editor).Result()
			assert.Equal(t, tt.wantDeleted, result.Deleted)
			assert.Equal(t, tt.wantQuit, isQuit(cmd))
			if tt.deleteErr != nil {
				assert.ErrorIs(t, result.Err, tt.deleteErr)
			}
		})
	}
}

func TestEditor_DeleteCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := newEditorSession(t, mock_autosave.NewMockStore[entity.Note](ctrl))

	m, cmd := send(t, NewEditor(context.Background(), session, NoteFields),
		tea.KeyMsg{Type: tea.KeyCtrlD},
		typeRunes("n"),
	)
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "Delete this item?")

	// Keys typed after cancelling reach the inputs again.
	send(t, m, typeRunes("n"))
	assert.Equal(t, "Plann", session.Draft().Get(entity.FieldTitle))
}

func TestEditor_Quit(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := newEditorSession(t, mock_autosave.NewMockStore[entity.Note](ctrl))

	_, cmd := send(t, NewEditor(context.Background(), session, NoteFields), tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, isQuit(cmd))
}

func TestEditor_ErrorClearedByLaterSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_autosave.NewMockStore[entity.Note](ctrl)
	store.EXPECT().Delete(gomock.Any(), "n1").Return(errors.New("boom"))
	session := newEditorSession(t, store)

	m, cmd := send(t, NewEditor(context.Background(), session, NoteFields),
		tea.KeyMsg{Type: tea.KeyCtrlD},
		typeRunes("y"),
	)
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	assert.Contains(t, m.View(), "boom")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.NoError(t, m.(Editor).Result().Err)
	assert.NotContains(t, m.View(), "boom")
}
