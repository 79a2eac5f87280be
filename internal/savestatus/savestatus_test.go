package savestatus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestMachine(opts ...Option) *Machine {
	return New(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func TestMachine_Transitions(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name    string
		from    []func(*Machine) error
		event   func(*Machine) error
		want    State
		wantErr bool
	}{
		{
			name:  "idle to pending",
			event: (*Machine).MarkPending,
			want:  StatePending,
		},
		{
			name:  "pending to saving",
			from:  []func(*Machine) error{(*Machine).MarkPending},
			event: (*Machine).MarkSaving,
			want:  StateSaving,
		},
		{
			name:  "saving to saved",
			from:  []func(*Machine) error{(*Machine).MarkPending, (*Machine).MarkSaving},
			event: (*Machine).MarkSaved,
			want:  StateSaved,
		},
		{
			name:  "saving to error",
			from:  []func(*Machine) error{(*Machine).MarkPending, (*Machine).MarkSaving},
			event: func(m *Machine) error { return m.MarkError(errBoom) },
			want:  StateError,
		},
		{
			name: "error to pending",
			from: []func(*Machine) error{
				(*Machine).MarkPending, (*Machine).MarkSaving,
				func(m *Machine) error { return m.MarkError(errBoom) },
			},
			event: (*Machine).MarkPending,
			want:  StatePending,
		},
		{
			name:  "saved to pending",
			from:  []func(*Machine) error{(*Machine).MarkPending, (*Machine).MarkSaving, (*Machine).MarkSaved},
			event: (*Machine).MarkPending,
			want:  StatePending,
		},
		{
			name:  "pending stays saving while a request is in flight",
			from:  []func(*Machine) error{(*Machine).MarkPending, (*Machine).MarkSaving},
			event: (*Machine).MarkPending,
			want:  StateSaving,
		},
		{
			name:  "clean pending without previous save goes idle",
			from:  []func(*Machine) error{(*Machine).MarkPending},
			event: (*Machine).MarkClean,
			want:  StateIdle,
		},
		{
			name: "clean pending after a save goes back to saved",
			from: []func(*Machine) error{
				(*Machine).MarkPending, (*Machine).MarkSaving, (*Machine).MarkSaved, (*Machine).MarkPending,
			},
			event: (*Machine).MarkClean,
			want:  StateSaved,
		},
		{
			name:    "idle cannot start saving",
			event:   (*Machine).MarkSaving,
			want:    StateIdle,
			wantErr: true,
		},
		{
			name:    "idle cannot be saved",
			event:   (*Machine).MarkSaved,
			want:    StateIdle,
			wantErr: true,
		},
		{
			name:    "pending cannot fail",
			from:    []func(*Machine) error{(*Machine).MarkPending},
			event:   func(m *Machine) error { return m.MarkError(errBoom) },
			want:    StatePending,
			wantErr: true,
		},
		{
			name:    "saving cannot start again",
			from:    []func(*Machine) error{(*Machine).MarkPending, (*Machine).MarkSaving},
			event:   (*Machine).MarkSaving,
			want:    StateSaving,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine()
			for _, step := range tt.from {
				require.NoError(t, step(m))
			}

			err := tt.event(m)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, m.State())
		})
	}
}

func TestMachine_Snapshot(t *testing.T) {
	m := newTestMachine()
	require.NoError(t, m.MarkPending())
	require.NoError(t, m.MarkSaving())
	require.NoError(t, m.MarkError(errors.New("status 500")))

	snapshot := m.Snapshot()
	assert.Equal(t, StateError, snapshot.State)
	assert.Equal(t, "status 500", snapshot.LastError)
	assert.Nil(t, snapshot.LastSavedAt)
	assert.Equal(t, "Save failed", snapshot.Text())

	require.NoError(t, m.MarkPending())
	require.NoError(t, m.MarkSaving())
	require.NoError(t, m.MarkSaved())

	snapshot = m.Snapshot()
	assert.Equal(t, StateSaved, snapshot.State)
	assert.Empty(t, snapshot.LastError)
	require.NotNil(t, snapshot.LastSavedAt)
	assert.Equal(t, fixedNow, *snapshot.LastSavedAt)
	assert.Contains(t, snapshot.Text(), "Saved")
}

func TestSnapshot_Text(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, ""},
		{StatePending, "Unsaved changes"},
		{StateSaving, "Saving..."},
		{StateSaved, "Saved"},
		{StateError, "Save failed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, Snapshot{State: tt.state}.Text())
		})
	}
}

func TestMachine_WithLastSaved(t *testing.T) {
	m := newTestMachine(WithLastSaved(fixedNow.Add(-time.Hour)))
	assert.Equal(t, StateSaved, m.State())

	require.NoError(t, m.MarkPending())
	require.NoError(t, m.MarkClean())
	assert.Equal(t, StateSaved, m.State())
}

func TestMachine_Subscribe(t *testing.T) {
	m := newTestMachine()
	var got []State
	unsubscribe := m.Subscribe(func(s Snapshot) {
		got = append(got, s.State)
	})

	require.NoError(t, m.MarkPending())
	require.NoError(t, m.MarkPending())
	require.NoError(t, m.MarkSaving())
	require.NoError(t, m.MarkSaved())
	unsubscribe()
	require.NoError(t, m.MarkPending())

	assert.Equal(t, []State{StatePending, StateSaving, StateSaved}, got)
}
