// Package savestatus tracks what the user should be told about their edits.
package savestatus

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateSaving  State = "saving"
	StateSaved   State = "saved"
	StateError   State = "error"
)

var ErrInvalidTransition = errors.New("invalid save status transition")

// Snapshot is a point-in-time copy of the machine.
type Snapshot struct {
	State       State      `json:"state"`
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	ChangedAt   time.Time  `json:"changed_at"`
}

// Text renders the status line shown next to an editor.
func (s Snapshot) Text() string {
	switch s.State {
	case StatePending:
		return "Unsaved changes"
	case StateSaving:
		return "Saving..."
	case StateSaved:
		if s.LastSavedAt != nil {
			return "Saved " + s.LastSavedAt.Local().Format(time.Kitchen)
		}
		return "Saved"
	case StateError:
		return "Save failed"
	default:
		return ""
	}
}

// Listener receives every transition. It is called synchronously and must not
// call back into the machine.
type Listener func(Snapshot)

// Machine is the save-status state machine of one editing session.
//
//	idle|saved|error --MarkPending--> pending
//	pending --MarkSaving--> saving
//	saving --MarkSaved--> saved
//	saving --MarkError--> error
//	pending --MarkClean--> saved (if saved before) or idle
type Machine struct {
	now func() time.Time

	mu          sync.Mutex
	state       State
	lastSavedAt *time.Time
	lastError   error
	changedAt   time.Time
	listeners   map[int]Listener
	nextID      int
}

type Option func(*Machine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithLastSaved starts the machine in saved state.
func WithLastSaved(at time.Time) Option {
	return func(m *Machine) {
		m.state = StateSaved
		m.lastSavedAt = &at
	}
}

func New(opts ...Option) *Machine {
	m := &Machine{
		now:       time.Now,
		state:     StateIdle,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.changedAt = m.now()
	return m
}

// MarkPending records that a settled draft differs from the baseline.
// While saving it is a no-op: the status keeps showing the request.
func (m *Machine) MarkPending() error {
	return m.transition("MarkPending", func() (State, bool) {
		switch m.state {
		case StateIdle, StatePending, StateSaved, StateError:
			return StatePending, true
		case StateSaving:
			return StateSaving, true
		}
		return "", false
	})
}

// MarkSaving records that a persist request was dispatched.
func (m *Machine) MarkSaving() error {
	return m.transition("MarkSaving", func() (State, bool) {
		if m.state == StatePending {
			return StateSaving, true
		}
		return "", false
	})
}

// MarkSaved records a confirmed persist.
func (m *Machine) MarkSaved() error {
	return m.transition("MarkSaved", func() (State, bool) {
		if m.state != StateSaving {
			return "", false
		}
		now := m.now()
		m.lastSavedAt = &now
		m.lastError = nil
		return StateSaved, true
	})
}

// MarkError records a failed persist.
func (m *Machine) MarkError(cause error) error {
	return m.transition("MarkError", func() (State, bool) {
		if m.state != StateSaving {
			return "", false
		}
		m.lastError = cause
		return StateError, true
	})
}

// MarkClean records that the draft matches the baseline again without a
// persist, e.g. when the user typed a change and reverted it.
func (m *Machine) MarkClean() error {
	return m.transition("MarkClean", func() (State, bool) {
		switch m.state {
		case StatePending:
			if m.lastSavedAt != nil {
				return StateSaved, true
			}
			return StateIdle, true
		case StateIdle, StateSaved, StateError, StateSaving:
			return m.state, true
		}
		return "", false
	})
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers a listener for transitions and returns a function that
// removes it.
func (m *Machine) Subscribe(listener Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Machine) transition(event string, next func() (State, bool)) error {
	m.mu.Lock()
	from := m.state
	to, ok := next()
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, from)
	}
	if to == from {
		m.mu.Unlock()
		return nil
	}
	m.state = to
	m.changedAt = m.now()
	snapshot := m.snapshotLocked()
	listeners := make([]Listener, 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if listener, ok := m.listeners[id]; ok {
			listeners = append(listeners, listener)
		}
	}
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
	return nil
}

func (m *Machine) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		State:     m.state,
		ChangedAt: m.changedAt,
	}
	if m.lastSavedAt != nil {
		at := *m.lastSavedAt
		snapshot.LastSavedAt = &at
	}
	if m.lastError != nil {
		snapshot.LastError = m.lastError.Error()
	}
	return snapshot
}
