package autosave

import (
	"time"

	"github.com/aretw0/introspection"
	"github.com/at-ishikawa/notesync/internal/changeset"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/savestatus"
)

// SessionState exposes the session internals for diagnostics.
type SessionState struct {
	ID          string           `json:"id"`
	Status      savestatus.State `json:"status"`
	LastSavedAt *time.Time       `json:"last_saved_at,omitempty"`
	LastError   string           `json:"last_error,omitempty"`
	DirtyFields []string         `json:"dirty_fields,omitempty"`
	InFlight    bool             `json:"in_flight"`
	Rearmed     bool             `json:"rearmed"`
	Settling    bool             `json:"settling"`
	Deleting    bool             `json:"deleting"`
	Closed      bool             `json:"closed"`
	Persists    int              `json:"persists"`
}

// State implements introspection.Introspectable.
func (s *Session[E]) State() any {
	snapshot := s.status.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		ID:          s.id,
		Status:      snapshot.State,
		LastSavedAt: snapshot.LastSavedAt,
		LastError:   snapshot.LastError,
		DirtyFields: changeset.Diff(s.liveLocked(), s.baseline),
		InFlight:    s.inFlight,
		Rearmed:     s.rearm,
		Settling:    s.settlingLocked(),
		Deleting:    s.deleting,
		Closed:      s.closed,
		Persists:    s.persists,
	}
}

// ComponentType implements introspection.Component.
func (s *Session[E]) ComponentType() string {
	return "autosave-session"
}

var _ introspection.Introspectable = (*Session[entity.Note])(nil)
var _ introspection.Component = (*Session[entity.Note])(nil)
