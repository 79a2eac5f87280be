package watch

import (
	"slices"

	"github.com/aretw0/introspection"
)

// WatcherState exposes the watcher internals for diagnostics.
type WatcherState struct {
	Directory string   `json:"directory"`
	Pattern   string   `json:"pattern"`
	Running   bool     `json:"running"`
	Sessions  []string `json:"sessions,omitempty"`
	Skipped   []string `json:"skipped,omitempty"`
	Events    int      `json:"events"`
	LastError string   `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()

	sessions := make([]string, 0, len(w.sessions))
	for id := range w.sessions {
		sessions = append(sessions, id)
	}
	slices.Sort(sessions)
	skipped := make([]string, 0, len(w.skipped))
	for id := range w.skipped {
		skipped = append(skipped, id)
	}
	slices.Sort(skipped)

	return WatcherState{
		Directory: w.dir,
		Pattern:   w.pattern,
		Running:   w.running,
		Sessions:  sessions,
		Skipped:   skipped,
		Events:    w.events,
		LastError: w.lastError,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "note-watcher"
}

var _ introspection.Introspectable = (*Watcher)(nil)
var _ introspection.Component = (*Watcher)(nil)
