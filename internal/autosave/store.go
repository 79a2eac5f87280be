// Package autosave coordinates debounced field drafts, the persisted baseline
// and the save status of one editing session.
package autosave

import (
	"context"
	"time"

	"github.com/at-ishikawa/notesync/internal/entity"
)

//go:generate mockgen -source=store.go -destination=../mocks/autosave/mock_store.go -package=mock_autosave

// Store persists a field group for one entity and returns the server's copy.
type Store[E entity.Entity] interface {
	Update(ctx context.Context, id string, fields entity.Fields) (E, error)
	Delete(ctx context.Context, id string) error
}

// Recorder observes persist activity.
type Recorder interface {
	PersistStarted()
	PersistFinished(err error, elapsed time.Duration)
	SettleCoalesced()
}

type noopRecorder struct{}

func (noopRecorder) PersistStarted() {}

func (noopRecorder) PersistFinished(error, time.Duration) {}

func (noopRecorder) SettleCoalesced() {}
