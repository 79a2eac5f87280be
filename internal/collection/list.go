package collection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/entity"
)

//go:generate mockgen -source=list.go -destination=../mocks/collection/mock_source.go -package=mock_collection

// Source is the remote side of a collection.
type Source[E entity.Entity] interface {
	List(ctx context.Context) ([]E, error)
	Create(ctx context.Context, fields entity.Fields) (E, error)
	Update(ctx context.Context, id string, fields entity.Fields) (E, error)
	Delete(ctx context.Context, id string) error
}

// List caches the entities of one view. The cache only changes after the
// source confirms a mutation; a failed call leaves it untouched.
type List[E entity.Entity] struct {
	source Source[E]
	logger *slog.Logger

	mu       sync.RWMutex
	items    []E
	loaded   bool
	deleting map[string]struct{}
}

func NewList[E entity.Entity](source Source[E], logger *slog.Logger) *List[E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &List[E]{
		source:   source,
		logger:   logger,
		deleting: make(map[string]struct{}),
	}
}

// Load replaces the cache with the source's current list.
func (l *List[E]) Load(ctx context.Context) error {
	items, err := l.source.List(ctx)
	if err != nil {
		return fmt.Errorf("source.List > %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.Clone(items)
	l.loaded = true
	return nil
}

// Items returns a copy of the cached entities, newest first.
func (l *List[E]) Items() []E {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *List[E]) Get(id string) (E, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero E
	return zero, false
}

func (l *List[E]) Create(ctx context.Context, fields entity.Fields) (E, error) {
	created, err := l.source.Create(ctx, fields)
	if err != nil {
		var zero E
		return zero, fmt.Errorf("source.Create > %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = InsertFront(l.items, created)
	l.logger.Debug("created", "id", created.EntityID())
	return created, nil
}

// Update persists fields and replaces the cached entity with the server's
// copy. It satisfies autosave.Store so editor sessions keep the list current.
func (l *List[E]) Update(ctx context.Context, id string, fields entity.Fields) (E, error) {
	updated, err := l.source.Update(ctx, id, fields)
	if err != nil {
		var zero E
		return zero, fmt.Errorf("source.Update > %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = ReplaceByID(l.items, updated)
	return updated, nil
}

// Delete removes id from the source and then from the cache. A second call
// for the same id while the first is running returns nil without calling the
// source.
func (l *List[E]) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	if _, ok := l.deleting[id]; ok {
		l.mu.Unlock()
		l.logger.Debug("delete already in progress", "id", id)
		return nil
	}
	l.deleting[id] = struct{}{}
	l.mu.Unlock()

	err := l.source.Delete(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.deleting, id)
	if err != nil {
		return fmt.Errorf("source.Delete > %w", err)
	}
	l.items = RemoveByID(l.items, id)
	return nil
}

// ListState exposes the cache for diagnostics.
type ListState struct {
	Loaded   bool     `json:"loaded"`
	Size     int      `json:"size"`
	Deleting []string `json:"deleting,omitempty"`
}

// State implements introspection.Introspectable.
func (l *List[E]) State() any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var deleting []string
	for id := range l.deleting {
		deleting = append(deleting, id)
	}
	slices.Sort(deleting)
	return ListState{
		Loaded:   l.loaded,
		Size:     len(l.items),
		Deleting: deleting,
	}
}

// ComponentType implements introspection.Component.
func (l *List[E]) ComponentType() string {
	return "collection"
}

var _ autosave.Store[entity.Note] = (*List[entity.Note])(nil)
var _ introspection.Introspectable = (*List[entity.Note])(nil)
var _ introspection.Component = (*List[entity.Bookmark])(nil)
