// Package watch feeds local note files into autosave sessions. Each file is
// named after a note id; every write to it becomes a keystroke on the
// note's content field.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"
	"github.com/at-ishikawa/notesync/internal/api"
	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ErrStarted is returned by Start on a watcher that already runs.
var ErrStarted = errors.New("watcher already started")

// Source loads notes and persists their drafts.
type Source interface {
	autosave.Store[entity.Note]
	Get(ctx context.Context, id string) (entity.Note, error)
}

type Option func(*Watcher)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithSessionOptions sets the options every autosave session is opened with.
func WithSessionOptions(opts ...autosave.Option) Option {
	return func(w *Watcher) {
		w.sessionOpts = append(w.sessionOpts, opts...)
	}
}

type Watcher struct {
	dir         string
	pattern     string
	source      Source
	sessionOpts []autosave.Option
	logger      *slog.Logger

	mu        sync.Mutex
	sessions  map[string]*autosave.Session[entity.Note]
	skipped   map[string]bool
	events    int
	lastError string
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a watcher for the files under dir whose slash-separated
// relative path matches pattern.
func New(dir, pattern string, source Source, opts ...Option) (*Watcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	w := &Watcher{
		dir:      filepath.Clean(dir),
		pattern:  pattern,
		source:   source,
		sessions: make(map[string]*autosave.Session[entity.Note]),
		skipped:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Start begins watching in the background. Stop ends it.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrStarted
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher > %w", err)
	}
	if err := addRecursive(watcher, w.dir); err != nil {
		_ = watcher.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	// Sessions outlive the event loop so that Stop can still flush them.
	sessionCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})
	w.running = true
	w.cancel = cancel
	w.done = done

	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer close(done)
		defer func() {
			_ = watcher.Close()
		}()
		return w.loop(ctx, sessionCtx, watcher)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.recordError(err)
		w.logger.Error("watch loop failed", "error", err)
	}))
	w.logger.Info("watching", "dir", w.dir, "pattern", w.pattern)
	return nil
}

// Run watches until ctx is done, then stops.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// Stop ends the event loop, settles every pending draft, waits for the
// resulting persists and closes all sessions.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	w.mu.Lock()
	sessions := make([]*autosave.Session[entity.Note], 0, len(w.sessions))
	for _, session := range w.sessions {
		sessions = append(sessions, session)
	}
	w.sessions = make(map[string]*autosave.Session[entity.Note])
	w.mu.Unlock()

	for _, session := range sessions {
		if err := session.Save(); err != nil {
			w.logger.Warn("flush on stop", "id", session.ID(), "error", err)
		}
	}
	for _, session := range sessions {
		session.Wait()
		session.Close()
	}
}

// Session returns the open session of a note, if any.
func (w *Watcher) Session(id string) (*autosave.Session[entity.Note], bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	session, ok := w.sessions[id]
	return session, ok
}

func (w *Watcher) loop(ctx, sessionCtx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			w.handle(sessionCtx, watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.recordError(err)
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := addRecursive(watcher, event.Name); err != nil {
				w.recordError(err)
			}
		}
		return
	}

	id, ok := w.noteID(event.Name)
	if !ok {
		return
	}
	content, err := os.ReadFile(event.Name)
	if err != nil {
		w.recordError(err)
		w.logger.Warn("read note file", "path", event.Name, "error", err)
		return
	}
	w.Apply(ctx, id, string(content))
}

// Apply sets the content draft of note id, opening its session first when
// needed. Notes the source does not know are skipped from then on.
func (w *Watcher) Apply(ctx context.Context, id, content string) {
	session, err := w.session(ctx, id)
	if err != nil {
		w.recordError(err)
		if errors.Is(err, api.ErrNotFound) {
			w.logger.Warn("no such note, ignoring file", "id", id)
		} else {
			w.logger.Error("open session", "id", id, "error", err)
		}
		return
	}
	if session == nil {
		return
	}

	w.mu.Lock()
	w.events++
	w.mu.Unlock()
	if err := session.Set(entity.FieldContent, content); err != nil {
		w.logger.Warn("set content", "id", id, "error", err)
	}
}

func (w *Watcher) session(ctx context.Context, id string) (*autosave.Session[entity.Note], error) {
	w.mu.Lock()
	if session, ok := w.sessions[id]; ok {
		w.mu.Unlock()
		return session, nil
	}
	skipped := w.skipped[id]
	w.mu.Unlock()
	if skipped {
		return nil, nil
	}

	note, err := w.source.Get(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			w.mu.Lock()
			w.skipped[id] = true
			w.mu.Unlock()
		}
		return nil, fmt.Errorf("source.Get > %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if session, ok := w.sessions[id]; ok {
		return session, nil
	}
	session := autosave.NewSession(ctx, note, autosave.Store[entity.Note](w.source), w.sessionOpts...)
	w.sessions[id] = session
	w.logger.Debug("session opened", "id", id)
	return session, nil
}

// noteID maps a file path to a note id when the path matches the pattern.
func (w *Watcher) noteID(path string) (string, bool) {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	matched, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	if err != nil || !matched {
		return "", false
	}
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	if id == "" || strings.HasPrefix(base, ".") {
		return "", false
	}
	return id, true
}

func (w *Watcher) recordError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = err.Error()
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watcher.Add %s > %w", path, err)
		}
		return nil
	})
}
