package autosave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/notesync/internal/changeset"
	"github.com/at-ishikawa/notesync/internal/debounce"
	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/savestatus"
)

const DefaultDelay = time.Second

var (
	ErrClosed       = errors.New("autosave session is closed")
	ErrUnknownField = errors.New("unknown field")
)

type options struct {
	delay          time.Duration
	persistTimeout time.Duration
	logger         *slog.Logger
	recorder       Recorder
	now            func() time.Time
}

type Option func(*options)

// WithDelay sets the quiet period of every field.
func WithDelay(delay time.Duration) Option {
	return func(o *options) {
		o.delay = delay
	}
}

// WithPersistTimeout bounds each persist request. Zero means no bound.
func WithPersistTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.persistTimeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(o *options) {
		o.recorder = recorder
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Session keeps the drafts of one entity in sync with the store.
//
// Each editable field has its own debounced draft. Once the last pending draft
// settles, the settled snapshot of all fields is compared against the baseline
// (the last server-confirmed values) and, when dirty, the whole group is
// persisted.
// At most one persist is in flight; settles that arrive meanwhile are
// coalesced into one follow-up persist of the newest values.
type Session[E entity.Entity] struct {
	id       string
	store    Store[E]
	status   *savestatus.Machine
	logger   *slog.Logger
	recorder Recorder
	timeout  time.Duration
	ctx      context.Context
	wg       sync.WaitGroup

	drafts      map[string]*debounce.Value[string]
	unsubscribe []func()

	mu         sync.Mutex
	record     E
	baseline   entity.Fields
	inFlight   bool
	dispatched entity.Fields
	rearm      bool
	flushing   bool
	deleting   bool
	closed     bool
	persists   int
}

// NewSession starts an editing session for record. Persist requests run
// under ctx.
func NewSession[E entity.Entity](ctx context.Context, record E, store Store[E], opts ...Option) *Session[E] {
	o := options{
		delay:    DefaultDelay,
		recorder: noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	statusOpts := []savestatus.Option{savestatus.WithClock(o.now)}
	if updated := record.LastUpdated(); updated != nil {
		statusOpts = append(statusOpts, savestatus.WithLastSaved(*updated))
	}

	baseline := record.EditableFields()
	s := &Session[E]{
		id:       record.EntityID(),
		store:    store,
		status:   savestatus.New(statusOpts...),
		logger:   o.logger.With("id", record.EntityID()),
		recorder: o.recorder,
		timeout:  o.persistTimeout,
		ctx:      ctx,
		drafts:   make(map[string]*debounce.Value[string], len(baseline)),
		record:   record,
		baseline: baseline,
	}
	for name, value := range baseline {
		draft := debounce.New(value, o.delay)
		s.drafts[name] = draft
		s.unsubscribe = append(s.unsubscribe, draft.Subscribe(func(string) {
			s.evaluate()
		}))
	}
	return s
}

func (s *Session[E]) ID() string {
	return s.id
}

// Set records a keystroke for field. The draft updates immediately; the
// store is only called once the draft settles.
func (s *Session[E]) Set(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	draft, ok := s.drafts[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	draft.Set(value)
	if live := s.liveLocked(); !live.IsEmpty() && !live.Equal(s.baseline) {
		s.transition(s.status.MarkPending())
	}
	return nil
}

// Save settles every pending draft immediately and persists when dirty.
// A payload that failed before is sent again.
func (s *Session[E]) Save() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.flushing = true
	s.mu.Unlock()

	for _, draft := range s.drafts {
		draft.Flush()
	}

	s.mu.Lock()
	s.flushing = false
	s.mu.Unlock()
	s.evaluate()
	return nil
}

// Delete removes the entity from the store. A second call while the first is
// running does nothing. On success the session is closed.
func (s *Session[E]) Delete(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.deleting {
		s.mu.Unlock()
		return nil
	}
	s.deleting = true
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.id); err != nil {
		s.mu.Lock()
		s.deleting = false
		s.mu.Unlock()
		// drafts that settled during the request were held back
		s.evaluate()
		return fmt.Errorf("store.Delete > %w", err)
	}
	s.logger.Info("deleted")
	s.Close()
	return nil
}

// Close tears the session down. Pending drafts are discarded and a response
// arriving later leaves the session untouched. It is safe to call twice.
func (s *Session[E]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	for _, draft := range s.drafts {
		draft.Close()
	}
}

// Wait blocks until no persist is in flight.
func (s *Session[E]) Wait() {
	s.wg.Wait()
}

// Draft returns the live value of every field.
func (s *Session[E]) Draft() entity.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked()
}

// Baseline returns the last server-confirmed values.
func (s *Session[E]) Baseline() entity.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline.Clone()
}

// Entity returns the last record the store returned.
func (s *Session[E]) Entity() E {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func (s *Session[E]) Status() savestatus.Snapshot {
	return s.status.Snapshot()
}

// SubscribeStatus registers a status listener. The listener must not call
// back into the session.
func (s *Session[E]) SubscribeStatus(listener savestatus.Listener) func() {
	return s.status.Subscribe(listener)
}

func (s *Session[E]) evaluate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.deleting || s.flushing || s.settlingLocked() {
		return
	}

	settled := s.settledLocked()
	if s.inFlight {
		if !settled.Equal(s.dispatched) {
			s.rearm = true
			s.recorder.SettleCoalesced()
		}
		return
	}
	s.persistIfDirtyLocked(settled)
}

// persistIfDirtyLocked dispatches settled when it differs from the baseline
// and reports whether a request was started.
func (s *Session[E]) persistIfDirtyLocked(settled entity.Fields) bool {
	payload, dirty := changeset.Detect(settled, s.baseline)
	if !dirty {
		if live := s.liveLocked(); live.IsEmpty() || live.Equal(s.baseline) {
			s.transition(s.status.MarkClean())
		}
		return false
	}

	s.transition(s.status.MarkPending())
	s.transition(s.status.MarkSaving())
	s.inFlight = true
	s.dispatched = payload
	s.persists++
	s.logger.Debug("persisting", "fields", changeset.Diff(payload, s.baseline))

	s.wg.Add(1)
	go s.persist(payload)
	return true
}

func (s *Session[E]) persist(payload entity.Fields) {
	defer s.wg.Done()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.recorder.PersistStarted()
	started := time.Now()
	updated, err := s.store.Update(ctx, s.id, payload)
	s.recorder.PersistFinished(err, time.Since(started))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	rearm := s.rearm
	s.rearm = false
	if s.closed {
		s.logger.Debug("ignoring response for closed session", "error", err)
		return
	}

	if err != nil {
		s.logger.Error("failed to save", "error", err)
		s.transition(s.status.MarkError(err))
		// a settle that arrived meanwhile with different values is a new edit
		if rearm && !s.settlingLocked() {
			if settled := s.settledLocked(); !settled.Equal(payload) {
				s.persistIfDirtyLocked(settled)
			}
		}
		return
	}

	s.record = updated
	s.baseline = updated.EditableFields()
	for name, draft := range s.drafts {
		if draft.Current() == payload.Get(name) {
			draft.Reset(s.baseline.Get(name))
		}
	}
	s.transition(s.status.MarkSaved())
	s.logger.Debug("saved")

	if rearm && !s.settlingLocked() && s.persistIfDirtyLocked(s.settledLocked()) {
		return
	}
	if live := s.liveLocked(); !live.IsEmpty() && !live.Equal(s.baseline) {
		s.transition(s.status.MarkPending())
	}
}

// settlingLocked reports whether any draft is still in its quiet period. The
// last draft to settle evaluates the whole group.
func (s *Session[E]) settlingLocked() bool {
	for _, draft := range s.drafts {
		if draft.Pending() {
			return true
		}
	}
	return false
}

func (s *Session[E]) liveLocked() entity.Fields {
	fields := make(entity.Fields, len(s.drafts))
	for name, draft := range s.drafts {
		fields[name] = draft.Current()
	}
	return fields
}

func (s *Session[E]) settledLocked() entity.Fields {
	fields := make(entity.Fields, len(s.drafts))
	for name, draft := range s.drafts {
		fields[name] = draft.Settled()
	}
	return fields
}

func (s *Session[E]) transition(err error) {
	if err != nil {
		s.logger.Warn("unexpected save status transition", "error", err)
	}
}
