// Package debounce provides a value that settles after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Value holds a live draft and the last settled copy of it. Every Set
// restarts the quiet period; once no Set arrives for the configured delay the
// draft becomes the settled value and subscribers are notified. Instances
// never share timers.
type Value[T any] struct {
	delay time.Duration

	// emitMu serializes notifications so Close can wait for one in progress.
	emitMu sync.Mutex

	mu          sync.Mutex
	current     T
	settled     T
	timer       *time.Timer
	generation  uint64
	subscribers map[uint64]func(T)
	nextID      uint64
	closed      bool
}

func New[T any](initial T, delay time.Duration) *Value[T] {
	return &Value[T]{
		delay:       delay,
		current:     initial,
		settled:     initial,
		subscribers: make(map[uint64]func(T)),
	}
}

// Set records a new draft and restarts the quiet period.
// It is a no-op after Close.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	v.current = value
	v.generation++
	generation := v.generation
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.delay, func() {
		v.emit(generation)
	})
}

// Current returns the live draft.
func (v *Value[T]) Current() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Settled returns the last emitted value.
func (v *Value[T]) Settled() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Pending reports whether a quiet period is running.
func (v *Value[T]) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timer != nil
}

// Subscribe registers fn to receive every settled value. The returned
// function removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.subscribers[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subscribers, id)
	}
}

// Flush settles a pending draft immediately. It returns false when nothing
// was pending.
func (v *Value[T]) Flush() bool {
	v.mu.Lock()
	if v.closed || v.timer == nil {
		v.mu.Unlock()
		return false
	}
	v.timer.Stop()
	generation := v.generation
	v.mu.Unlock()

	return v.emit(generation)
}

// Reset replaces both the draft and the settled value without notifying
// subscribers, cancelling any pending quiet period.
func (v *Value[T]) Reset(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.generation++
	v.current = value
	v.settled = value
}

// Close cancels any pending emission. Once Close returns no subscriber is
// called again. Close must not be called from a subscriber.
func (v *Value[T]) Close() {
	v.mu.Lock()
	v.closed = true
	v.generation++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	clear(v.subscribers)
	v.mu.Unlock()

	// wait for an emission that already passed the generation check
	v.emitMu.Lock()
	v.emitMu.Unlock()
}

func (v *Value[T]) emit(generation uint64) bool {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	if v.closed || generation != v.generation || v.timer == nil {
		v.mu.Unlock()
		return false
	}
	v.timer = nil
	v.settled = v.current
	value := v.settled
	subscribers := make([]func(T), 0, len(v.subscribers))
	for id := uint64(0); id < v.nextID; id++ {
		if fn, ok := v.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range subscribers {
		fn(value)
	}
	return true
}
