package search

import (
	"time"

	"github.com/at-ishikawa/notesync/internal/debounce"
	"github.com/at-ishikawa/notesync/internal/entity"
)

const DefaultDelay = 300 * time.Millisecond

// Box is a search input whose query is applied once typing pauses.
type Box[E entity.Searchable] struct {
	query *debounce.Value[string]
}

func NewBox[E entity.Searchable](delay time.Duration) *Box[E] {
	return &Box[E]{
		query: debounce.New("", delay),
	}
}

// SetQuery records what the user typed.
func (b *Box[E]) SetQuery(query string) {
	b.query.Set(query)
}

// Query returns the text in the input.
func (b *Box[E]) Query() string {
	return b.query.Current()
}

// Applied returns the query the visible subset is filtered by.
func (b *Box[E]) Applied() string {
	return b.query.Settled()
}

// OnApply registers fn to run whenever a new query is applied.
func (b *Box[E]) OnApply(fn func(query string)) func() {
	return b.query.Subscribe(fn)
}

// Apply uses the typed query immediately.
func (b *Box[E]) Apply() {
	b.query.Flush()
}

// Visible filters items by the applied query. It is recomputed on every call
// so mutations of the collection are reflected without a new query.
func (b *Box[E]) Visible(items []E) []E {
	return Filter(items, b.Applied())
}

func (b *Box[E]) Close() {
	b.query.Close()
}
