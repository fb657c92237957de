package measure

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
	"github.com/sruja-ai/sruja-sub008/pkg/observability"
)

// Cached memoizes another Measurer.
//
// Multi-line requests are hyphenated with [Hyphenate] before the cache key is
// built and before wrapping, so near-identical labels share entries and long
// identifiers can wrap at their midpoint. Single-line requests that fit are
// keyed on the normalized text.
//
// A Cached value owns its Store; there is no process-wide cache. Hits and
// misses are reported to [observability.Cache] under the key type "measure".
type Cached struct {
	inner  Measurer
	store  Store
	hits   atomic.Int64
	misses atomic.Int64
}

var _ Measurer = (*Cached)(nil)

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// NewCached wraps inner. A nil store means a fresh MapStore; a nil inner
// means [NewMeasurer].
func NewCached(inner Measurer, store Store) *Cached {
	if inner == nil {
		inner = NewMeasurer()
	}
	if store == nil {
		store = NewMapStore()
	}
	return &Cached{inner: inner, store: store}
}

// Measure implements [Measurer].
func (c *Cached) Measure(text string, kind model.Kind, level model.Level, maxWidth float64) geom.Size {
	key := Key{Kind: kind, Level: level, MaxWidth: maxWidth, Text: normalize(text)}
	if t, ok := c.lookup(key); ok {
		return t.Size()
	}
	s := c.inner.Measure(key.Text, kind, level, 0)
	if maxWidth > 0 && s.W > maxWidth {
		s = c.MeasureMultiline(key.Text, kind, level, maxWidth).Size()
	}
	c.store.Add(key, Text{Width: s.W, Height: s.H})
	observability.Cache().OnCacheSet(context.Background(), "measure", len(key.Text))
	return s
}

// MeasureMultiline implements [Measurer].
func (c *Cached) MeasureMultiline(text string, kind model.Kind, level model.Level, maxWidth float64) Text {
	key := Key{Kind: kind, Level: level, MaxWidth: maxWidth, Multiline: true, Text: Hyphenate(text)}
	if t, ok := c.lookup(key); ok {
		return clone(t)
	}
	t := c.inner.MeasureMultiline(key.Text, kind, level, maxWidth)
	c.store.Add(key, clone(t))
	observability.Cache().OnCacheSet(context.Background(), "measure", len(key.Text))
	return t
}

func (c *Cached) lookup(key Key) (Text, bool) {
	t, ok := c.store.Get(key)
	if ok {
		c.hits.Add(1)
		observability.Cache().OnCacheHit(context.Background(), "measure")
	} else {
		c.misses.Add(1)
		observability.Cache().OnCacheMiss(context.Background(), "measure")
	}
	return t, ok
}

// Stats returns hit, miss and entry counts since creation or the last Reset.
func (c *Cached) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.store.Len()}
}

// Reset empties the store and zeroes the counters.
func (c *Cached) Reset() {
	c.store.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

func clone(t Text) Text {
	t.Lines = slices.Clone(t.Lines)
	return t
}
