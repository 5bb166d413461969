package store

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"backoffice-client/internal/util"

	"go.uber.org/zap"
)

// minSearchTerm is the shortest term sent to the dedicated search endpoint;
// anything shorter is filtered locally.
const minSearchTerm = 3

// Search resolves a term to a matching list, never to an error. Terms
// shorter than minSearchTerm skip the search endpoint entirely; an endpoint
// failure falls back to a full fetch plus a case-insensitive local filter,
// and any failure there resolves to an empty list.
//
// Every call takes a fresh sequence number; a response that is no longer the
// newest issued is discarded so a stale result cannot overwrite a newer one.
func (c *Container[T]) Search(ctx context.Context, term string) []T {
	ctx, span := util.StartSpan(ctx, "store."+c.name+".Search")
	defer span.End()

	seq := c.searchSeq.Add(1)
	term = strings.TrimSpace(term)

	if c.eps.Search == "" || utf8.RuneCountInString(term) < minSearchTerm {
		return c.searchFallback(ctx, seq, term)
	}

	var list []T
	if err := c.client.Get(ctx, c.eps.Search+"?q="+url.QueryEscape(term), &list); err != nil {
		return c.searchFallback(ctx, seq, term)
	}
	if list == nil {
		list = []T{}
	}
	return c.commitSearch(seq, list)
}

func (c *Container[T]) searchFallback(ctx context.Context, seq uint64, term string) []T {
	util.SearchFallbacksTotal.WithLabelValues(c.name).Inc()

	list, err := c.fetchList(ctx)
	if err != nil {
		c.logger.Warn("Search fallback fetch failed",
			zap.String("resource", c.name),
			zap.Error(err))
		return []T{}
	}

	lowered := strings.ToLower(term)
	matched := make([]T, 0, len(list))
	for _, item := range list {
		if c.match == nil || c.match(item, lowered) {
			matched = append(matched, item)
		}
	}
	return c.commitSearch(seq, matched)
}

// commitSearch writes the results into the list unless a newer search has
// been issued meanwhile, in which case the current list stands.
func (c *Container[T]) commitSearch(seq uint64, list []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.searchSeq.Load() {
		return append([]T(nil), c.items...)
	}

	c.items = list
	return append([]T(nil), list...)
}

// Debouncer coalesces rapid search input: only the action scheduled last
// within the delay window runs.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do schedules fn after the delay, replacing any previously scheduled call
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any scheduled call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Searcher pairs a container's Search with a Debouncer so rapid re-typing
// resolves only the last entered term.
type Searcher[T Entity] struct {
	container *Container[T]
	debounce  *Debouncer
}

// NewSearcher creates a debounced searcher over the container
func NewSearcher[T Entity](c *Container[T], delay time.Duration) *Searcher[T] {
	return &Searcher[T]{container: c, debounce: NewDebouncer(delay)}
}

// Query schedules a search for term, replacing any not-yet-run query.
// deliver receives the results of the last scheduled term only.
func (s *Searcher[T]) Query(ctx context.Context, term string, deliver func([]T)) {
	s.debounce.Do(func() {
		deliver(s.container.Search(ctx, term))
	})
}

// Stop cancels any scheduled query
func (s *Searcher[T]) Stop() {
	s.debounce.Stop()
}
