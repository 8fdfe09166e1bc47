// Package controller drives incremental, searchable, paginated data loading
// for an interactive client. It mediates between a user-editable query/filter
// and an external fetch function, exposing a small observable state machine
// that a presentation layer renders as "data", "loading" and "loading more".
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"listgrip/internal/domain"
	"listgrip/internal/eventbus"
)

// Default timer durations
const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultCooldown = time.Second
)

// Request carries the read-only view a fetch function needs: the query text
// that survived the debounce window, the current filter value and the page
// to load (1-based)
type Request[F any] struct {
	Query  string
	Filter F
	Page   int
}

// FetchFunc loads one page of results. Returning fewer items than the
// configured batch size signals end-of-data. The context is canceled when
// the controller is closed.
type FetchFunc[T, F any] func(ctx context.Context, req Request[F]) ([]T, error)

// Options configures a controller. Zero durations fall back to the defaults;
// BatchSize must be positive.
type Options struct {
	BatchSize int
	Debounce  time.Duration
	Cooldown  time.Duration
}

// Controller owns the accumulated result list, the pagination cursor and the
// observable state for one logical result list. All mutation happens under a
// single mutex; overlapping searches and load-more calls are reconciled with
// generation counters instead of cancellation, so a stale fetch completion is
// discarded rather than merged.
type Controller[T, F any] struct {
	fetch  FetchFunc[T, F]
	opts   Options
	bus    eventbus.EventBus
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	queryFn       func() string
	filter        F
	items         []T
	page          int
	noMoreItems   bool
	state         State[T]
	searchSeq     uint64 // bumped on every Search call; supersedes pending debounce waits
	gen           uint64 // bumped on every accumulation reset; guards stale fetch completions
	cooldownUntil time.Time
	debounce      *time.Timer
	closed        bool

	// pubMu serializes state publication. Lock order is always mu then pubMu.
	pubMu   sync.Mutex
	subs    map[int]func(State[T])
	nextSub int
}

// New creates a controller around the given fetch function and initial
// filter value. It starts in the Data state with an empty item list.
func New[T, F any](fetch FetchFunc[T, F], opts Options, initialFilter F) (*Controller[T, F], error) {
	if fetch == nil {
		return nil, errors.New("controller: fetch function is required")
	}
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("controller: batch size must be positive, got %d", opts.BatchSize)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[T, F]{
		fetch:  fetch,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		filter: initialFilter,
		page:   1,
		state:  State[T]{Phase: PhaseData},
		subs:   make(map[int]func(State[T])),
	}, nil
}

// SetEventBus attaches a bus for progress events (search started, batch
// loaded, fetch failed). Call it before the controller is used.
func (c *Controller[T, F]) SetEventBus(bus eventbus.EventBus) {
	c.bus = bus
}

// BindQuery connects the controller to the live query value, typically a
// text input's Value method. The controller only ever reads the query.
func (c *Controller[T, F]) BindQuery(fn func() string) {
	c.mu.Lock()
	c.queryFn = fn
	c.mu.Unlock()
}

// Subscribe registers an observer. It immediately receives the current state
// and then every subsequent transition in publication order. The returned
// function removes the observer. Observers must return promptly and must not
// call back into the controller; hand work off to another goroutine instead.
func (c *Controller[T, F]) Subscribe(fn func(State[T])) func() {
	c.mu.Lock()
	current := c.state
	c.pubMu.Lock()
	c.mu.Unlock()

	c.nextSub++
	id := c.nextSub
	c.subs[id] = fn
	fn(current)
	c.pubMu.Unlock()

	return func() {
		c.pubMu.Lock()
		delete(c.subs, id)
		c.pubMu.Unlock()
	}
}

// Search schedules a debounced search for the current query. Only the most
// recent call still current when the debounce interval expires resets the
// accumulated items and fetches; earlier calls become no-ops. An empty query
// skips fetching entirely and republishes the accumulated items.
func (c *Controller[T, F]) Search() {
	query := c.readQuery()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.searchSeq++
	seq := c.searchSeq
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}

	if query == "" {
		items := c.items
		c.publishLocked(State[T]{Phase: PhaseData, Items: items})
		return
	}

	c.debounce = time.AfterFunc(c.opts.Debounce, func() {
		c.resumeSearch(seq, query)
	})
	c.publishLocked(State[T]{Phase: PhaseLoading})
	c.publishEvent(domain.SearchStartedEvent{Query: query})
}

// SetFilter replaces the filter value. When performSearch is true a new
// debounced search is scheduled, subject to the same empty-query rule.
func (c *Controller[T, F]) SetFilter(filter F, performSearch bool) {
	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()

	c.publishEvent(domain.FilterChangedEvent{Filter: filter})
	if performSearch {
		c.Search()
	}
}

// FetchNextBatch loads the next page into the accumulated list. It is safe
// to call on every scroll event: a cooldown swallows rapid re-triggers, and
// it is a no-op once pagination is exhausted or while a fetch is in flight.
func (c *Controller[T, F]) FetchNextBatch() {
	query := c.readQuery()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	now := time.Now()
	if now.Before(c.cooldownUntil) {
		c.mu.Unlock()
		return
	}
	// Rearm before any other check so scroll jitter cannot race past it
	c.cooldownUntil = now.Add(c.opts.Cooldown)

	if c.noMoreItems {
		c.mu.Unlock()
		return
	}
	switch c.state.Phase {
	case PhaseLoading, PhaseLoadingMore:
		// A fetch already owns the cursor
		c.mu.Unlock()
		return
	}

	c.page++
	gen := c.gen
	req := Request[F]{Query: query, Filter: c.filter, Page: c.page}
	items := c.items
	c.publishLocked(State[T]{Phase: PhaseLoadingMore, Items: items})
	c.publishEvent(domain.NextBatchRequestedEvent{Query: query, Page: req.Page})

	go c.performFetch(gen, req)
}

// Close stops the pending debounce timer and prevents further fetches.
// In-flight fetches are canceled through the controller context and their
// results discarded.
func (c *Controller[T, F]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.mu.Unlock()
	c.cancel()
}

// State returns the current observable state
func (c *Controller[T, F]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns the accumulated result snapshot
func (c *Controller[T, F]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Query returns the live query value
func (c *Controller[T, F]) Query() string {
	return c.readQuery()
}

// Filter returns the current filter value
func (c *Controller[T, F]) Filter() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Page returns the current 1-based page counter
func (c *Controller[T, F]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// HasNoMoreItems reports whether pagination is exhausted for the current search
func (c *Controller[T, F]) HasNoMoreItems() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noMoreItems
}

// BatchSize returns the configured page size
func (c *Controller[T, F]) BatchSize() int {
	return c.opts.BatchSize
}

// resumeSearch runs when the debounce timer fires. A call that is no longer
// the most recent one abandons silently; the survivor resets accumulation
// state and fetches page 1.
func (c *Controller[T, F]) resumeSearch(seq uint64, query string) {
	c.mu.Lock()
	if c.closed || seq != c.searchSeq {
		superseded := !c.closed
		c.mu.Unlock()
		if superseded {
			c.publishEvent(domain.SearchSupersededEvent{Query: query})
		}
		return
	}
	c.debounce = nil

	c.gen++
	gen := c.gen
	c.items = nil
	c.page = 1
	c.noMoreItems = false
	req := Request[F]{Query: query, Filter: c.filter, Page: c.page}
	c.mu.Unlock()

	log.Printf("Controller: searching %q", query)
	c.performFetch(gen, req)
}

// performFetch invokes the external fetch function and applies the outcome,
// unless a newer search has reset the accumulation state in the meantime.
func (c *Controller[T, F]) performFetch(gen uint64, req Request[F]) {
	results, err := c.fetch(c.ctx, req)

	c.mu.Lock()
	if c.closed || gen != c.gen {
		// Stale response from a superseded generation
		c.mu.Unlock()
		return
	}

	if err != nil {
		// Clear the cooldown so a retry is possible immediately, and step the
		// cursor back so a retried load-more asks for the same page again
		c.cooldownUntil = time.Time{}
		if req.Page > 1 && req.Page == c.page {
			c.page = req.Page - 1
		}
		items := c.items
		c.publishLocked(State[T]{Phase: PhaseFailed, Items: items, Err: err})
		c.publishEvent(domain.FetchFailedEvent{Query: req.Query, Page: req.Page, Err: err})
		log.Printf("Controller: fetch failed for %q page %d: %v", req.Query, req.Page, err)
		return
	}

	c.noMoreItems = len(results) < c.opts.BatchSize
	if len(results) > 0 {
		// Results are merged into a fresh slice; published snapshots are
		// never mutated in place
		merged := make([]T, 0, len(c.items)+len(results))
		merged = append(merged, c.items...)
		merged = append(merged, results...)
		c.items = merged
	}
	items := c.items
	final := c.noMoreItems
	c.publishLocked(State[T]{Phase: PhaseData, Items: items})
	c.publishEvent(domain.BatchLoadedEvent{Query: req.Query, Page: req.Page, Count: len(results), Final: final})
}

// publishLocked records the new state and notifies observers in order.
// Callers must hold mu; it is released before notification so observers can
// be handed off without blocking controller operations.
func (c *Controller[T, F]) publishLocked(st State[T]) {
	c.state = st
	c.pubMu.Lock()
	c.mu.Unlock()
	for _, fn := range c.subs {
		fn(st)
	}
	c.pubMu.Unlock()
}

func (c *Controller[T, F]) publishEvent(event eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}

func (c *Controller[T, F]) readQuery() string {
	c.mu.Lock()
	fn := c.queryFn
	c.mu.Unlock()
	if fn == nil {
		return ""
	}
	return fn()
}
