package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"backoffice-client/internal/api"
	"backoffice-client/internal/notify"
	"backoffice-client/internal/util"

	"go.uber.org/zap"
)

// Entity is any record managed by a resource container
type Entity interface {
	EntityID() int64
}

// SnapshotCache persists the last fetched list of a resource so a restarted
// client can warm its containers. Satisfied by cache.Snapshots.
type SnapshotCache interface {
	Store(ctx context.Context, resource string, v interface{}) error
	Load(ctx context.Context, resource string, out interface{}) (bool, error)
}

// Endpoints describes the REST surface of one resource
type Endpoints struct {
	List   string
	Item   func(id int64) string
	Search string
	// UpdateMethod selects PATCH (default) or PUT for field updates
	UpdateMethod string
}

// Container holds the synchronized state of one resource: the last
// server-confirmed list, a loading flag, and an error slot. All entity
// containers share this one implementation; the per-entity types specialize
// endpoints, validation, and form encoding only.
//
// Invariant: after any operation settles, loading is false and items reflect
// only server-confirmed state. Nothing is added or removed optimistically.
type Container[T Entity] struct {
	name   string
	client *api.Client
	notify *notify.Notifier
	snaps  SnapshotCache
	logger *zap.Logger
	eps    Endpoints
	match  func(item T, loweredTerm string) bool

	mu      sync.RWMutex
	items   []T
	loading bool
	err     error

	searchSeq atomic.Uint64
}

// NewContainer creates a container for one resource. snaps may be nil when
// snapshot caching is disabled.
func NewContainer[T Entity](name string, client *api.Client, notifier *notify.Notifier, snaps SnapshotCache, eps Endpoints) *Container[T] {
	if eps.UpdateMethod == "" {
		eps.UpdateMethod = http.MethodPatch
	}
	return &Container[T]{
		name:   name,
		client: client,
		notify: notifier,
		snaps:  snaps,
		logger: util.GetLogger(),
		eps:    eps,
	}
}

// Name returns the resource name
func (c *Container[T]) Name() string { return c.name }

// Items returns a copy of the current list
func (c *Container[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Loading reports whether an operation is in flight
func (c *Container[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the last recorded failure, nil after a successful fetch
func (c *Container[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// FetchAll replaces the list wholesale with the server's current state.
// On failure the previous list is preserved and the error recorded.
func (c *Container[T]) FetchAll(ctx context.Context) ([]T, error) {
	ctx, span := util.StartSpan(ctx, "store."+c.name+".FetchAll")
	defer span.End()

	c.setLoading(true)
	defer c.setLoading(false)

	list, err := c.fetchList(ctx)
	if err != nil {
		util.RefreshFailuresTotal.WithLabelValues(c.name).Inc()
		c.setErr(err)
		return nil, err
	}

	c.mu.Lock()
	c.items = list
	c.err = nil
	c.mu.Unlock()

	c.storeSnapshot(ctx, list)
	return append([]T(nil), list...), nil
}

// FetchOne retrieves the authoritative record by id and writes it into the
// list, replacing a matching item or appending if absent.
func (c *Container[T]) FetchOne(ctx context.Context, id int64) (T, error) {
	ctx, span := util.StartSpan(ctx, "store."+c.name+".FetchOne")
	defer span.End()

	c.setLoading(true)
	defer c.setLoading(false)

	item, err := c.fetchOne(ctx, id)
	if err != nil {
		c.setErr(err)
		return item, err
	}

	c.upsert(item)
	c.clearErr()
	return item, nil
}

// Create submits a multipart form and then re-fetches the created record so
// the list only ever carries server-confirmed state.
func (c *Container[T]) Create(ctx context.Context, form *api.Form) (T, error) {
	var zero T
	ctx, span := util.StartSpan(ctx, "store."+c.name+".Create")
	defer span.End()

	c.setLoading(true)
	defer c.setLoading(false)

	var raw json.RawMessage
	if err := c.client.PostForm(ctx, c.eps.List, form, &raw); err != nil {
		c.setErr(err)
		return zero, err
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		c.setErr(err)
		return zero, err
	}
	if env.ID == 0 {
		err := fmt.Errorf("create response for %s carried no record id", c.name)
		c.setErr(err)
		return zero, err
	}
	c.warnOnSoftError(env)

	return c.refresh(ctx, env.ID)
}

// Update submits a multipart form for an existing record and re-fetches it.
// The record is never synthesized locally from the form payload.
func (c *Container[T]) Update(ctx context.Context, id int64, form *api.Form) (T, error) {
	var zero T
	ctx, span := util.StartSpan(ctx, "store."+c.name+".Update")
	defer span.End()

	c.setLoading(true)
	defer c.setLoading(false)

	var raw json.RawMessage
	var err error
	if c.eps.UpdateMethod == http.MethodPut {
		err = c.client.PutForm(ctx, c.eps.Item(id), form, &raw)
	} else {
		err = c.client.PatchForm(ctx, c.eps.Item(id), form, &raw)
	}
	if err != nil {
		c.setErr(err)
		return zero, err
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		c.setErr(err)
		return zero, err
	}
	c.warnOnSoftError(env)

	return c.refresh(ctx, id)
}

// Delete removes one record. The item leaves the list only after the server
// confirms the deletion.
func (c *Container[T]) Delete(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "store."+c.name+".Delete")
	defer span.End()

	c.setLoading(true)
	defer c.setLoading(false)

	if err := c.client.Delete(ctx, c.eps.Item(id)); err != nil {
		c.setErr(err)
		return err
	}

	c.removeAll(map[int64]struct{}{id: {}})
	c.clearErr()
	c.storeSnapshot(ctx, c.Items())
	return nil
}

// DeleteMany fans out one DELETE per id concurrently. Any failed delete
// fails the whole batch and no item is removed from the list, so the
// operator can re-issue the batch; the error names the failed ids.
func (c *Container[T]) DeleteMany(ctx context.Context, ids []int64) error {
	ctx, span := util.StartSpan(ctx, "store."+c.name+".DeleteMany")
	defer span.End()

	c.setLoading(true)
	defer c.setLoading(false)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []int64
	var firstErr error

	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.client.Delete(ctx, c.eps.Item(id)); err != nil {
				mu.Lock()
				failed = append(failed, id)
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(failed) > 0 {
		err := fmt.Errorf("failed to delete %s %v: %w", c.name, failed, firstErr)
		c.setErr(err)
		return err
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	c.removeAll(set)
	c.clearErr()
	c.storeSnapshot(ctx, c.Items())
	return nil
}

// WarmStart fills an empty container from the cached snapshot, if one
// exists. Warmed items are not server-confirmed: the next FetchAll still
// replaces the list wholesale.
func (c *Container[T]) WarmStart(ctx context.Context) {
	if c.snaps == nil {
		return
	}

	var list []T
	ok, err := c.snaps.Load(ctx, c.name, &list)
	if err != nil {
		c.logger.Warn("Failed to load cached snapshot",
			zap.String("resource", c.name),
			zap.Error(err))
		return
	}
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		c.items = list
		util.SnapshotWarmStartsTotal.WithLabelValues(c.name).Inc()
	}
}

func (c *Container[T]) fetchList(ctx context.Context) ([]T, error) {
	var list []T
	if err := c.client.Get(ctx, c.eps.List, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

func (c *Container[T]) fetchOne(ctx context.Context, id int64) (T, error) {
	var item T
	if err := c.client.Get(ctx, c.eps.Item(id), &item); err != nil {
		return item, err
	}
	return item, nil
}

// refresh re-fetches the record after a successful write and upserts it
func (c *Container[T]) refresh(ctx context.Context, id int64) (T, error) {
	item, err := c.fetchOne(ctx, id)
	if err != nil {
		c.setErr(err)
		return item, err
	}

	c.upsert(item)
	c.clearErr()
	c.storeSnapshot(ctx, c.Items())
	return item, nil
}

func (c *Container[T]) upsert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// removeAll drops the given ids, preserving the relative order of the rest
func (c *Container[T]) removeAll(ids map[int64]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if _, gone := ids[item.EntityID()]; !gone {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

func (c *Container[T]) mutate(fn func(items []T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.items)
}

func (c *Container[T]) setLoading(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = v
}

func (c *Container[T]) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *Container[T]) clearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}

func (c *Container[T]) storeSnapshot(ctx context.Context, list []T) {
	if c.snaps == nil {
		return
	}
	if err := c.snaps.Store(ctx, c.name, list); err != nil {
		c.logger.Warn("Failed to cache snapshot",
			zap.String("resource", c.name),
			zap.Error(err))
	}
}

// saveEnvelope is the slice of a create/update response the container cares
// about: the record id to re-fetch, and the application-level soft errors a
// 2xx body may carry from the payment provider.
type saveEnvelope struct {
	ID            int64  `json:"id"`
	PaymentStatus string `json:"paymentStatus"`
	Warning       string `json:"warning"`
}

func decodeEnvelope(raw json.RawMessage) (saveEnvelope, error) {
	var env saveEnvelope
	if len(raw) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("failed to decode save response: %w", err)
	}
	return env, nil
}

// warnOnSoftError surfaces payment-provider issues reported inside a 2xx
// response. The record is still considered saved.
func (c *Container[T]) warnOnSoftError(env saveEnvelope) {
	switch strings.ToUpper(env.PaymentStatus) {
	case "DUPLICATE":
		c.notify.Warning("The record was saved, but the payment provider reported a duplicate")
	case "FAILED":
		c.notify.Warning("The record was saved, but the payment provider sync failed")
	}
	if env.Warning != "" {
		c.notify.Warning(env.Warning)
	}
}
