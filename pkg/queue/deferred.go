// Package queue provides the deferred item queue: an in-process, concurrent,
// keyed retry buffer for item lifecycle events whose metadata arrives
// asynchronously after the item is created or removed. Entries live only in
// memory and are lost on restart; delivery stays best-effort.
package queue

import (
	"context"
	"sync"

	"github.com/kart-io/mediahook/pkg/events"
	"github.com/kart-io/mediahook/pkg/logger"
)

// DefaultMaxRetries bounds how many sweeps an entry waits for provider ids
// before being dispatched with whatever metadata is available.
const DefaultMaxRetries = 10

// ItemStore is the host collaborator that resolves an item id to its current
// metadata. A (nil, nil) return means the item no longer exists.
type ItemStore interface {
	Lookup(ctx context.Context, id string) (*events.Item, error)
}

// DispatchFunc receives an item whose metadata is considered ready, or whose
// retry budget is exhausted, together with the notification type the queue
// was created for.
type DispatchFunc func(ctx context.Context, nt events.NotificationType, item *events.Item)

type entry struct {
	itemID     string
	retryCount int
}

// DeferredQueue holds pending item events keyed by item id. AddItem may be
// called concurrently with ProcessPending; at most one entry exists per item
// id, and re-adding a queued id is a no-op against the existing entry.
type DeferredQueue struct {
	nt         events.NotificationType
	store      ItemStore
	dispatch   DispatchFunc
	maxRetries int
	log        logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// NewDeferredQueue creates a queue dispatching events of the given type.
func NewDeferredQueue(nt events.NotificationType, store ItemStore, dispatch DispatchFunc, log logger.Logger) *DeferredQueue {
	if log == nil {
		log = logger.Discard
	}
	return &DeferredQueue{
		nt:         nt,
		store:      store,
		dispatch:   dispatch,
		maxRetries: DefaultMaxRetries,
		log:        log,
		entries:    make(map[string]*entry),
	}
}

// AddItem queues an item id for processing. Idempotent by id: an id already
// pending keeps its existing entry and retry count.
func (q *DeferredQueue) AddItem(id string) {
	if id == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.entries[id]; exists {
		q.log.Debug("item already queued", "itemId", id, "type", q.nt)
		return
	}
	q.entries[id] = &entry{itemID: id}
	q.log.Debug("item queued", "itemId", id, "type", q.nt)
}

// Len returns the number of pending entries.
func (q *DeferredQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// ProcessPending runs one full sweep over the pending entries.
//
// Per entry: an item the store no longer knows is dropped silently. An item
// without provider ids and retry budget left stays queued with its count
// incremented. Otherwise the entry is dispatched and removed; exhausting the
// retry budget still dispatches, with whatever metadata is available.
//
// The poller serializes sweeps, so a given item id is processed by at most
// one sweep at a time.
func (q *DeferredQueue) ProcessPending(ctx context.Context) {
	for _, e := range q.snapshot() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		q.processEntry(ctx, e)
	}
}

func (q *DeferredQueue) snapshot() []*entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	snap := make([]*entry, 0, len(q.entries))
	for _, e := range q.entries {
		snap = append(snap, e)
	}
	return snap
}

func (q *DeferredQueue) processEntry(ctx context.Context, e *entry) {
	item, err := q.store.Lookup(ctx, e.itemID)
	if err != nil {
		q.log.Error("item lookup failed", "itemId", e.itemID, "error", err)
		return
	}
	if item == nil {
		// Deleted before processing. Silent drop.
		q.log.Debug("item no longer exists, dropping", "itemId", e.itemID, "type", q.nt)
		q.remove(e.itemID)
		return
	}

	if !item.HasProviderIDs() && e.retryCount < q.maxRetries {
		e.retryCount++
		q.log.Debug("item metadata not ready, requeueing", "itemId", e.itemID, "retryCount", e.retryCount)
		return
	}

	if !item.HasProviderIDs() {
		q.log.Warn("retry budget exhausted, dispatching with partial metadata", "itemId", e.itemID, "type", q.nt)
	}
	q.remove(e.itemID)
	// Cancellation halts the sweep between entries, never a delivery already
	// underway: an in-flight send finishes or times out on its own transport
	// timeout.
	q.dispatch(context.WithoutCancel(ctx), q.nt, item)
}

func (q *DeferredQueue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, id)
}
