// Package cache provides the process-wide ticket cache. It keeps two
// independent views of the same underlying data: the complete ticket list
// (one atomically replaceable snapshot) and individual tickets keyed by id.
// The two views are deliberately not kept consistent with each other here;
// the service invalidates both on every mutation. The cache never talks to
// the store, holds no business logic, is unbounded and has no TTL.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/iliyamo/movie-ticket-api/internal/model"
)

// TicketCache is safe for concurrent use without external locking. The
// all-tickets snapshot is a single pointer swap, so readers always observe
// either the previous complete snapshot or the new one, never a mix. The
// per-id map supports concurrent get/put/remove on unrelated ids without a
// global lock.
//
// Construct it with NewTicketCache and inject it into the service; there is
// no package-level instance.
type TicketCache struct {
	all  atomic.Pointer[[]model.Ticket]
	byID sync.Map // int64 -> model.Ticket
}

// NewTicketCache returns an empty cache with both views absent.
func NewTicketCache() *TicketCache {
	return &TicketCache{}
}

// GetAll returns the last stored snapshot and true, or false on a miss.
// Callers must treat the returned slice as read-only.
func (c *TicketCache) GetAll() ([]model.Ticket, bool) {
	p := c.all.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// PutAll replaces the all-tickets snapshot with a defensive copy of the
// given slice, preserving order. The copy keeps later mutations of the
// caller's slice from leaking into concurrent readers.
func (c *TicketCache) PutAll(tickets []model.Ticket) {
	snap := make([]model.Ticket, len(tickets))
	copy(snap, tickets)
	c.all.Store(&snap)
}

// InvalidateAll clears the all-tickets snapshot; the next GetAll misses.
func (c *TicketCache) InvalidateAll() {
	c.all.Store(nil)
}

// GetByID returns the cached ticket for id and true, or false on a miss.
func (c *TicketCache) GetByID(id int64) (model.Ticket, bool) {
	v, ok := c.byID.Load(id)
	if !ok {
		return model.Ticket{}, false
	}
	return v.(model.Ticket), true
}

// PutByID stores a ticket under its id in the per-id view.
func (c *TicketCache) PutByID(id int64, t model.Ticket) {
	c.byID.Store(id, t)
}

// InvalidateByID removes the per-id entry; absence is not an error.
func (c *TicketCache) InvalidateByID(id int64) {
	c.byID.Delete(id)
}

// Clear resets both views to empty. Used by the administrative
// cache-clear endpoint.
func (c *TicketCache) Clear() {
	c.all.Store(nil)
	c.byID.Clear()
}
