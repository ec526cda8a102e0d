// Package cache keeps the last fetched list pages and stats snapshot so
// navigation between queues does not refetch on every render. Entries are
// transient projections of backend state; every mutation discards the
// affected queues instead of editing cached content.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// Queue keys. Each list page is cached under (queue, filter, page); the
// stats snapshot under its queue key alone.
const (
	KeyStats              = "admin-stats"
	KeyReports            = "reports"
	KeyChatReports        = "chat-reports"
	KeyReceiptReviews     = "receipt-reviews"
	KeyPendingRestaurants = "pending-restaurants"
	KeyGatherings         = "gatherings"
	KeyFailedRefunds      = "failed-refunds"
)

// Invalidations is the full mutation-to-queue dependency graph in one
// reviewable table. Every mutation also stales the stats snapshot so
// dashboard counts stay consistent without a manual refresh.
var Invalidations = map[string][]string{
	"report.process":      {KeyReports, KeyStats},
	"chat-report.process": {KeyChatReports, KeyStats},
	"receipt.approve":     {KeyReceiptReviews, KeyStats},
	"receipt.reject":      {KeyReceiptReviews, KeyStats},
	"restaurant.approve":  {KeyPendingRestaurants, KeyStats},
	"restaurant.reject":   {KeyPendingRestaurants, KeyStats},
	"refund.complete":     {KeyFailedRefunds, KeyStats},
}

type entry struct {
	value   any
	queue   string
	expires time.Time
}

type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: map[string]entry{}}
}

func listKey(queue, filter string, page int) string {
	return fmt.Sprintf("%s|%s|%d", queue, filter, page)
}

// Get returns a fresh cached page. Expired entries are kept until
// invalidated so GetStale can serve them as a fallback.
func (c *Cache) Get(queue, filter string, page int) (any, bool) {
	return c.lookup(listKey(queue, filter, page), false)
}

// GetStale returns a cached page regardless of age. Used when a refetch
// failed and the last good value is still better than an empty screen.
func (c *Cache) GetStale(queue, filter string, page int) (any, bool) {
	return c.lookup(listKey(queue, filter, page), true)
}

func (c *Cache) Put(queue, filter string, page int, v any) {
	c.put(listKey(queue, filter, page), queue, v)
}

func (c *Cache) GetValue(queue string) (any, bool) {
	return c.lookup(queue, false)
}

func (c *Cache) PutValue(queue string, v any) {
	c.put(queue, queue, v)
}

// Invalidate discards every entry belonging to the given queues, whatever
// filter or page it was cached under.
func (c *Cache) Invalidate(queues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		for _, q := range queues {
			if e.queue == q {
				delete(c.entries, k)
				break
			}
		}
	}
}

// InvalidateFor applies the declared invalidation set for a mutation action.
// Unknown actions invalidate nothing.
func (c *Cache) InvalidateFor(action string) {
	if keys, ok := Invalidations[action]; ok {
		c.Invalidate(keys...)
	}
}

func (c *Cache) lookup(key string, allowStale bool) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !allowStale && time.Now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) put(key, queue string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: v, queue: queue, expires: time.Now().Add(c.ttl)}
}
