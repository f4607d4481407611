package cache

import (
	"context"
	"sync"
	"time"
)

// TrackingCache maps tracking numbers to order ids. A miss is (0, false, nil).
type TrackingCache interface {
	Get(ctx context.Context, trackingNumber string) (int64, bool, error)
	Set(ctx context.Context, trackingNumber string, orderID int64) error
	Delete(ctx context.Context, trackingNumber string) error
}

type memoryEntry struct {
	orderID int64
	expires time.Time
}

// MemoryTrackingCache is used when no Redis address is configured.
type MemoryTrackingCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	store map[string]memoryEntry
}

// NewMemoryTrackingCache keeps entries for ttl; zero means forever.
func NewMemoryTrackingCache(ttl time.Duration) *MemoryTrackingCache {
	return &MemoryTrackingCache{
		ttl:   ttl,
		now:   time.Now,
		store: make(map[string]memoryEntry),
	}
}

func (c *MemoryTrackingCache) Get(_ context.Context, trackingNumber string) (int64, bool, error) {
	c.mu.RLock()
	e, ok := c.store[trackingNumber]
	c.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.store, trackingNumber)
		c.mu.Unlock()
		return 0, false, nil
	}
	return e.orderID, true, nil
}

func (c *MemoryTrackingCache) Set(_ context.Context, trackingNumber string, orderID int64) error {
	e := memoryEntry{orderID: orderID}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.store[trackingNumber] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryTrackingCache) Delete(_ context.Context, trackingNumber string) error {
	c.mu.Lock()
	delete(c.store, trackingNumber)
	c.mu.Unlock()
	return nil
}
