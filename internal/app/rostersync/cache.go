// internal/app/rostersync/cache.go
package rostersync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/automaatje/automaatje/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TripLister is the slice of the trip store the cache reads from.
type TripLister interface {
	ListByClass(ctx context.Context, classID string) ([]models.Trip, error)
}

type entry struct {
	children []models.Child
	loaded   time.Time
}

// Cache is a per-class read-through cache of CollectAllKnownChildren.
//
// Entries expire after the TTL and are dropped by Invalidate. Concurrent
// misses for the same class share a single ListByClass call.
type Cache struct {
	src TripLister
	ttl time.Duration
	log *zap.Logger

	// now is swapped in tests.
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	gen     map[string]uint64
	epoch   uint64 // bumped by InvalidateAll
	group   singleflight.Group
}

// NewCache builds a cache over src. A ttl of zero or less disables expiry;
// entries then live until invalidated.
func NewCache(src TripLister, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		src:     src,
		ttl:     ttl,
		log:     logger,
		now:     time.Now,
		entries: make(map[string]entry),
		gen:     make(map[string]uint64),
	}
}

// Known returns the roster of classID, loading it if needed. The returned
// slice is owned by the caller.
func (c *Cache) Known(ctx context.Context, classID string) ([]models.Child, error) {
	c.mu.Lock()
	if e, ok := c.entries[classID]; ok && !c.expired(e) {
		c.mu.Unlock()
		return copyChildren(e.children), nil
	}
	gen, epoch := c.gen[classID], c.epoch
	c.mu.Unlock()

	key := fmt.Sprintf("%s#%d#%d", classID, epoch, gen)
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		trips, err := c.src.ListByClass(ctx, classID)
		if err != nil {
			return nil, err
		}
		children := CollectAllKnownChildren(trips)

		c.mu.Lock()
		// An Invalidate while we were loading makes this result stale.
		if c.gen[classID] == gen && c.epoch == epoch {
			c.entries[classID] = entry{children: children, loaded: c.now()}
		}
		c.mu.Unlock()
		return children, nil
	})
	if err != nil {
		c.log.Warn("roster load failed", zap.String("class_id", classID), zap.Error(err))
		return nil, fmt.Errorf("load roster for class %s: %w", classID, err)
	}
	if shared {
		c.log.Debug("roster load shared", zap.String("class_id", classID))
	}
	return copyChildren(v.([]models.Child)), nil
}

// Invalidate forgets the roster of classID. The next Known call reloads it.
func (c *Cache) Invalidate(classID string) {
	c.mu.Lock()
	delete(c.entries, classID)
	c.gen[classID]++
	c.mu.Unlock()
}

// InvalidateAll forgets every cached roster.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.epoch++
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports how many classes are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.loaded) >= c.ttl
}

func copyChildren(in []models.Child) []models.Child {
	return append(make([]models.Child, 0, len(in)), in...)
}
