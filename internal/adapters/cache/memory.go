package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/voteagora/agora-tally/internal/domain/models"
)

type memoryEntry struct {
	view    *models.ResultView
	expires time.Time
}

// MemoryCache keeps resolved results in process memory
type MemoryCache struct {
	entries *xsync.Map[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: xsync.NewMap[string, memoryEntry](),
		now:     time.Now,
	}
}

// Get returns a cached view that has not expired
func (c *MemoryCache) Get(_ context.Context, key string) (*models.ResultView, bool, error) {
	e, ok := c.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.entries.Compute(key, func(old memoryEntry, loaded bool) (memoryEntry, xsync.ComputeOp) {
			if loaded && old.expires.Equal(e.expires) {
				return old, xsync.DeleteOp
			}
			return old, xsync.CancelOp
		})
		return nil, false, nil
	}
	return e.view, true, nil
}

// Set stores a view. A zero ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, view *models.ResultView, ttl time.Duration) error {
	e := memoryEntry{view: view}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries.Store(key, e)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	return c.entries.Size()
}
