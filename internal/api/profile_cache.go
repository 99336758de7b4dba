package api

import (
	"context"
	"sync"
	"time"

	"github.com/faceconnect/client/internal/models"
)

// ProfileSource fetches a user profile.
type ProfileSource interface {
	Profile(ctx context.Context, userID int64) (models.Profile, error)
}

type profileEntry struct {
	profile models.Profile
	expires time.Time
}

// ProfileCache wraps a ProfileSource with a TTL-based in-memory cache. Failed
// lookups are not cached.
type ProfileCache struct {
	base ProfileSource
	ttl  time.Duration
	now  func() time.Time

	mu    sync.RWMutex
	items map[int64]profileEntry
}

// NewProfileCache caches lookups on base for ttl; a non-positive ttl means one minute.
func NewProfileCache(base ProfileSource, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProfileCache{
		base:  base,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[int64]profileEntry),
	}
}

// Profile returns the cached profile when fresh, otherwise it delegates to the
// underlying source and stores the result.
func (c *ProfileCache) Profile(ctx context.Context, userID int64) (models.Profile, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[userID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.profile, nil
	}

	profile, err := c.base.Profile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}

	c.mu.Lock()
	c.items[userID] = profileEntry{profile: profile, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return profile, nil
}

// Reset drops every cached profile.
func (c *ProfileCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int64]profileEntry)
}

// WithNowFunc allows tests to override the time source.
func (c *ProfileCache) WithNowFunc(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
