package userdirectory

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"talentbridge/marketplace-api/internal/domain/user"
)

type cacheEntry struct {
	info      user.DisplayInfo
	fetchedAt time.Time
}

// CachedDirectory keeps recent successful lookups in a bounded LRU.
// Misses and errors are never cached so newly registered users appear immediately.
type CachedDirectory struct {
	next  user.Directory
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

var _ user.Directory = (*CachedDirectory)(nil)

// NewCachedDirectory wraps next with an LRU of the given size.
func NewCachedDirectory(next user.Directory, size int, ttl time.Duration) (*CachedDirectory, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedDirectory{next: next, cache: cache, ttl: ttl, now: time.Now}, nil
}

func (d *CachedDirectory) FindByID(ctx context.Context, id string) (*user.DisplayInfo, error) {
	if value, ok := d.cache.Get(id); ok {
		entry := value.(cacheEntry)
		if d.ttl <= 0 || d.now().Sub(entry.fetchedAt) < d.ttl {
			info := entry.info
			return &info, nil
		}
		d.cache.Remove(id)
	}

	info, err := d.next.FindByID(ctx, id)
	if err != nil || info == nil {
		return info, err
	}
	d.cache.Add(id, cacheEntry{info: *info, fetchedAt: d.now()})
	return info, nil
}
