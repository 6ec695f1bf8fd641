package gallery

import (
	"context"
	"sync/atomic"

	"github.com/kozaktomas/face-checkin/internal/store"
)

// Cache is the process-wide gallery holder. The snapshot pointer is swapped
// atomically on rebuild; snapshots themselves are never mutated.
type Cache struct {
	snap atomic.Pointer[Snapshot]
}

// NewCache creates a cache holding an empty snapshot.
func NewCache() *Cache {
	c := &Cache{}
	c.snap.Store(&Snapshot{})
	return c
}

// Rebuild replaces the current snapshot with a fresh flattening of the store.
// This is the only mutator of the cache.
func (c *Cache) Rebuild(ctx context.Context, src store.IdentityStore) error {
	snap, err := Rebuild(ctx, src)
	if err != nil {
		return err
	}
	c.snap.Store(snap)
	return nil
}

// Snapshot returns the current gallery view. The returned snapshot stays
// valid even if a concurrent Rebuild replaces it.
func (c *Cache) Snapshot() *Snapshot {
	return c.snap.Load()
}
