package search

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/fzgrep/fzgrep/internal/logging"
)

var cacheLog = logging.ForComponent(logging.CompCache)

const snapshotKey = "files"

type snapshot struct {
	files   []string
	at      time.Time
	version uint64
}

// fileCache keeps the most recent listing for ttl. Concurrent misses share a
// single walk.
type fileCache struct {
	lister Lister
	ttl    time.Duration
	store  *cache.Cache
	flight singleflight.Group

	// onRefresh runs after a new listing is published.
	onRefresh func()

	// gen changes on every invalidate so a walk that started earlier can
	// neither publish its result nor be joined by later callers.
	gen atomic.Uint64
	// version changes on every publish and invalidate. A listing is current
	// while its version equals it.
	version   atomic.Uint64
	publishMu sync.Mutex
	walks     atomic.Int64
}

func newFileCache(lister Lister, ttl time.Duration) *fileCache {
	return &fileCache{
		lister: lister,
		ttl:    ttl,
		// No janitor: expired items are dropped lazily by Get.
		store: cache.New(ttl, 0),
	}
}

func (c *fileCache) snapshot() (*snapshot, bool) {
	v, ok := c.store.Get(snapshotKey)
	if !ok {
		return nil, false
	}
	return v.(*snapshot), true
}

// get returns a private copy of the cached listing, walking when it is
// missing or stale.
func (c *fileCache) get(ctx context.Context) ([]string, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return clonePaths(snap.files), nil
}

// load returns the shared snapshot without copying. A walk whose result was
// invalidated before it could publish comes back with version 0, which is
// never current.
func (c *fileCache) load(ctx context.Context) (*snapshot, error) {
	if snap, ok := c.snapshot(); ok {
		cacheLog.Debug("file_cache_hit", "files", len(snap.files), "age_ms", time.Since(snap.at).Milliseconds())
		return snap, nil
	}

	gen := c.gen.Load()
	ch := c.flight.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		if snap, ok := c.snapshot(); ok {
			return snap, nil
		}
		c.walks.Add(1)
		files, err := c.lister.List(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		snap := &snapshot{files: files, at: time.Now()}
		c.publishMu.Lock()
		published := c.gen.Load() == gen
		if published {
			snap.version = c.version.Add(1)
			c.store.Set(snapshotKey, snap, c.ttl)
		}
		c.publishMu.Unlock()
		if published && c.onRefresh != nil {
			c.onRefresh()
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		snap := res.Val.(*snapshot)
		cacheLog.Debug("file_cache_fill", "files", len(snap.files), "shared", res.Shared)
		return snap, nil
	}
}

// current reports whether a listing loaded at version is still the
// published one.
func (c *fileCache) current(version uint64) bool {
	return version != 0 && c.version.Load() == version
}

func (c *fileCache) invalidate() {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	c.gen.Add(1)
	c.version.Add(1)
	c.store.Delete(snapshotKey)
}

func (c *fileCache) age() time.Duration {
	if snap, ok := c.snapshot(); ok {
		return time.Since(snap.at)
	}
	return 0
}

func clonePaths(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
