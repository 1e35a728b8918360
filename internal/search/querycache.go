package search

import "sync"

// queryCache maps an exact fuzzy query to its ranked paths. When full it is
// emptied before the next insert rather than evicting one entry.
type queryCache struct {
	mu      sync.RWMutex
	entries map[string][]string
	limit   int
}

func newQueryCache(limit int) *queryCache {
	return &queryCache{entries: make(map[string][]string), limit: limit}
}

func (q *queryCache) lookup(query string) ([]string, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	paths, ok := q.entries[query]
	if !ok {
		return nil, false
	}
	return clonePaths(paths), true
}

func (q *queryCache) store(query string, paths []string) {
	q.storeIf(query, paths, nil)
}

// storeIf stores paths only while valid reports true. valid runs under the
// write lock, so a listing change followed by invalidateAll either rejects
// the entry or clears it.
func (q *queryCache) storeIf(query string, paths []string, valid func() bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if valid != nil && !valid() {
		return false
	}
	if _, exists := q.entries[query]; !exists && len(q.entries) >= q.limit {
		cacheLog.Debug("query_cache_cleared", "entries", len(q.entries))
		q.entries = make(map[string][]string, q.limit)
	}
	q.entries[query] = clonePaths(paths)
	return true
}

func (q *queryCache) invalidateAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = make(map[string][]string, q.limit)
}

func (q *queryCache) len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}
