package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"
)

// Engine owns a root directory and its caches. It is safe for concurrent
// use; share one *Engine between every caller for the same root.
type Engine struct {
	root    string
	opts    Options
	files   *fileCache
	queries *queryCache
	reads   *semaphore.Weighted
	skipExt map[string]struct{}

	rank     func(query string, paths []string) []string
	readFile func(name string) ([]byte, error)
}

// New returns an engine for root. root must be an existing directory.
func New(root string, opts Options) (*Engine, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}
	// WalkDir does not follow a symlinked root.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	opts = opts.withDefaults()
	lister := opts.Lister
	if lister == nil {
		lister = NewWalkLister(abs, opts.MaxDepth)
	}

	e := &Engine{
		root:    abs,
		opts:    opts,
		queries: newQueryCache(opts.QueryCacheSize),
		reads:   semaphore.NewWeighted(opts.MaxConcurrentReads),
		skipExt: extensionSet(opts.SkipExtensions),

		rank:     rankPaths,
		readFile: os.ReadFile,
	}
	e.files = newFileCache(lister, opts.CacheDuration)
	// Rankings describe a particular listing; drop them when a new one lands.
	e.files.onRefresh = e.queries.invalidateAll
	return e, nil
}

// Root returns the absolute root directory.
func (e *Engine) Root() string { return e.root }

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// List returns every file under the root, from cache when fresh.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.files.get(ctx)
}

// FuzzySearch ranks the file list against query. An empty query returns the
// whole list in listing order.
func (e *Engine) FuzzySearch(ctx context.Context, query string) ([]string, error) {
	snap, err := e.files.load(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return clonePaths(snap.files), nil
	}
	if ranked, ok := e.queries.lookup(query); ok {
		return ranked, nil
	}

	start := time.Now()
	ranked := e.rank(query, snap.files)
	// A refresh that landed while ranking makes this result stale.
	cached := e.queries.storeIf(query, ranked, func() bool {
		return e.files.current(snap.version)
	})
	searchLog.Debug("fuzzy_search",
		"query", query,
		"candidates", len(snap.files),
		"matches", len(ranked),
		"cached", cached,
		"duration_ms", time.Since(start).Milliseconds())
	return ranked, nil
}

// SearchContent greps every listed file for query, case-insensitively.
// Results are ordered by path then line. An empty query matches nothing.
func (e *Engine) SearchContent(ctx context.Context, query string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}
	files, err := e.files.get(ctx)
	if err != nil {
		return nil, err
	}
	return e.grepFiles(ctx, query, files)
}

// InvalidateCaches forgets the file listing and every cached ranking. The
// next call walks the tree again.
func (e *Engine) InvalidateCaches() {
	e.files.invalidate()
	e.queries.invalidateAll()
	cacheLog.Debug("caches_invalidated", "root", e.root)
}

// Stats returns current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Walks:         e.files.walks.Load(),
		CachedQueries: e.queries.len(),
		CacheAge:      e.files.age(),
	}
}
