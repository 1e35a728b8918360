package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyRanksMainFirst(t *testing.T) {
	files := []string{"src/main.rs", "src/app.rs", "README.md"}
	e := newTestEngine(t, Options{Lister: &countingLister{files: files}})

	ranked, err := e.FuzzySearch(context.Background(), "main")
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Equal(t, "src/main.rs", ranked[0])
	assert.NotContains(t, ranked, "src/app.rs")
	assert.NotContains(t, ranked, "README.md")
}

func TestFuzzyEmptyQueryReturnsEverything(t *testing.T) {
	files := []string{"a", "b", "c"}
	e := newTestEngine(t, Options{Lister: &countingLister{files: files}})

	all, err := e.FuzzySearch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, files, all)
	assert.Equal(t, 0, e.Stats().CachedQueries)
}

func TestFuzzyTiesKeepListingOrder(t *testing.T) {
	files := []string{"x/abc", "y/abc", "z/abc"}
	ranked := rankPaths("abc", files)
	assert.Equal(t, files, ranked)
}

func TestFuzzyIsCaseInsensitive(t *testing.T) {
	ranked := rankPaths("readme", []string{"docs/guide.md", "README.md"})
	assert.Equal(t, []string{"README.md"}, ranked)
}

func TestFuzzyUsesQueryCache(t *testing.T) {
	e := newTestEngine(t, Options{Lister: &countingLister{files: []string{"main.go"}}})
	ctx := context.Background()

	first, err := e.FuzzySearch(ctx, "mg")
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := e.FuzzySearch(ctx, "mg")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, second)
	assert.Equal(t, 1, e.Stats().CachedQueries)
}

func TestQueryCacheClearsWhenFull(t *testing.T) {
	q := newQueryCache(100)
	for i := 0; i < 101; i++ {
		q.store(fmt.Sprintf("q%d", i), []string{"f"})
	}
	assert.Equal(t, 1, q.len())
	_, ok := q.lookup("q100")
	assert.True(t, ok)
	_, ok = q.lookup("q0")
	assert.False(t, ok)
}

func TestQueryCacheOverwriteDoesNotClear(t *testing.T) {
	q := newQueryCache(2)
	q.store("a", []string{"1"})
	q.store("b", []string{"2"})
	q.store("b", []string{"3"})

	assert.Equal(t, 2, q.len())
	got, ok := q.lookup("b")
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, got)
}

func TestEngineQueryCacheBound(t *testing.T) {
	e := newTestEngine(t, Options{Lister: &countingLister{files: []string{"file.go"}}})
	for i := 0; i < 101; i++ {
		_, err := e.FuzzySearch(context.Background(), fmt.Sprintf("f%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, e.Stats().CachedQueries)
}

func TestMatchedIndexes(t *testing.T) {
	assert.Equal(t, []int{4, 5, 6, 7}, MatchedIndexes("main", "src/main.rs"))
	assert.Nil(t, MatchedIndexes("zzz", "src/main.rs"))
	assert.Nil(t, MatchedIndexes("", "src/main.rs"))
}

func TestRankingOverReplacedListingIsNotCached(t *testing.T) {
	refreshes := map[string]func(e *Engine){
		"invalidate": func(e *Engine) { e.InvalidateCaches() },
		"expiry":     func(e *Engine) { e.files.store.Delete(snapshotKey) },
	}
	for name, refresh := range refreshes {
		t.Run(name, func(t *testing.T) {
			lister := &countingLister{files: []string{"old/a.txt", "old/b.txt"}}
			e := newTestEngine(t, Options{Lister: lister})
			ctx := context.Background()

			rank := e.rank
			replaced := false
			e.rank = func(query string, paths []string) []string {
				if !replaced {
					replaced = true
					lister.files = []string{"new.txt"}
					refresh(e)
					_, err := e.List(ctx)
					require.NoError(t, err)
				}
				return rank(query, paths)
			}

			got, err := e.FuzzySearch(ctx, "old")
			require.NoError(t, err)
			assert.Len(t, got, 2, "the call answers from the listing it started with")
			assert.Zero(t, e.Stats().CachedQueries)

			got, err = e.FuzzySearch(ctx, "old")
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.Equal(t, 1, e.Stats().CachedQueries)
		})
	}
}
