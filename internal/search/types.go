// Package search is the fzgrep engine: it lists the files under a root,
// caches the listing, ranks paths against a fuzzy query and greps file
// contents with bounded I/O concurrency.
package search

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrRootUnreadable is returned when the root directory itself cannot be
	// opened. Unreadable entries below the root are skipped, never reported.
	ErrRootUnreadable = errors.New("root directory unreadable")
	// ErrNotDirectory is returned by New when the root is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// SearchResult is one matching line from a content search.
// MatchStart and MatchEnd are byte offsets into LineContent.
type SearchResult struct {
	FilePath    string `json:"file"`
	LineNumber  int    `json:"line"`
	LineContent string `json:"content"`
	MatchStart  int    `json:"match_start"`
	MatchEnd    int    `json:"match_end"`
}

// Match returns the matched substring of the line.
func (r SearchResult) Match() string {
	return r.LineContent[r.MatchStart:r.MatchEnd]
}

// Options tune the engine. Zero fields take the value from DefaultOptions.
type Options struct {
	// CacheDuration is how long a file listing stays fresh.
	CacheDuration time.Duration
	// MaxDepth limits directory descent; children of the root are depth 1.
	MaxDepth int
	// ChunkSize is how many files a content search reads before checking
	// for cancellation.
	ChunkSize int
	// MaxConcurrentReads bounds open files across every search on the engine.
	MaxConcurrentReads int64
	MaxFileSize        int64
	MaxContentSize     int64
	MaxLineLength      int
	MaxMatchesPerFile  int
	QueryCacheSize     int
	// SkipExtensions are lowercase extensions without the dot.
	SkipExtensions []string

	// Lister replaces the filesystem walk. Tests use it to count walks.
	Lister Lister
}

var defaultSkipExtensions = []string{
	"exe", "dll", "so", "dylib", "bin", "o", "a", "lib", "obj",
	"jpg", "jpeg", "png", "gif", "bmp", "ico", "svg", "webp",
	"mp3", "mp4", "avi", "mkv", "wav", "flac", "ogg",
	"zip", "tar", "gz", "7z", "rar",
	"pdf", "class", "jar",
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{
		CacheDuration:      30 * time.Second,
		MaxDepth:           10,
		ChunkSize:          50,
		MaxConcurrentReads: 100,
		MaxFileSize:        10_000_000,
		MaxContentSize:     5_000_000,
		MaxLineLength:      1000,
		MaxMatchesPerFile:  100,
		QueryCacheSize:     100,
		SkipExtensions:     append([]string(nil), defaultSkipExtensions...),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CacheDuration <= 0 {
		o.CacheDuration = d.CacheDuration
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.MaxConcurrentReads <= 0 {
		o.MaxConcurrentReads = d.MaxConcurrentReads
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = d.MaxFileSize
	}
	if o.MaxContentSize <= 0 {
		o.MaxContentSize = d.MaxContentSize
	}
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = d.MaxLineLength
	}
	if o.MaxMatchesPerFile <= 0 {
		o.MaxMatchesPerFile = d.MaxMatchesPerFile
	}
	if o.QueryCacheSize <= 0 {
		o.QueryCacheSize = d.QueryCacheSize
	}
	if len(o.SkipExtensions) == 0 {
		o.SkipExtensions = d.SkipExtensions
	}
	return o
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return set
}

// Stats reports engine counters.
type Stats struct {
	// Walks is the number of directory walks performed so far.
	Walks int64
	// CachedQueries is the number of fuzzy queries currently cached.
	CachedQueries int
	// CacheAge is the age of the current listing, zero when there is none.
	CacheAge time.Duration
}
