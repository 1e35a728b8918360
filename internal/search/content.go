package search

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fzgrep/fzgrep/internal/logging"
)

var searchLog = logging.ForComponent(logging.CompSearch)

// grepFiles searches files chunk by chunk. Cancellation is noticed between
// chunks; a canceled search returns what it found so far along with ctx.Err().
func (e *Engine) grepFiles(ctx context.Context, query string, files []string) ([]SearchResult, error) {
	needle := strings.ToLower(query)
	start := time.Now()
	progress := rate.Sometimes{First: 1, Interval: time.Second}

	var (
		mu      sync.Mutex
		results []SearchResult
	)

	for lo := 0; lo < len(files); lo += e.opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			return finishResults(results), err
		}
		hi := min(lo+e.opts.ChunkSize, len(files))

		var g errgroup.Group
		for _, rel := range files[lo:hi] {
			g.Go(func() error {
				if err := e.reads.Acquire(ctx, 1); err != nil {
					return nil
				}
				defer e.reads.Release(1)

				found := e.grepFile(rel, needle)
				if len(found) > 0 {
					mu.Lock()
					results = append(results, found...)
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()

		progress.Do(func() {
			mu.Lock()
			n := len(results)
			mu.Unlock()
			searchLog.Debug("content_search_progress",
				slog.String("query", query),
				slog.Int("scanned", hi),
				slog.Int("total", len(files)),
				slog.Int("matches", n))
		})
	}

	results = finishResults(results)
	if err := ctx.Err(); err != nil {
		return results, err
	}
	searchLog.Debug("content_search_done",
		slog.String("query", query),
		slog.Int("files", len(files)),
		slog.Int("matches", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return results, nil
}

func finishResults(results []SearchResult) []SearchResult {
	if results == nil {
		return []SearchResult{}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].FilePath != results[j].FilePath {
			return results[i].FilePath < results[j].FilePath
		}
		return results[i].LineNumber < results[j].LineNumber
	})
	return results
}

// grepFile returns the matching lines of one file, or nil when the file is
// skipped or unreadable.
func (e *Engine) grepFile(rel, needle string) []SearchResult {
	full := rel
	if !filepath.IsAbs(full) {
		full = filepath.Join(e.root, rel)
	}

	info, err := os.Stat(full)
	if err != nil {
		logging.Aggregate(logging.CompSearch, "file_skipped", slog.String("reason", "stat"), slog.String("path", rel))
		return nil
	}
	if info.Size() > e.opts.MaxFileSize {
		logging.Aggregate(logging.CompSearch, "file_skipped", slog.String("reason", "too_large"), slog.String("path", rel))
		return nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(rel), "."))
	if _, skip := e.skipExt[ext]; skip && ext != "" {
		return nil
	}

	data, err := e.readFile(full)
	if err != nil {
		logging.Aggregate(logging.CompSearch, "file_skipped", slog.String("reason", "read"), slog.String("path", rel))
		return nil
	}
	if int64(len(data)) > e.opts.MaxContentSize || !utf8.Valid(data) {
		logging.Aggregate(logging.CompSearch, "file_skipped", slog.String("reason", "not_text"), slog.String("path", rel))
		return nil
	}

	return matchLines(rel, string(data), needle, e.opts.MaxLineLength, e.opts.MaxMatchesPerFile)
}

// matchLines reports the first case-insensitive occurrence of needle on each
// line. needle must already be lowercased.
func matchLines(path, content, needle string, maxLine, maxMatches int) []SearchResult {
	var out []SearchResult
	lineNo := 0
	for pos := 0; pos < len(content); {
		var line string
		if nl := strings.IndexByte(content[pos:], '\n'); nl >= 0 {
			line = content[pos : pos+nl]
			pos += nl + 1
		} else {
			line = content[pos:]
			pos = len(content)
		}
		lineNo++
		line = strings.TrimSuffix(line, "\r")
		if len(line) > maxLine {
			continue
		}

		start, end, ok := indexFold(line, needle)
		if !ok {
			continue
		}
		out = append(out, SearchResult{
			FilePath:    path,
			LineNumber:  lineNo,
			LineContent: line,
			MatchStart:  start,
			MatchEnd:    end,
		})
		if len(out) >= maxMatches {
			break
		}
	}
	return out
}

// indexFold finds lowered needle in line ignoring case and returns the match
// as byte offsets into the original line.
func indexFold(line, needle string) (int, int, bool) {
	if needle == "" {
		return 0, 0, false
	}
	if isASCII(line) {
		i := strings.Index(strings.ToLower(line), needle)
		if i < 0 {
			return 0, 0, false
		}
		return i, i + len(needle), true
	}

	// Lowercasing can change a rune's encoded width, so keep a map from
	// each lowered byte back to the start of its source rune.
	lowered := make([]byte, 0, len(line))
	origin := make([]int, 0, len(line)+1)
	var buf [utf8.UTFMax]byte
	for off, r := range line {
		n := utf8.EncodeRune(buf[:], unicode.ToLower(r))
		lowered = append(lowered, buf[:n]...)
		for k := 0; k < n; k++ {
			origin = append(origin, off)
		}
	}
	origin = append(origin, len(line))

	i := strings.Index(string(lowered), needle)
	if i < 0 {
		return 0, 0, false
	}
	return origin[i], origin[i+len(needle)], true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
