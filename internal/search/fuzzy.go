package search

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// pathSource adapts a path list to fuzzy.Source.
type pathSource []string

func (s pathSource) String(i int) string { return s[i] }
func (s pathSource) Len() int            { return len(s) }

// rankPaths scores every path against query and returns the matches best
// first. Equal scores keep their input order.
func rankPaths(query string, paths []string) []string {
	matches := fuzzy.FindFrom(query, pathSource(paths))
	// fuzzy sorts with a non-strict Less, which leaves ties in no
	// particular order.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// MatchedIndexes returns the byte indexes of path that the fuzzy query
// matched, for highlighting. Nil when path does not match.
func MatchedIndexes(query, path string) []int {
	if query == "" {
		return nil
	}
	matches := fuzzy.Find(query, []string{path})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}
