package search

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/fzgrep/fzgrep/internal/logging"
)

var walkLog = logging.ForComponent(logging.CompWalk)

// ignoreFiles are read in every directory, in this order.
var ignoreFiles = []string{".gitignore", ".ignore"}

// Lister produces the list of files under a root.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// WalkLister walks the filesystem honoring gitignore-style rules.
type WalkLister struct {
	Root     string
	MaxDepth int
}

// NewWalkLister returns a lister for root with the given depth limit.
func NewWalkLister(root string, maxDepth int) *WalkLister {
	if maxDepth <= 0 {
		maxDepth = DefaultOptions().MaxDepth
	}
	return &WalkLister{Root: root, MaxDepth: maxDepth}
}

// ignoreScope holds the patterns in effect for one directory: everything
// inherited from its parents plus its own ignore files.
type ignoreScope struct {
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

func newIgnoreScope(patterns []gitignore.Pattern) *ignoreScope {
	return &ignoreScope{patterns: patterns, matcher: gitignore.NewMatcher(patterns)}
}

func (s *ignoreScope) ignored(components []string, isDir bool) bool {
	if len(s.patterns) == 0 {
		return false
	}
	return s.matcher.Match(components, isDir)
}

// List walks Root and returns sorted root-relative paths of regular files
// (and symlinks to regular files). It fails only when Root itself cannot be
// read.
func (w *WalkLister) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	root := w.Root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	rootPatterns := readIgnorePatterns(filepath.Join(root, ".git", "info", "exclude"), nil)
	scopes := map[string]*ignoreScope{}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == root {
			if err != nil {
				return fmt.Errorf("%w: %w", ErrRootUnreadable, err)
			}
			scopes[root] = newIgnoreScope(append(rootPatterns, readDirPatterns(root, nil)...))
			return nil
		}
		if err != nil {
			logging.Aggregate(logging.CompWalk, "entry_unreadable", slog.String("path", path))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		components := strings.Split(filepath.ToSlash(rel), "/")
		depth := len(components)

		parent := scopes[filepath.Dir(path)]
		if parent == nil {
			parent = scopes[root]
		}

		if d.IsDir() {
			if d.Name() == ".git" || parent.ignored(components, true) {
				return filepath.SkipDir
			}
			if depth >= w.MaxDepth {
				return filepath.SkipDir
			}
			own := readDirPatterns(path, components)
			if len(own) == 0 {
				scopes[path] = parent
			} else {
				merged := make([]gitignore.Pattern, 0, len(parent.patterns)+len(own))
				merged = append(merged, parent.patterns...)
				scopes[path] = newIgnoreScope(append(merged, own...))
			}
			return nil
		}

		if depth > w.MaxDepth || parent.ignored(components, false) {
			return nil
		}
		if !isListable(path, d) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		walkLog.Warn("walk_failed", "root", root, "error", err.Error())
		return nil, err
	}

	sort.Strings(files)
	walkLog.Debug("walk_done",
		"root", root,
		"files", len(files),
		"duration_ms", time.Since(start).Milliseconds())
	return files, nil
}

func isListable(path string, d fs.DirEntry) bool {
	switch {
	case d.Type().IsRegular():
		return true
	case d.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	default:
		return false
	}
}

func readDirPatterns(dir string, domain []string) []gitignore.Pattern {
	var out []gitignore.Pattern
	for _, name := range ignoreFiles {
		out = append(out, readIgnorePatterns(filepath.Join(dir, name), domain)...)
	}
	return out
}

// readIgnorePatterns parses one ignore file. Missing files yield nothing.
func readIgnorePatterns(path string, domain []string) []gitignore.Pattern {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var ps []gitignore.Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	return ps
}
