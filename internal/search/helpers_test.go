package search

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeTree creates files under root. Keys are slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

// countingLister returns a fixed listing and counts how often it is asked.
type countingLister struct {
	files []string
	delay time.Duration
	err   error
	calls atomic.Int32
}

func (l *countingLister) List(ctx context.Context) ([]string, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	return append([]string(nil), l.files...), nil
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(t.TempDir(), opts)
	require.NoError(t, err)
	return e
}
