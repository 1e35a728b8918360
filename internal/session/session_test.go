package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzgrep/fzgrep/internal/search"
)

func paths(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("f%05d.go", i)
	}
	return out
}

func typeQuery(s *Session, q string, start time.Time, gap time.Duration) {
	now := start
	for _, r := range q {
		s.InsertRune(r, now)
		now = now.Add(gap)
	}
}

func TestDebounceBurstRunsOneSearch(t *testing.T) {
	s := New(Options{})
	s.StartEditing()
	t0 := time.Unix(5000, 0)

	// "hello" typed one key every 30ms while the loop ticks every 10ms.
	keys := []rune("hello")
	var lastKey time.Time
	var fired []Ticket
	for step := 0; step < 100; step++ {
		now := t0.Add(time.Duration(step) * 10 * time.Millisecond)
		if step%3 == 0 && step/3 < len(keys) {
			s.InsertRune(keys[step/3], now)
			lastKey = now
		}
		if tk, ok := s.Tick(now); ok {
			assert.False(t, now.Before(lastKey.Add(DefaultDebounce)), "fired before the quiet period")
			fired = append(fired, tk)
		}
	}

	require.Len(t, fired, 1)
	assert.Equal(t, "hello", fired[0].Query)
	assert.Equal(t, ModeFileBrowser, fired[0].Mode)
	assert.True(t, s.Searching())
}

func TestTickWaitsForInflightSearch(t *testing.T) {
	s := New(Options{})
	s.StartEditing()
	t0 := time.Unix(5000, 0)

	s.InsertRune('a', t0)
	first, ok := s.Tick(t0.Add(200 * time.Millisecond))
	require.True(t, ok)

	s.InsertRune('b', t0.Add(300*time.Millisecond))
	_, ok = s.Tick(t0.Add(600 * time.Millisecond))
	assert.False(t, ok, "filename search still running")

	require.True(t, s.CompleteFiles(first, []string{"a.go"}, nil))
	second, ok := s.Tick(t0.Add(610 * time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, "ab", second.Query)
}

func TestTickIgnoredOutsideFileBrowserEditing(t *testing.T) {
	s := New(Options{})
	t0 := time.Unix(5000, 0)
	s.SetQuery("x", t0)

	_, ok := s.Tick(t0.Add(time.Second))
	assert.False(t, ok, "not editing")

	s.SetMode(ModeContentSearch)
	s.StartEditing()
	s.InsertRune('y', t0)
	_, ok = s.Tick(t0.Add(time.Second))
	assert.False(t, ok, "content search only runs on submit")

	tk, ok := s.Submit()
	require.True(t, ok)
	assert.Equal(t, ModeContentSearch, tk.Mode)
	assert.Equal(t, "xy", tk.Query)
	assert.Equal(t, InputNormal, s.InputMode())
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	s := New(Options{})
	older := s.Begin(ModeFileBrowser)
	newer := s.Begin(ModeFileBrowser)

	assert.True(t, s.CompleteFiles(newer, []string{"new.go"}, nil))
	assert.False(t, s.CompleteFiles(older, []string{"old.go"}, nil))
	assert.Equal(t, []string{"new.go"}, s.Files().Items())
	assert.False(t, s.Searching())
}

func TestCompletionForWrongKindIsIgnored(t *testing.T) {
	s := New(Options{})
	tk := s.Begin(ModeContentSearch)
	assert.False(t, s.CompleteFiles(tk, []string{"x"}, nil))
	assert.True(t, s.CompleteContent(tk, []search.SearchResult{{FilePath: "a", LineNumber: 1}}, nil))
}

func TestCanceledContentSearchKeepsPartialResults(t *testing.T) {
	s := New(Options{})
	s.SetMode(ModeContentSearch)
	tk := s.Begin(ModeContentSearch)

	partial := []search.SearchResult{{FilePath: "a.go", LineNumber: 3, LineContent: "hit", MatchEnd: 3}}
	require.True(t, s.CompleteContent(tk, partial, context.Canceled))
	assert.ErrorIs(t, s.Err(), context.Canceled)
	assert.Equal(t, 1, s.TotalItems())
}

func TestFailedFileSearchKeepsOldResults(t *testing.T) {
	s := New(Options{})
	require.True(t, s.CompleteFiles(s.Begin(ModeFileBrowser), []string{"a.go"}, nil))

	boom := errors.New("root gone")
	require.True(t, s.CompleteFiles(s.Begin(ModeFileBrowser), nil, boom))
	assert.Equal(t, boom, s.Err())
	assert.Equal(t, []string{"a.go"}, s.Files().Items())
}

func TestStatusLine(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, "Files: 0 results", s.Status())

	tk := s.Begin(ModeFileBrowser)
	assert.Equal(t, "Files: 0 results [searching...]", s.Status())

	s.CompleteFiles(tk, paths(4213), nil)
	assert.Equal(t, "Files: 1-1000 of 4213 (Page 1/5)", s.Status())

	s.LastPage()
	assert.Equal(t, "Files: 4001-4213 of 4213 (Page 5/5)", s.Status())

	s.SetMode(ModeContentSearch)
	assert.Equal(t, "Matches: 0 results", s.Status())
}

func TestModesKeepOwnResultsAndPages(t *testing.T) {
	s := New(Options{PageSize: 10})
	s.CompleteFiles(s.Begin(ModeFileBrowser), paths(25), nil)
	s.NextPage()
	s.Move(3)
	assert.Equal(t, 3, s.Selected())

	s.ToggleMode()
	assert.Equal(t, ModeContentSearch, s.Mode())
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, 0, s.TotalItems())

	s.ToggleMode()
	assert.Equal(t, 1, s.Files().Page(), "file page survives a mode round trip")
	assert.Equal(t, 0, s.Selected())
}

func TestPagingResetsSelection(t *testing.T) {
	s := New(Options{PageSize: 1000})
	s.CompleteFiles(s.Begin(ModeFileBrowser), paths(2500), nil)
	s.SetViewHeight(20)
	s.Move(50)
	assert.Equal(t, 50, s.Selected())
	assert.Equal(t, 31, s.Scroll())

	for i := 0; i < 5; i++ {
		s.NextPage()
	}
	assert.Equal(t, 2, s.Files().Page())
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, 0, s.Scroll())
	assert.Equal(t, 500, s.PageLen())

	s.End()
	f, ok := s.SelectedFile()
	require.True(t, ok)
	assert.Equal(t, "f02499.go", f)
}

func TestSelectionClampsToPage(t *testing.T) {
	s := New(Options{})
	s.CompleteFiles(s.Begin(ModeFileBrowser), paths(3), nil)
	s.Move(10)
	assert.Equal(t, 2, s.Selected())
	s.Move(-10)
	assert.Equal(t, 0, s.Selected())
}

func TestQueryEditing(t *testing.T) {
	s := New(Options{})
	now := time.Unix(0, 0)
	s.StartEditing()
	typeQuery(s, "mn", now, time.Millisecond)
	s.CursorLeft()
	s.InsertRune('a', now)
	s.InsertRune('i', now)
	assert.Equal(t, "main", s.Query())
	assert.Equal(t, 3, s.Cursor())

	s.CursorRight()
	s.CursorRight()
	assert.Equal(t, 4, s.Cursor())
	s.Backspace(now)
	assert.Equal(t, "mai", s.Query())

	s.InsertRune('ü', now)
	assert.Equal(t, "maiü", s.Query())
	assert.Equal(t, 4, s.Cursor())

	s.StopEditing()
	assert.Equal(t, InputNormal, s.InputMode())
	_, ok := s.Tick(now.Add(time.Hour))
	assert.False(t, ok)
}

func TestHelpReturnsToPreviousMode(t *testing.T) {
	s := New(Options{})
	s.SetMode(ModeContentSearch)
	s.StartEditing()
	s.SetMode(ModeHelp)
	assert.Equal(t, InputNormal, s.InputMode())
	assert.Equal(t, "Matches: 0 results", s.Status())

	s.StartEditing()
	assert.Equal(t, InputNormal, s.InputMode(), "no editing inside help")

	s.CloseHelp()
	assert.Equal(t, ModeContentSearch, s.Mode())
}
