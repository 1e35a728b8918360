package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzgrep/fzgrep/internal/search"
	"github.com/fzgrep/fzgrep/internal/session"
)

func newTestHome(t *testing.T, files map[string]string) *Home {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	engine, err := search.New(root, search.Options{})
	require.NoError(t, err)

	h := NewHome(context.Background(), engine, Options{PageSize: 10})
	h.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, h *Home, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	h.Update(cmd())
}

var sample = map[string]string{
	"src/main.rs": "fn main() {\n    println!(\"Hello\");\n}\n",
	"src/app.rs":  "pub fn run() {}\n",
	"README.md":   "hello world\n",
}

func TestHomeInitialListing(t *testing.T) {
	h := newTestHome(t, sample)
	require.NotNil(t, h.Init())

	deliver(t, h, h.searchFiles(h.sess.Begin(session.ModeFileBrowser)))
	assert.Equal(t, 3, h.sess.TotalItems())
	assert.Equal(t, "Files: 1-3 of 3 (Page 1/1)", h.sess.Status())
	assert.Contains(t, h.View(), "Files: 1-3 of 3")
}

func TestHomeResize(t *testing.T) {
	h := newTestHome(t, sample)
	model, _ := h.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got, ok := model.(*Home)
	require.True(t, ok)
	assert.Equal(t, 120, got.width)
	assert.Equal(t, 36, got.listHeight())
}

func TestHomeEditAndSubmitFileSearch(t *testing.T) {
	h := newTestHome(t, sample)

	h.Update(runes("/"))
	assert.Equal(t, session.InputEditing, h.sess.InputMode())
	h.Update(runes("main"))
	assert.Equal(t, "main", h.sess.Query())

	_, cmd := h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, session.InputNormal, h.sess.InputMode())
	deliver(t, h, cmd)

	f, ok := h.sess.SelectedFile()
	require.True(t, ok)
	assert.Equal(t, filepath.Join("src", "main.rs"), f)
}

func TestHomeDebouncedSearchOnTick(t *testing.T) {
	h := newTestHome(t, sample)
	h.Update(runes("/"))
	h.Update(runes("app"))

	_, cmd := h.Update(tickMsg(time.Now().Add(time.Second)))
	require.NotNil(t, cmd)
	assert.True(t, h.sess.Searching())

	deliver(t, h, h.searchFiles(h.sess.Begin(session.ModeFileBrowser)))
	assert.False(t, h.sess.Searching())
	assert.Equal(t, 1, h.sess.TotalItems())
}

func TestHomeIgnoresStaleResults(t *testing.T) {
	h := newTestHome(t, sample)
	old := h.sess.Begin(session.ModeFileBrowser)
	h.sess.Begin(session.ModeFileBrowser)

	h.Update(filesMsg{ticket: old, files: []string{"stale.go"}})
	assert.Equal(t, 0, h.sess.TotalItems())
	assert.True(t, h.sess.Searching())
}

func TestHomeContentSearch(t *testing.T) {
	h := newTestHome(t, sample)

	h.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, session.ModeContentSearch, h.sess.Mode())
	h.Update(runes("/"))
	h.Update(runes("hello"))
	_, cmd := h.Update(tea.KeyMsg{Type: tea.KeyEnter})
	deliver(t, h, cmd)

	require.Equal(t, 2, h.sess.TotalItems())
	m, ok := h.sess.SelectedMatch()
	require.True(t, ok)
	assert.Equal(t, "README.md", m.FilePath)
	assert.Contains(t, h.View(), "Matches: 1-2 of 2 (Page 1/1)")
}

func TestHomeNewContentSearchCancelsPrevious(t *testing.T) {
	h := newTestHome(t, sample)
	h.sess.SetMode(session.ModeContentSearch)
	h.sess.SetQuery("hello", time.Now())

	first := h.searchContent(h.sess.Begin(session.ModeContentSearch))
	h.searchContent(h.sess.Begin(session.ModeContentSearch))

	msg, ok := first().(contentMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, context.Canceled)

	h.Update(msg)
	assert.True(t, h.sess.Searching(), "the superseded search must not publish")
}

func TestHomeHelpToggle(t *testing.T) {
	h := newTestHome(t, sample)
	h.Update(runes("h"))
	assert.Equal(t, session.ModeHelp, h.sess.Mode())
	assert.Contains(t, h.View(), "fzgrep help")

	h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, session.ModeFileBrowser, h.sess.Mode())
}

func TestHomeQuit(t *testing.T) {
	h := newTestHome(t, sample)
	_, cmd := h.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHomeQInsideQueryIsText(t *testing.T) {
	h := newTestHome(t, sample)
	h.Update(runes("/"))
	_, cmd := h.Update(runes("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, "q", h.sess.Query())
}

func TestHomeRefreshRewalks(t *testing.T) {
	h := newTestHome(t, sample)
	deliver(t, h, h.searchFiles(h.sess.Begin(session.ModeFileBrowser)))
	require.EqualValues(t, 1, h.engine.Stats().Walks)

	_, cmd := h.Update(runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, h.sess.Searching())
	deliver(t, h, h.searchFiles(h.sess.Begin(session.ModeFileBrowser)))
	assert.EqualValues(t, 2, h.engine.Stats().Walks)
}

type fakeClipboard struct {
	got string
	err error
}

func (f *fakeClipboard) Copy(text string) (string, error) {
	f.got = text
	return "fake", f.err
}

func TestHomeCopySelection(t *testing.T) {
	h := newTestHome(t, sample)
	clip := &fakeClipboard{}
	h.clip = clip
	deliver(t, h, h.searchFiles(h.sess.Begin(session.ModeFileBrowser)))

	h.Update(runes("y"))
	assert.Equal(t, filepath.Join(h.engine.Root(), "README.md"), clip.got)
	assert.Contains(t, h.View(), "copied ")

	clip.err = errors.New("no tool")
	h.Update(runes("y"))
	assert.Contains(t, h.View(), "copy failed: no tool")

	h.Update(runes("j"))
	assert.NotContains(t, h.View(), "copy failed")
}

func TestHomeCopyWithoutSelection(t *testing.T) {
	root := t.TempDir()
	engine, err := search.New(root, search.Options{})
	require.NoError(t, err)
	clip := &fakeClipboard{}
	h := NewHome(context.Background(), engine, Options{Clipboard: clip})
	h.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	deliver(t, h, h.searchFiles(h.sess.Begin(session.ModeFileBrowser)))

	h.Update(runes("y"))
	assert.Empty(t, clip.got)
	assert.NotContains(t, h.View(), "copied")
}

func TestHomeNoticeShownUntilKey(t *testing.T) {
	root := t.TempDir()
	engine, err := search.New(root, search.Options{})
	require.NoError(t, err)
	h := NewHome(context.Background(), engine, Options{Notice: "NFS mount"})
	h.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	assert.Contains(t, h.View(), "NFS mount")
	h.Update(runes("j"))
	assert.NotContains(t, h.View(), "NFS mount")
}

func TestHighlightTruncates(t *testing.T) {
	st := newStyles(ThemeDark)
	out := highlight("abcdefgh", 4, map[int]bool{1: true}, st.Row, st.Match)
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "e")
	assert.Empty(t, highlight("abc", 0, nil, st.Row, st.Match))
}
