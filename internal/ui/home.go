// Package ui is the bubbletea front end: it turns keystrokes into session
// commands, runs searches off the event loop, and renders the session.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fzgrep/fzgrep/internal/clipboard"
	"github.com/fzgrep/fzgrep/internal/logging"
	"github.com/fzgrep/fzgrep/internal/search"
	"github.com/fzgrep/fzgrep/internal/session"
)

var uiLog = logging.ForComponent(logging.CompUI)

const (
	defaultTickInterval = 50 * time.Millisecond
	// rows used by the title, query, status and footer lines
	chromeRows = 4
	jumpRows   = 10
)

// Options configure the Home model.
type Options struct {
	PageSize     int
	Debounce     time.Duration
	TickInterval time.Duration
	Theme        Theme
	// InitialQuery is typed into the query box and searched on start.
	InitialQuery string
	// Notice is shown in the status line until the first key press.
	Notice string
	// Clipboard receives the selection on "y". Nil disables copying.
	Clipboard clipboard.Copier
}

type tickMsg time.Time

type filesMsg struct {
	ticket session.Ticket
	files  []string
	err    error
}

type contentMsg struct {
	ticket  session.Ticket
	results []search.SearchResult
	err     error
}

// Home is the single screen of the app.
type Home struct {
	ctx    context.Context
	engine *search.Engine
	sess   *session.Session

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  styles

	tickInterval  time.Duration
	initialQuery  string
	cancelContent context.CancelFunc
	clip          clipboard.Copier
	notice        string

	width  int
	height int
}

// NewHome builds the model. ctx bounds every search it starts.
func NewHome(ctx context.Context, engine *search.Engine, opts Options) *Home {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	st := newStyles(opts.Theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.Spinner))

	return &Home{
		ctx:          ctx,
		engine:       engine,
		sess:         session.New(session.Options{PageSize: opts.PageSize, Debounce: opts.Debounce}),
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		styles:       st,
		tickInterval: opts.TickInterval,
		initialQuery: opts.InitialQuery,
		clip:         opts.Clipboard,
		notice:       opts.Notice,
	}
}

// Session exposes the state for tests and callers.
func (h *Home) Session() *session.Session { return h.sess }

func (h *Home) Init() tea.Cmd {
	if h.initialQuery != "" {
		h.sess.SetQuery(h.initialQuery, time.Now())
	}
	return tea.Batch(
		h.spinner.Tick,
		h.tick(),
		h.searchFiles(h.sess.Begin(session.ModeFileBrowser)),
	)
}

func (h *Home) tick() tea.Cmd {
	return tea.Tick(h.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (h *Home) searchFiles(t session.Ticket) tea.Cmd {
	engine, ctx := h.engine, h.ctx
	return func() tea.Msg {
		files, err := engine.FuzzySearch(ctx, t.Query)
		return filesMsg{ticket: t, files: files, err: err}
	}
}

// searchContent cancels the previous content search before starting t.
func (h *Home) searchContent(t session.Ticket) tea.Cmd {
	if h.cancelContent != nil {
		h.cancelContent()
	}
	ctx, cancel := context.WithCancel(h.ctx)
	h.cancelContent = cancel

	engine := h.engine
	return func() tea.Msg {
		results, err := engine.SearchContent(ctx, t.Query)
		return contentMsg{ticket: t, results: results, err: err}
	}
}

func (h *Home) run(t session.Ticket) tea.Cmd {
	if t.Mode == session.ModeContentSearch {
		return h.searchContent(t)
	}
	return h.searchFiles(t)
}

func (h *Home) listHeight() int {
	return max(h.height-chromeRows, 1)
}

func (h *Home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height
		h.help.Width = msg.Width
		h.sess.SetViewHeight(h.listHeight())
		return h, nil

	case tickMsg:
		cmds := []tea.Cmd{h.tick()}
		if t, ok := h.sess.Tick(time.Time(msg)); ok {
			cmds = append(cmds, h.searchFiles(t))
		}
		return h, tea.Batch(cmds...)

	case filesMsg:
		if !h.sess.CompleteFiles(msg.ticket, msg.files, msg.err) {
			return h, nil
		}
		if msg.err != nil {
			uiLog.Warn("file_search_failed", "query", msg.ticket.Query, "error", msg.err.Error())
		}
		return h, nil

	case contentMsg:
		if h.sess.CompleteContent(msg.ticket, msg.results, msg.err) && msg.err != nil {
			uiLog.Debug("content_search_ended", "query", msg.ticket.Query, "error", msg.err.Error())
		}
		return h, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd

	case tea.KeyMsg:
		h.notice = ""
		return h.handleKey(msg)
	}
	return h, nil
}

func (h *Home) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if h.sess.Mode() == session.ModeHelp {
		switch {
		case msg.Type == tea.KeyCtrlC:
			return h.quit()
		case key.Matches(msg, h.keys.Help, h.keys.Quit, h.keys.Cancel):
			h.sess.CloseHelp()
		}
		return h, nil
	}

	if h.sess.InputMode() == session.InputEditing {
		return h.handleEditing(msg)
	}
	return h.handleNormal(msg)
}

func (h *Home) handleEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	switch {
	case key.Matches(msg, h.keys.Submit):
		if t, ok := h.sess.Submit(); ok {
			return h, h.run(t)
		}
	case key.Matches(msg, h.keys.Cancel):
		h.sess.StopEditing()
	case key.Matches(msg, h.keys.Backspace):
		h.sess.Backspace(now)
	case key.Matches(msg, h.keys.Left):
		h.sess.CursorLeft()
	case key.Matches(msg, h.keys.Right):
		h.sess.CursorRight()
	case msg.Type == tea.KeySpace:
		h.sess.InsertRune(' ', now)
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			h.sess.InsertRune(r, now)
		}
	}
	return h, nil
}

func (h *Home) handleNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, h.keys.Quit):
		return h.quit()
	case key.Matches(msg, h.keys.Help):
		h.sess.SetMode(session.ModeHelp)
	case key.Matches(msg, h.keys.Toggle):
		h.sess.ToggleMode()
	case key.Matches(msg, h.keys.Edit):
		h.sess.StartEditing()
	case key.Matches(msg, h.keys.Submit):
		if t, ok := h.sess.Submit(); ok {
			return h, h.run(t)
		}
	case key.Matches(msg, h.keys.Up):
		h.sess.Move(-1)
	case key.Matches(msg, h.keys.Down):
		h.sess.Move(1)
	case key.Matches(msg, h.keys.PageUp):
		h.sess.Move(-jumpRows)
	case key.Matches(msg, h.keys.PageDown):
		h.sess.Move(jumpRows)
	case key.Matches(msg, h.keys.Home):
		h.sess.Home()
	case key.Matches(msg, h.keys.End):
		h.sess.End()
	case key.Matches(msg, h.keys.NextPage):
		h.sess.NextPage()
	case key.Matches(msg, h.keys.PrevPage):
		h.sess.PrevPage()
	case key.Matches(msg, h.keys.LastPage):
		h.sess.LastPage()
	case key.Matches(msg, h.keys.FirstPage):
		h.sess.FirstPage()
	case key.Matches(msg, h.keys.Refresh):
		return h, h.refresh()
	case key.Matches(msg, h.keys.Copy):
		h.copySelection()
	}
	return h, nil
}

// refresh drops the engine caches and reruns the visible mode's search.
func (h *Home) refresh() tea.Cmd {
	h.engine.InvalidateCaches()
	uiLog.Debug("refresh", "mode", h.sess.Mode().String())
	cmds := []tea.Cmd{h.searchFiles(h.sess.Begin(session.ModeFileBrowser))}
	if h.sess.Mode() == session.ModeContentSearch && h.sess.Query() != "" {
		cmds = append(cmds, h.searchContent(h.sess.Begin(session.ModeContentSearch)))
	}
	return tea.Batch(cmds...)
}

// copySelection puts the selected file's absolute path, or path:line for a
// content match, on the clipboard.
func (h *Home) copySelection() {
	if h.clip == nil {
		return
	}
	var text string
	if f, ok := h.sess.SelectedFile(); ok {
		text = h.absPath(f)
	} else if m, ok := h.sess.SelectedMatch(); ok {
		text = fmt.Sprintf("%s:%d", h.absPath(m.FilePath), m.LineNumber)
	}
	if text == "" {
		return
	}
	method, err := h.clip.Copy(text)
	if err != nil {
		h.notice = "copy failed: " + err.Error()
		return
	}
	uiLog.Debug("copied", "method", method, "bytes", len(text))
	h.notice = "copied " + text
}

func (h *Home) absPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(h.engine.Root(), rel)
}

func (h *Home) quit() (tea.Model, tea.Cmd) {
	if h.cancelContent != nil {
		h.cancelContent()
	}
	return h, tea.Quit
}
