// Package session holds the interactive search state: which mode is active,
// the query being edited, per-mode paginated results, and which in-flight
// search is allowed to publish its results.
package session

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/fzgrep/fzgrep/internal/logging"
	"github.com/fzgrep/fzgrep/internal/search"
)

var sessionLog = logging.ForComponent(logging.CompSession)

// Mode is the active screen.
type Mode int

const (
	ModeFileBrowser Mode = iota
	ModeContentSearch
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeFileBrowser:
		return "files"
	case ModeContentSearch:
		return "content"
	case ModeHelp:
		return "help"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// InputMode says whether keystrokes edit the query.
type InputMode int

const (
	InputNormal InputMode = iota
	InputEditing
)

// Ticket identifies one search request. Only the most recently issued ticket
// for a mode may publish results.
type Ticket struct {
	Mode  Mode
	Gen   uint64
	Query string
}

// Options configure a Session.
type Options struct {
	PageSize int
	Debounce time.Duration
}

// Session is owned by the interactive loop; it is not safe for concurrent use.
type Session struct {
	mode     Mode
	lastMode Mode // mode to return to when help closes
	input    InputMode

	query  []rune
	cursor int

	files   *Pager[string]
	matches *Pager[search.SearchResult]

	selected int
	scroll   int
	height   int

	debounce *Debouncer
	gens     [2]uint64
	inflight [2]bool
	err      error
}

// New returns a session in file-browser mode with an empty query.
func New(opts Options) *Session {
	return &Session{
		files:    NewPager[string](opts.PageSize),
		matches:  NewPager[search.SearchResult](opts.PageSize),
		debounce: NewDebouncer(opts.Debounce),
		height:   1,
	}
}

func (s *Session) Mode() Mode { return s.mode }
func (s *Session) InputMode() InputMode { return s.input }
func (s *Session) Query() string { return string(s.query) }
func (s *Session) Cursor() int { return s.cursor }
func (s *Session) Selected() int { return s.selected }
func (s *Session) Scroll() int { return s.scroll }
func (s *Session) Err() error { return s.err }

// Files and Matches expose the per-mode pagers.
func (s *Session) Files() *Pager[string] { return s.files }
func (s *Session) Matches() *Pager[search.SearchResult] { return s.matches }

// resultMode is the mode whose results are on screen; help shows the mode
// it was opened from.
func (s *Session) resultMode() Mode {
	if s.mode == ModeHelp {
		return s.lastMode
	}
	return s.mode
}

// SetMode switches screens. Each result mode keeps its own results and page;
// only the selection and scroll reset.
func (s *Session) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	if m == ModeHelp {
		s.lastMode = s.resultMode()
		s.input = InputNormal
	}
	s.mode = m
	s.resetCursor()
}

// ToggleMode flips between file browser and content search.
func (s *Session) ToggleMode() {
	if s.resultMode() == ModeFileBrowser {
		s.SetMode(ModeContentSearch)
	} else {
		s.SetMode(ModeFileBrowser)
	}
}

// CloseHelp returns to the mode help was opened from.
func (s *Session) CloseHelp() {
	if s.mode == ModeHelp {
		s.SetMode(s.lastMode)
	}
}

func (s *Session) StartEditing() {
	if s.mode == ModeHelp {
		return
	}
	s.input = InputEditing
	s.cursor = len(s.query)
}

// StopEditing leaves editing without running a search. A pending debounce
// is dropped.
func (s *Session) StopEditing() {
	s.input = InputNormal
	s.debounce.Disarm()
}

// InsertRune adds r at the cursor.
func (s *Session) InsertRune(r rune, now time.Time) {
	if !utf8.ValidRune(r) {
		return
	}
	s.query = append(s.query, 0)
	copy(s.query[s.cursor+1:], s.query[s.cursor:])
	s.query[s.cursor] = r
	s.cursor++
	s.debounce.Touch(now)
}

// Backspace deletes the rune before the cursor.
func (s *Session) Backspace(now time.Time) {
	if s.cursor == 0 {
		return
	}
	s.query = append(s.query[:s.cursor-1], s.query[s.cursor:]...)
	s.cursor--
	s.debounce.Touch(now)
}

func (s *Session) CursorLeft() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *Session) CursorRight() {
	if s.cursor < len(s.query) {
		s.cursor++
	}
}

// SetQuery replaces the query and parks the cursor at the end.
func (s *Session) SetQuery(q string, now time.Time) {
	s.query = []rune(q)
	s.cursor = len(s.query)
	s.debounce.Touch(now)
}

// Searching reports whether the visible mode has a search in flight.
func (s *Session) Searching() bool {
	return s.inflight[s.resultMode()]
}

// Begin issues a ticket for a new search in mode m. Any older ticket for m
// becomes stale.
func (s *Session) Begin(m Mode) Ticket {
	if m == ModeHelp {
		m = s.lastMode
	}
	s.gens[m]++
	s.inflight[m] = true
	t := Ticket{Mode: m, Gen: s.gens[m], Query: s.Query()}
	sessionLog.Debug("search_begin", "mode", m.String(), "gen", t.Gen, "query", t.Query)
	return t
}

// Tick runs the debounce check. It returns a filename-search ticket once the
// query has been quiet long enough while editing in the file browser.
func (s *Session) Tick(now time.Time) (Ticket, bool) {
	if s.input != InputEditing || s.mode != ModeFileBrowser || s.inflight[ModeFileBrowser] {
		return Ticket{}, false
	}
	if !s.debounce.Ready(now) {
		return Ticket{}, false
	}
	s.debounce.Disarm()
	return s.Begin(ModeFileBrowser), true
}

// Submit handles Enter while editing: it leaves editing and starts a search
// for the current mode.
func (s *Session) Submit() (Ticket, bool) {
	if s.mode == ModeHelp {
		return Ticket{}, false
	}
	s.input = InputNormal
	s.debounce.Disarm()
	return s.Begin(s.mode), true
}

func (s *Session) current(t Ticket) bool {
	if t.Mode != ModeFileBrowser && t.Mode != ModeContentSearch {
		return false
	}
	if t.Gen != s.gens[t.Mode] {
		sessionLog.Debug("search_stale", "mode", t.Mode.String(), "gen", t.Gen, "latest", s.gens[t.Mode])
		return false
	}
	s.inflight[t.Mode] = false
	return true
}

// CompleteFiles publishes a filename search. Stale tickets are ignored and
// false is returned.
func (s *Session) CompleteFiles(t Ticket, files []string, err error) bool {
	if t.Mode != ModeFileBrowser || !s.current(t) {
		return false
	}
	s.err = err
	if err != nil {
		return true
	}
	s.files.SetResults(files)
	if s.resultMode() == ModeFileBrowser {
		s.clampSelection()
	}
	return true
}

// CompleteContent publishes a content search. Results from a canceled
// search are still shown when the ticket is current.
func (s *Session) CompleteContent(t Ticket, results []search.SearchResult, err error) bool {
	if t.Mode != ModeContentSearch || !s.current(t) {
		return false
	}
	s.err = err
	if results != nil {
		s.matches.SetResults(results)
	}
	if s.resultMode() == ModeContentSearch {
		s.clampSelection()
	}
	return true
}

// PageLen is the number of rows on the visible page.
func (s *Session) PageLen() int {
	if s.resultMode() == ModeContentSearch {
		return len(s.matches.Items())
	}
	return len(s.files.Items())
}

// TotalItems and TotalPages describe the visible mode's full result set.
func (s *Session) TotalItems() int {
	if s.resultMode() == ModeContentSearch {
		return s.matches.TotalItems()
	}
	return s.files.TotalItems()
}

func (s *Session) TotalPages() int {
	if s.resultMode() == ModeContentSearch {
		return s.matches.TotalPages()
	}
	return s.files.TotalPages()
}

// SelectedFile returns the highlighted path in file-browser mode.
func (s *Session) SelectedFile() (string, bool) {
	items := s.files.Items()
	if s.resultMode() != ModeFileBrowser || s.selected >= len(items) {
		return "", false
	}
	return items[s.selected], true
}

// SelectedMatch returns the highlighted result in content mode.
func (s *Session) SelectedMatch() (search.SearchResult, bool) {
	items := s.matches.Items()
	if s.resultMode() != ModeContentSearch || s.selected >= len(items) {
		return search.SearchResult{}, false
	}
	return items[s.selected], true
}

type pageNav interface {
	Next()
	Prev()
	First()
	Last()
}

func (s *Session) pager() pageNav {
	if s.resultMode() == ModeContentSearch {
		return s.matches
	}
	return s.files
}

// NextPage, PrevPage, FirstPage and LastPage move the visible mode's pager
// and put the selection back at the top.
func (s *Session) NextPage() {
	s.pager().Next()
	s.resetCursor()
}

func (s *Session) PrevPage() {
	s.pager().Prev()
	s.resetCursor()
}

func (s *Session) FirstPage() {
	s.pager().First()
	s.resetCursor()
}

func (s *Session) LastPage() {
	s.pager().Last()
	s.resetCursor()
}

func (s *Session) resetCursor() {
	s.selected = 0
	s.scroll = 0
}

// SetViewHeight tells the session how many rows are visible so scrolling
// keeps the selection on screen.
func (s *Session) SetViewHeight(h int) {
	s.height = max(h, 1)
	s.follow()
}

// Move shifts the selection by delta rows, clamped to the page.
func (s *Session) Move(delta int) {
	s.selected += delta
	s.clampSelection()
}

// Home and End jump within the current page.
func (s *Session) Home() {
	s.selected = 0
	s.follow()
}

func (s *Session) End() {
	s.selected = max(s.PageLen()-1, 0)
	s.follow()
}

func (s *Session) clampSelection() {
	if n := s.PageLen(); s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
	s.follow()
}

func (s *Session) follow() {
	if s.selected < s.scroll {
		s.scroll = s.selected
	}
	if s.selected >= s.scroll+s.height {
		s.scroll = s.selected - s.height + 1
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
}

// Status renders the result summary line, e.g.
// "Files: 1-1000 of 4213 (Page 1/5)".
func (s *Session) Status() string {
	label := "Files"
	start, end := s.files.Bounds()
	total, page, pages := s.files.TotalItems(), s.files.Page(), s.files.TotalPages()
	if s.resultMode() == ModeContentSearch {
		label = "Matches"
		start, end = s.matches.Bounds()
		total, page, pages = s.matches.TotalItems(), s.matches.Page(), s.matches.TotalPages()
	}

	var out string
	if total == 0 {
		out = fmt.Sprintf("%s: 0 results", label)
	} else {
		out = fmt.Sprintf("%s: %d-%d of %d (Page %d/%d)", label, start+1, end, total, page+1, pages)
	}
	if s.Searching() {
		out += " [searching...]"
	}
	return out
}
