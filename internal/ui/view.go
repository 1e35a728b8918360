package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fzgrep/fzgrep/internal/search"
	"github.com/fzgrep/fzgrep/internal/session"
)

func (h *Home) View() string {
	if h.width == 0 {
		return "Loading..."
	}
	if h.sess.Mode() == session.ModeHelp {
		return h.helpView()
	}

	var b strings.Builder
	b.WriteString(h.titleLine())
	b.WriteByte('\n')
	b.WriteString(h.queryLine())
	b.WriteByte('\n')
	b.WriteString(h.listView())
	b.WriteString(h.statusLine())
	b.WriteByte('\n')
	b.WriteString(h.help.ShortHelpView(h.keys.ShortHelp()))
	return b.String()
}

func (h *Home) titleLine() string {
	tabs := []struct {
		label string
		mode  session.Mode
	}{
		{"Files", session.ModeFileBrowser},
		{"Content", session.ModeContentSearch},
	}
	parts := []string{h.styles.Title.Render("fzgrep")}
	for _, tab := range tabs {
		st := h.styles.Tab
		if h.sess.Mode() == tab.mode {
			st = h.styles.TabActive
		}
		parts = append(parts, st.Render(tab.label))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	room := h.width - lipgloss.Width(line) - 1
	if room > 3 {
		line += " " + h.styles.Dim.Render(runewidth.Truncate(h.engine.Root(), room, "…"))
	}
	return line
}

func (h *Home) queryLine() string {
	prompt := h.styles.Prompt.Render("> ")
	q := []rune(h.sess.Query())
	if h.sess.InputMode() != session.InputEditing {
		if len(q) == 0 {
			return prompt + h.styles.Dim.Render("press / to search")
		}
		return prompt + h.styles.Query.Render(string(q))
	}

	c := h.sess.Cursor()
	under, rest := " ", ""
	if c < len(q) {
		under, rest = string(q[c]), string(q[c+1:])
	}
	return prompt +
		h.styles.Query.Render(string(q[:c])) +
		h.styles.Cursor.Render(under) +
		h.styles.Query.Render(rest)
}

func (h *Home) listView() string {
	rows := h.listHeight()
	start := h.sess.Scroll()

	var lines []string
	if h.sess.Mode() == session.ModeContentSearch {
		items := h.sess.Matches().Items()
		for i := start; i < len(items) && i < start+rows; i++ {
			lines = append(lines, h.matchRow(items[i], i == h.sess.Selected()))
		}
	} else {
		items := h.sess.Files().Items()
		for i := start; i < len(items) && i < start+rows; i++ {
			lines = append(lines, h.fileRow(items[i], i == h.sess.Selected()))
		}
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

func (h *Home) rowStyle(selected bool) lipgloss.Style {
	if selected {
		return h.styles.RowActive
	}
	return h.styles.Row
}

func (h *Home) fileRow(path string, selected bool) string {
	base := h.rowStyle(selected)
	marks := map[int]bool{}
	for _, i := range search.MatchedIndexes(h.sess.Query(), path) {
		marks[i] = true
	}
	return "  " + highlight(path, h.width-2, marks, base, h.styles.Match.Inherit(base))
}

func (h *Home) matchRow(r search.SearchResult, selected bool) string {
	base := h.rowStyle(selected)
	prefix := h.styles.Path.Render(r.FilePath) + h.styles.Dim.Render(":") +
		h.styles.LineNo.Render(fmt.Sprint(r.LineNumber)) + h.styles.Dim.Render(": ")
	room := h.width - 2 - lipgloss.Width(prefix)

	marks := make(map[int]bool, r.MatchEnd-r.MatchStart)
	for i := r.MatchStart; i < r.MatchEnd; i++ {
		marks[i] = true
	}
	content := strings.ReplaceAll(r.LineContent, "\t", "    ")
	if content != r.LineContent {
		// Offsets no longer line up after tab expansion; show the match
		// unhighlighted rather than mis-highlighted.
		marks = nil
	}
	return "  " + prefix + highlight(content, room, marks, base, h.styles.Match.Inherit(base))
}

// highlight renders s within width cells, styling runes whose byte offset is
// in marks with hi and everything else with base.
func highlight(s string, width int, marks map[int]bool, base, hi lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	var run strings.Builder
	runHi := false
	used := 0
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runHi {
			b.WriteString(hi.Render(run.String()))
		} else {
			b.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}

	for off, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			flush()
			b.WriteString(base.Render("…"))
			return b.String()
		}
		if marks[off] != runHi {
			flush()
			runHi = marks[off]
		}
		run.WriteRune(r)
		used += w
	}
	flush()
	return b.String()
}

func (h *Home) statusLine() string {
	parts := []string{h.styles.Status.Render(h.sess.Status())}
	if h.sess.Searching() {
		parts = append(parts, h.spinner.View())
	}
	if err := h.sess.Err(); err != nil {
		parts = append(parts, h.styles.Error.Render(err.Error()))
	}
	if h.notice != "" {
		parts = append(parts, h.styles.Prompt.Render(h.notice))
	}
	stats := h.engine.Stats()
	parts = append(parts, h.styles.Dim.Render(fmt.Sprintf("walks:%d cached:%d", stats.Walks, stats.CachedQueries)))
	return strings.Join(parts, "  ")
}
