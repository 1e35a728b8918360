package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const helpIntro = "Files: fuzzy-match paths while you type.\n" +
	"Content: press enter to grep every file for the query.\n" +
	"Results are paged; ] and [ move between pages."

func (h *Home) helpView() string {
	full := h.help.FullHelpView(h.keys.FullHelp())
	box := h.styles.HelpBox.Render(
		h.styles.Title.Render("fzgrep help") + "\n\n" +
			helpIntro + "\n\n" +
			full + "\n\n" +
			h.styles.Dim.Render("h, F1, esc or q to close"),
	)
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}
