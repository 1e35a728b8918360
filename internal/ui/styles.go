package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the active color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type palette struct {
	Surface, Border, Text, TextDim lipgloss.Color
	Accent, Cyan, Green, Yellow    lipgloss.Color
	Red                            lipgloss.Color
}

// Tokyo Night and its light variant.
var (
	darkPalette = palette{
		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),
		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#787fa0"),
		Accent:  lipgloss.Color("#7aa2f7"),
		Cyan:    lipgloss.Color("#7dcfff"),
		Green:   lipgloss.Color("#9ece6a"),
		Yellow:  lipgloss.Color("#e0af68"),
		Red:     lipgloss.Color("#f7768e"),
	}
	lightPalette = palette{
		Surface: lipgloss.Color("#e9e9ec"),
		Border:  lipgloss.Color("#9699a3"),
		Text:    lipgloss.Color("#343b58"),
		TextDim: lipgloss.Color("#6a6d7c"),
		Accent:  lipgloss.Color("#34548a"),
		Cyan:    lipgloss.Color("#166775"),
		Green:   lipgloss.Color("#485e30"),
		Yellow:  lipgloss.Color("#8f5e15"),
		Red:     lipgloss.Color("#8c4351"),
	}
)

// styles is the full set used by the views, built from one palette.
type styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Prompt    lipgloss.Style
	Query     lipgloss.Style
	Cursor    lipgloss.Style
	Row       lipgloss.Style
	RowActive lipgloss.Style
	Match     lipgloss.Style
	Path      lipgloss.Style
	LineNo    lipgloss.Style
	Status    lipgloss.Style
	Spinner   lipgloss.Style
	Error     lipgloss.Style
	Dim       lipgloss.Style
	HelpBox   lipgloss.Style
}

func newStyles(theme Theme) styles {
	p := darkPalette
	if theme == ThemeLight {
		p = lightPalette
	}
	return styles{
		Title:     lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Tab:       lipgloss.NewStyle().Foreground(p.TextDim).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Foreground(p.Surface).Background(p.Accent).Bold(true).Padding(0, 1),
		Prompt:    lipgloss.NewStyle().Foreground(p.Cyan).Bold(true),
		Query:     lipgloss.NewStyle().Foreground(p.Text),
		Cursor:    lipgloss.NewStyle().Foreground(p.Surface).Background(p.Text),
		Row:       lipgloss.NewStyle().Foreground(p.Text),
		RowActive: lipgloss.NewStyle().Foreground(p.Text).Background(p.Surface).Bold(true),
		Match:     lipgloss.NewStyle().Foreground(p.Yellow).Bold(true),
		Path:      lipgloss.NewStyle().Foreground(p.Accent),
		LineNo:    lipgloss.NewStyle().Foreground(p.Green),
		Status:    lipgloss.NewStyle().Foreground(p.TextDim),
		Spinner:   lipgloss.NewStyle().Foreground(p.Cyan),
		Error:     lipgloss.NewStyle().Foreground(p.Red).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(p.TextDim),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
	}
}
