package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every binding. Normal-mode bindings are matched only when
// the query is not being edited.
type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Toggle    key.Binding
	Edit      key.Binding
	Submit    key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	LastPage  key.Binding
	FirstPage key.Binding
	Refresh   key.Binding
	Copy      key.Binding

	// editing
	Cancel    key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "f1"),
			key.WithHelp("h/F1", "help"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "files/content"),
		),
		Edit: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "edit query"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "up 10"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "down 10"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "top of page"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "bottom of page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "last page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "first page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "stop editing"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "cursor right"),
		),
	}
}

// ShortHelp feeds the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Submit, k.Toggle, k.NextPage, k.Refresh, k.Help, k.Quit}
}

// FullHelp feeds the help screen, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Edit, k.Submit, k.Toggle, k.Refresh, k.Copy, k.Help, k.Quit},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.NextPage, k.PrevPage, k.LastPage, k.FirstPage},
		{k.Cancel, k.Backspace, k.Left, k.Right},
	}
}
