package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	PrevTab key.Binding
	NextTab key.Binding
	Enter   key.Binding

	// Filters and search
	Search         key.Binding
	GlobalSearch   key.Binding
	FilterDownload key.Binding
	FilterUnread   key.Binding
	ClearFilters   key.Binding

	// Selection and batch actions
	ToggleSelect key.Binding
	Move         key.Binding
	Delete       key.Binding
	EditCover    key.Binding

	// Layout
	SwapDisplay  key.Binding
	Rotate       key.Binding
	MoreColumns  key.Binding
	FewerColumns key.Binding

	// Misc
	Categories key.Binding
	Help       key.Binding
	Escape     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[", "prev category"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]", "next category"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		GlobalSearch: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "global search"),
		),
		FilterDownload: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "downloaded only"),
		),
		FilterUnread: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unread only"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "clear filters"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "select"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to categories"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D", "delete"),
			key.WithHelp("D", "delete selected"),
		),
		EditCover: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "change cover"),
		),
		SwapDisplay: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "grid/list"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "rotate"),
		),
		MoreColumns: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more columns"),
		),
		FewerColumns: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer columns"),
		),
		Categories: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "edit categories"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
