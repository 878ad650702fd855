package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ricochet/internal/core"
)

// GameKeyMap defines the key bindings for a running match.
type GameKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	TopLeft     key.Binding
	TopRight    key.Binding
	BottomLeft  key.Binding
	BottomRight key.Binding
	Remove      key.Binding
	Wall        key.Binding
	TimeStop    key.Binding
	Restart     key.Binding
	Help        key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TopLeft, k.Remove, k.Wall, k.TimeStop, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.TopLeft, k.TopRight, k.BottomLeft, k.BottomRight},
		{k.Remove, k.Wall, k.TimeStop},
		{k.Restart, k.Help, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "cursor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "cursor down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "cursor right"),
		),
		TopLeft: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1-4", "place ┘ └ ┐ ┌"),
		),
		TopRight: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "place └"),
		),
		BottomLeft: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "place ┐"),
		),
		BottomRight: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "place ┌"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "remove"),
		),
		Wall: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wall"),
		),
		TimeStop: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time-stop"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rematch"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Orientation returns the reflector orientation bound to msg, if any.
func (k GameKeyMap) Orientation(msg tea.KeyMsg) (core.Orientation, bool) {
	bindings := []struct {
		b key.Binding
		o core.Orientation
	}{
		{k.TopLeft, core.OrientTopLeft},
		{k.TopRight, core.OrientTopRight},
		{k.BottomLeft, core.OrientBottomLeft},
		{k.BottomRight, core.OrientBottomRight},
	}
	for _, e := range bindings {
		if key.Matches(msg, e.b) {
			return e.o, true
		}
	}
	return core.OrientNone, false
}

// Move returns the cursor step bound to msg, if any.
func (k GameKeyMap) Move(msg tea.KeyMsg) (dx, dy int, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return 0, -1, true
	case key.Matches(msg, k.Down):
		return 0, 1, true
	case key.Matches(msg, k.Left):
		return -1, 0, true
	case key.Matches(msg, k.Right):
		return 1, 0, true
	}
	return 0, 0, false
}

// MenuKeyMap defines the key bindings for list screens.
type MenuKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	History key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.History, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.History, k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		History: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "history"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
