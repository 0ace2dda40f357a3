package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pacsnake/internal/core"
)

// KeyMap defines the client's key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Join   key.Binding
	Create key.Binding
	Close  key.Binding
	Ready  key.Binding
	Speed  key.Binding
	Rename key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Join: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "join"),
		),
		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new lobby"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close lobby"),
		),
		Ready: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "ready"),
		),
		Speed: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "speed"),
		),
		Rename: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "change name"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "leave"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// listKeys is the help shown on the lobby list.
type listKeys struct{ KeyMap }

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Join, k.Create, k.Close, k.Rename, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Join},
		{k.Create, k.Close, k.Rename, k.Quit},
	}
}

// lobbyKeys is the help shown inside a lobby.
type lobbyKeys struct{ KeyMap }

func (k lobbyKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Ready, k.Speed, k.Back, k.Quit}
}

func (k lobbyKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Ready, k.Speed}, {k.Back, k.Quit}}
}

// gameKeys is the help shown while playing.
type gameKeys struct{ KeyMap }

func (k gameKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Back, k.Quit}
}

func (k gameKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Left, k.Right}, {k.Back, k.Quit}}
}

// Action translates a key press to a client action.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Join):
		return core.ActionJoin
	case key.Matches(msg, k.Create):
		return core.ActionCreate
	case key.Matches(msg, k.Close):
		return core.ActionClose
	case key.Matches(msg, k.Ready):
		return core.ActionReady
	case key.Matches(msg, k.Speed):
		return core.ActionSpeed
	case key.Matches(msg, k.Rename):
		return core.ActionRename
	case key.Matches(msg, k.Back):
		return core.ActionBack
	}
	return core.ActionNone
}
