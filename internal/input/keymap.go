// Package input resolves key events to navigator commands.
package input

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// Command is a resolved key action.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPaneLeft
	CmdPaneRight
	CmdUp
	CmdDown
	CmdPageUp
	CmdPageDown
	CmdTop
	CmdBottom
	CmdConfirm
	CmdFind
	CmdYank
	CmdHelp
)

var commandNames = map[Command]string{
	CmdNone:      "none",
	CmdQuit:      "quit",
	CmdPaneLeft:  "pane-left",
	CmdPaneRight: "pane-right",
	CmdUp:        "up",
	CmdDown:      "down",
	CmdPageUp:    "page-up",
	CmdPageDown:  "page-down",
	CmdTop:       "top",
	CmdBottom:    "bottom",
	CmdConfirm:   "confirm",
	CmdFind:      "find",
	CmdYank:      "yank",
	CmdHelp:      "help",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// KeyMap binds keys to commands.
type KeyMap struct {
	Quit     key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Confirm  key.Binding
	Find     key.Binding
	Yank     key.Binding
	Help     key.Binding
}

// DefaultKeyMap returns vi-style bindings alongside the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "parent pane"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "child pane"),
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
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// Resolve maps a key to its command. Unbound keys resolve to CmdNone.
func (k KeyMap) Resolve(msg fmt.Stringer) Command {
	switch {
	case key.Matches(msg, k.Quit):
		return CmdQuit
	case key.Matches(msg, k.Left):
		return CmdPaneLeft
	case key.Matches(msg, k.Right):
		return CmdPaneRight
	case key.Matches(msg, k.Up):
		return CmdUp
	case key.Matches(msg, k.Down):
		return CmdDown
	case key.Matches(msg, k.PageUp):
		return CmdPageUp
	case key.Matches(msg, k.PageDown):
		return CmdPageDown
	case key.Matches(msg, k.Top):
		return CmdTop
	case key.Matches(msg, k.Bottom):
		return CmdBottom
	case key.Matches(msg, k.Confirm):
		return CmdConfirm
	case key.Matches(msg, k.Find):
		return CmdFind
	case key.Matches(msg, k.Yank):
		return CmdYank
	case key.Matches(msg, k.Help):
		return CmdHelp
	}
	return CmdNone
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Confirm, k.Find, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Left, k.Right, k.Top, k.Bottom},
		{k.Confirm, k.Find, k.Yank},
		{k.Help, k.Quit},
	}
}

var _ help.KeyMap = KeyMap{}
