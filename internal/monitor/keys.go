package monitor

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Overview key.Binding
	Room1    key.Binding
	Room2    key.Binding
	Room3    key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Overview, k.Room1, k.Settings, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Overview, k.Room1, k.Room2, k.Room3, k.Settings},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Overview: key.NewBinding(
		key.WithKeys("0", "esc"),
		key.WithHelp("0/esc", "overview"),
	),
	Room1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1-3", "room"),
	),
	Room2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "room 2"),
	),
	Room3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "room 3"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type overviewKeyMap struct {
	Metric key.Binding
	Window key.Binding
}

func (k overviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Metric, k.Window}
}

func (k overviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Metric, k.Window}}
}

var overviewKeys = overviewKeyMap{
	Metric: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "metric"),
	),
	Window: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "window"),
	),
}

// screenKeys joins the global bindings with those of the active screen.
type screenKeys struct {
	screen help.KeyMap
}

func (k screenKeys) ShortHelp() []key.Binding {
	b := keys.ShortHelp()
	if k.screen != nil {
		b = append(b, k.screen.ShortHelp()...)
	}
	return b
}

func (k screenKeys) FullHelp() [][]key.Binding {
	groups := keys.FullHelp()
	if k.screen != nil {
		groups = append(groups, k.screen.FullHelp()...)
	}
	return groups
}
