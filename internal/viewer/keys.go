package viewer

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Window      key.Binding
	Temperature key.Binding
	Humidity    key.Binding
	AirQuality  key.Binding
	Overlay     key.Binding
	Prev        key.Binding
	Next        key.Binding
	First       key.Binding
	Last        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	CoarseLeft  key.Binding
	CoarseRight key.Binding
	Commit      key.Binding
	Reload      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Window, k.Overlay, k.Prev, k.Next, k.Up, k.Left, k.Commit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Window, k.Temperature, k.Humidity, k.AirQuality, k.Overlay},
		{k.Prev, k.Next, k.First, k.Last},
		{k.Up, k.Down, k.Left, k.Right, k.CoarseLeft, k.CoarseRight},
		{k.Commit, k.Reload},
	}
}

var keys = keyMap{
	Window: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "window"),
	),
	Temperature: key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "temp"),
	),
	Humidity: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "humidity"),
	),
	AirQuality: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "air"),
	),
	Overlay: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "ranges"),
	),
	Prev: key.NewBinding(
		key.WithKeys(","),
		key.WithHelp(",", "earlier"),
	),
	Next: key.NewBinding(
		key.WithKeys("."),
		key.WithHelp(".", "later"),
	),
	First: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "live"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev handle"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next handle"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "drag down"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "drag up"),
	),
	CoarseLeft: key.NewBinding(
		key.WithKeys("shift+left"),
		key.WithHelp("shift+←", "drag x10"),
	),
	CoarseRight: key.NewBinding(
		key.WithKeys("shift+right"),
		key.WithHelp("shift+→", "drag up x10"),
	),
	Commit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
}

// Keys returns the screen's key bindings for the help footer.
func Keys() help.KeyMap {
	return keys
}
