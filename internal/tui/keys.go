package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/glabrego/zhihu-cli/internal/controller"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Select   key.Binding
	Focus    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Toggle   key.Binding
	Refresh  key.Binding
	Cookie   key.Binding
	Open     key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Next:     key.NewBinding(key.WithKeys("n", "]"), key.WithHelp("n", "next page")),
		Prev:     key.NewBinding(key.WithKeys("p", "["), key.WithHelp("p", "prev page")),
		Toggle:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "rich/plain")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Cookie:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cookie")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy URL")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// apply enables only the bindings the controller currently allows.
func (k *keyMap) apply(nav controller.Navigation, hasTopics bool) {
	k.Select.SetEnabled(hasTopics)
	k.Next.SetEnabled(nav.Next)
	k.Prev.SetEnabled(nav.Prev)
	k.Toggle.SetEnabled(nav.ToggleMode)
	k.Refresh.SetEnabled(nav.Refresh)
	k.Open.SetEnabled(nav.OpenTopic)
	k.Copy.SetEnabled(nav.OpenTopic)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Next, k.Prev, k.Toggle, k.Refresh, k.Cookie, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Focus},
		{k.Select, k.Next, k.Prev, k.Refresh},
		{k.Toggle, k.Cookie, k.Open, k.Copy},
		{k.Help, k.Quit},
	}
}
