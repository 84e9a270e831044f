package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the browser.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	reload key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.reload, k.quit},
	}
}
