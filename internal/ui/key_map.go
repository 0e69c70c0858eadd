package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	stop      key.Binding
	retry     key.Binding
	startOver key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry failed")),
		startOver: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "start over")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.stop, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.stop, k.retry},
		{k.startOver, k.quit},
	}
}
