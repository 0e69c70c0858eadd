package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MichelW6667/lrcget/internal/downloader"
)

var (
	_ tea.Msg = eventMsg{}
	_ tea.Msg = startedMsg{}
	_ tea.Msg = eventsClosedMsg{}
)

// eventMsg carries one [downloader.Event] from the subscription into Update.
type eventMsg downloader.Event

// startedMsg reports whether a start, retry, or restart call was accepted.
type startedMsg struct {
	err error
}

// eventsClosedMsg signals that the event subscription closed.
type eventsClosedMsg struct{}
