package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MichelW6667/lrcget/internal/downloader"
	"github.com/MichelW6667/lrcget/internal/match"
	"github.com/MichelW6667/lrcget/internal/models"
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	d        *downloader.Downloader
	tracks   []models.Track
	policy   match.Policy
	events   <-chan downloader.Event
	cancel   func()
	snap     downloader.Event
	entries  []downloader.LogEntry
	bar      progress.Model
	spin     spinner.Model
	help     help.Model
	keys     keyMap
	width    int
	err      error
	quitting bool
}

// NewModel creates a TUI model over a downloader and the tracks to process.
// The event subscription opens here, before Init starts the run, so the
// initial running event is never missed.
func NewModel(ctx context.Context, d *downloader.Downloader, tracks []models.Track, policy match.Policy) *Model {
	events, cancel := d.Subscribe()

	bar := progress.New(progress.WithDefaultGradient())
	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(NewStyle("#7D56F4")))

	return &Model{
		ctx:    ctx,
		d:      d,
		tracks: tracks,
		policy: policy,
		events: events,
		cancel: cancel,
		bar:    bar,
		spin:   spin,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init starts the download and begins pumping progress events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.start(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 6
		if w > 60 {
			w = 60
		}
		if w > 0 {
			m.bar.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		m.snap = downloader.Event(msg)
		if msg.Entry != nil {
			m.entries = appendEntry(m.entries, *msg.Entry)
		}
		if m.quitting && m.snap.State != downloader.Running {
			m.cancel()
			return m, tea.Quit
		}
		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

// View renders the UI for the downloader's current state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.snap.State {
	case downloader.Running:
		return m.renderRunning()
	case downloader.Finished, downloader.Stopped:
		return m.renderSummary()
	default:
		return fmt.Sprintf("%s starting download...\n", m.spin.View())
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		// an active run halts first; the terminal event completes the quit
		if m.snap.State == downloader.Running {
			m.quitting = true
			m.d.Stop()
			return m, nil
		}
		m.cancel()
		return m, tea.Quit

	case "s":
		if m.snap.State == downloader.Running {
			m.d.Stop()
		}
		return m, nil

	case "r":
		if m.snap.State == downloader.Finished && m.snap.Counters.Failed > 0 {
			return m, m.retryFailed()
		}
		return m, nil

	case "o":
		if m.snap.State == downloader.Finished || m.snap.State == downloader.Stopped {
			if err := m.d.StartOver(); err != nil {
				m.err = err
				m.cancel()
				return m, tea.Quit
			}
			m.entries = nil
			return m, m.start()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.d.Start(m.ctx, m.tracks, m.policy)}
	}
}

func (m *Model) retryFailed() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.d.RetryFailed(m.ctx)}
	}
}

// waitForEvent blocks on the subscription and hands the next event to Update.
// Each delivered event re-arms the wait, mirroring the Elm message loop.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

func (m *Model) renderRunning() string {
	title := styles.title.Render("Downloading Lyrics")
	counter := fmt.Sprintf("%s Processing %d/%d tracks", m.spin.View(), m.snap.Processed, m.snap.Total)
	bar := m.bar.ViewAs(m.ratio())

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n\n%s%s", title, counter, bar, m.countersLine(), m.renderLog(), m.helpLine())
}

func (m *Model) renderSummary() string {
	var title string
	if m.snap.State == downloader.Finished {
		title = styles.ok.Render("✓ Download Complete")
	} else {
		title = styles.warn.Render("Download Stopped")
	}

	info := fmt.Sprintf("Processed %d of %d tracks\n%s", m.snap.Processed, m.snap.Total, m.countersLine())

	var hint string
	if m.snap.State == downloader.Finished && m.snap.Counters.Failed > 0 {
		hint = "\n" + styles.warn.Render(fmt.Sprintf("%d tracks failed, press r to retry them", m.snap.Counters.Failed))
	}

	return fmt.Sprintf("%s\n\n%s%s\n\n%s%s", title, info, hint, m.renderLog(), m.helpLine())
}

func (m *Model) renderLog() string {
	if len(m.entries) == 0 {
		return ""
	}
	var lines string
	for _, entry := range m.entries {
		lines += entryLine(entry) + "\n"
	}
	return lines + "\n"
}

func (m *Model) countersLine() string {
	c := m.snap.Counters
	return fmt.Sprintf("%s downloaded  %s skipped  %s not found  %s failed",
		styles.ok.Render(fmt.Sprintf("%d", c.Success)),
		styles.help.Render(fmt.Sprintf("%d", c.Skipped)),
		styles.warn.Render(fmt.Sprintf("%d", c.NotFound)),
		styles.err.Render(fmt.Sprintf("%d", c.Failed)))
}

// helpLine shows the bindings that apply to the current state.
func (m *Model) helpLine() string {
	switch m.snap.State {
	case downloader.Running:
		return m.help.ShortHelpView([]key.Binding{m.keys.stop, m.keys.quit})
	case downloader.Finished:
		keys := []key.Binding{m.keys.startOver, m.keys.quit}
		if m.snap.Counters.Failed > 0 {
			keys = append([]key.Binding{m.keys.retry}, keys...)
		}
		return m.help.ShortHelpView(keys)
	case downloader.Stopped:
		return m.help.ShortHelpView([]key.Binding{m.keys.startOver, m.keys.quit})
	default:
		return m.help.ShortHelpView([]key.Binding{m.keys.quit})
	}
}

func (m *Model) ratio() float64 {
	if m.snap.Total == 0 {
		if m.snap.State == downloader.Finished {
			return 1
		}
		return 0
	}
	return float64(m.snap.Processed) / float64(m.snap.Total)
}
