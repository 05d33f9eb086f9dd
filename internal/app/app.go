// Package app is the root Bubble Tea model wiring the poller, the
// session picker and the terminal pane together.
package app

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sitais/devon/internal/client"
	"github.com/sitais/devon/internal/terminal"
	"github.com/sitais/devon/internal/theme"
	"github.com/sitais/devon/internal/views/console"
	"github.com/sitais/devon/internal/views/sessions"
	"github.com/sitais/devon/internal/views/status"
	"github.com/sitais/devon/internal/views/transcript"
)

const (
	sidebarWidth           = 28
	sessionRefreshInterval = 5 * time.Second
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayTranscript
)

// --- messages ---

type sessionsMsg struct {
	sessions []client.Session
	err      error
}

type eventsMsg terminal.Update

type transcriptMsg struct {
	sessionID string
	events    []client.Event
	err       error
}

type refreshTickMsg struct{}

type pulseTickMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	api    *client.HTTPClient
	poller *terminal.Poller

	keys   KeyMap
	width  int
	height int

	attached string // active session ID; "New" means detached
	overlay  Overlay
	pulsing  bool

	picker     sessions.Model
	console    console.Model
	statusBar  status.Model
	transcript transcript.Model
}

// New creates the root model.
func New(api *client.HTTPClient, poller *terminal.Poller, baseURL string) Model {
	return Model{
		api:        api,
		poller:     poller,
		keys:       DefaultKeyMap(),
		attached:   client.NewSessionID,
		picker:     sessions.New(),
		console:    console.New(),
		statusBar:  status.New(baseURL),
		transcript: transcript.New(),
	}
}

// Init fetches the session list and starts draining poller updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchSessions(),
		waitForUpdate(m.poller.Updates()),
		refreshTick(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.console.SetSize(m.consoleWidth(), m.contentHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionsMsg:
		if msg.err != nil {
			log.Printf("fetch sessions: %v", msg.err)
			return m, nil
		}
		m.picker.SetSessions(msg.sessions)
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.fetchSessions(), refreshTick())

	case eventsMsg:
		cmd := waitForUpdate(m.poller.Updates())
		// Guard against a publish racing an attach/detach: only the
		// active session may touch the display.
		if msg.SessionID != m.attached {
			return m, cmd
		}
		m.console.SetEvents(msg.Events)
		m.statusBar.Kick()
		if !m.pulsing {
			m.pulsing = true
			return m, tea.Batch(cmd, pulseTick())
		}
		return m, cmd

	case transcriptMsg:
		if msg.err != nil {
			log.Printf("fetch transcript: %v", msg.err)
			return m, nil
		}
		if msg.sessionID == m.attached {
			m.transcript.SetEvents(msg.events)
		}
		return m, nil

	case pulseTickMsg:
		m.statusBar.Tick()
		if m.statusBar.Settled() {
			m.pulsing = false
			return m, nil
		}
		return m, pulseTick()
	}

	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay != OverlayNone {
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.overlay = OverlayNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.poller.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.picker.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.picker.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Attach):
		selected, ok := m.picker.Selected()
		if !ok || selected.ID == m.attached {
			return m, nil
		}
		m.attach(selected.ID)
		return m, nil

	case key.Matches(msg, m.keys.Detach):
		m.attach(client.NewSessionID)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchSessions()

	case key.Matches(msg, m.keys.Transcript):
		if m.attached == client.NewSessionID {
			return m, nil
		}
		m.overlay = OverlayTranscript
		return m, m.fetchTranscript(m.attached)
	}

	var cmd tea.Cmd
	m.console, cmd = m.console.Update(msg)
	return m, cmd
}

// attach repoints the poller at id. Starting with the "New" sentinel
// leaves the poller idle, which is exactly the detached state.
func (m *Model) attach(id string) {
	m.attached = id
	m.picker.Active = id
	m.console.Clear()
	m.poller.Start(id)
	if id == client.NewSessionID {
		m.statusBar.Session = ""
	} else {
		m.statusBar.Session = id
	}
}

// View renders the full screen.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	left := m.picker.View(sidebarWidth, m.contentHeight())
	var right string
	if m.attached == client.NewSessionID {
		right = console.Placeholder(m.consoleWidth())
	} else {
		right = m.console.View()
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sidebarWidth).Height(m.contentHeight()).Render(left),
		lipgloss.NewStyle().Width(m.consoleWidth()).Height(m.contentHeight()).Render(right),
	)

	if m.overlay == OverlayTranscript {
		panel := m.transcript.View(m.width, m.contentHeight())
		content = lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, panel)
	}

	help := theme.StyleDimmed.Render("j/k:select  enter:attach  n:detach  t:transcript  r:refresh  q:quit")
	return lipgloss.JoinVertical(lipgloss.Left, content, help, m.statusBar.View())
}

func (m Model) consoleWidth() int {
	w := m.width - sidebarWidth - 1
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) contentHeight() int {
	h := m.height - 2 // help line + status bar
	if h < 3 {
		h = 3
	}
	return h
}

// --- commands ---

func (m Model) fetchSessions() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		list, err := api.FetchSessions(ctx)
		return sessionsMsg{sessions: list, err: err}
	}
}

func (m Model) fetchTranscript(sessionID string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		events, err := api.FetchEvents(ctx, sessionID)
		return transcriptMsg{sessionID: sessionID, events: events, err: err}
	}
}

func waitForUpdate(ch <-chan terminal.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return eventsMsg(u)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(sessionRefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func pulseTick() tea.Cmd {
	return tea.Tick(time.Second/status.PulseFPS, func(time.Time) tea.Msg {
		return pulseTickMsg{}
	})
}
