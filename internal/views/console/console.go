// Package console owns the terminal pane: a persistent viewport whose
// content always equals the render of the latest filtered event fetch.
package console

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sitais/devon/internal/client"
	"github.com/sitais/devon/internal/terminal"
	"github.com/sitais/devon/internal/theme"
)

// Model wraps the viewport surface. The surface is created once, on the
// first window size message; until then events are buffered and drawn
// as soon as the surface has dimensions.
type Model struct {
	vp     viewport.Model
	events []client.Event
	ready  bool
}

func New() Model {
	return Model{}
}

// SetSize fits the surface to its container. The first call creates the
// viewport; later calls resize it and redraw the current content.
func (m *Model) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if !m.ready {
		m.vp = viewport.New(width, height)
		m.ready = true
	} else {
		m.vp.Width = width
		m.vp.Height = height
	}
	m.redraw()
}

// SetEvents replaces the displayed event sequence wholesale. The
// surface is cleared and redrawn; no incremental patching happens, so
// applying the same sequence twice renders identically.
func (m *Model) SetEvents(events []client.Event) {
	m.events = events
	m.redraw()
}

// Clear empties the surface. Used when the selected session goes away.
func (m *Model) Clear() {
	m.SetEvents(nil)
}

func (m *Model) redraw() {
	if !m.ready {
		return
	}
	follow := m.vp.AtBottom()
	m.vp.SetContent(terminal.Render(m.events))
	if follow {
		m.vp.GotoBottom()
	}
}

// Update forwards scroll keys and mouse wheel to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return m.vp.View()
}

// Placeholder is shown instead of the pane when no session is attached.
func Placeholder(width int) string {
	return theme.StyleDimmed.Width(width).Render("No session attached. Pick one and press enter.")
}
