// Package sessions renders the session picker column.
package sessions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sitais/devon/internal/client"
	"github.com/sitais/devon/internal/theme"
)

// Model holds the session list and cursor.
type Model struct {
	Sessions []client.Session
	Cursor   int
	Active   string // ID of the attached session, "" or "New" when none
}

func New() Model {
	return Model{Active: client.NewSessionID}
}

// SetSessions replaces the list, keeping the cursor on the same session
// when it still exists.
func (m *Model) SetSessions(list []client.Session) {
	var keep string
	if m.Cursor >= 0 && m.Cursor < len(m.Sessions) {
		keep = m.Sessions[m.Cursor].ID
	}
	m.Sessions = list
	m.Cursor = 0
	for i, s := range list {
		if s.ID == keep {
			m.Cursor = i
			break
		}
	}
}

func (m *Model) MoveUp() {
	if m.Cursor > 0 {
		m.Cursor--
	}
}

func (m *Model) MoveDown() {
	if m.Cursor < len(m.Sessions)-1 {
		m.Cursor++
	}
}

// Selected returns the session under the cursor.
func (m *Model) Selected() (client.Session, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Sessions) {
		return client.Session{}, false
	}
	return m.Sessions[m.Cursor], true
}

// View renders the picker at the given width and height.
func (m Model) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render(" SESSIONS ") + "\n")

	if len(m.Sessions) == 0 {
		b.WriteString(theme.StyleDimmed.Render("none yet"))
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}

	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	for i, s := range m.Sessions {
		if i >= rows {
			b.WriteString(theme.StyleDimmed.Render(fmt.Sprintf("… %d more", len(m.Sessions)-rows)))
			break
		}
		b.WriteString(m.renderRow(i, s, width) + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderRow(i int, s client.Session, width int) string {
	marker := "  "
	if s.ID == m.Active {
		marker = "● "
	}
	dot := lipgloss.NewStyle().Foreground(theme.StatusColor(s.Status)).Render("•")
	label := fmt.Sprintf("%s%s %s (%d)", marker, dot, s.Name, s.EventCount)
	// MaxWidth truncates on display cells, keeping runes and escape
	// sequences intact at narrow widths.
	label = lipgloss.NewStyle().MaxWidth(width).Render(label)
	if i == m.Cursor {
		return theme.StyleSelected.Render(label)
	}
	return label
}
