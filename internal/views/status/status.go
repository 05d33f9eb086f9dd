// Package status renders the bottom status bar, including the spring
// driven sync pulse that flashes on every successful poll.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/sitais/devon/internal/theme"
)

const (
	pulseWidth = 8
	// PulseFPS is the frame rate the pulse animation ticks at while it
	// is settling.
	PulseFPS = 30
)

// Model holds status bar state.
type Model struct {
	Width    int
	BaseURL  string
	Session  string
	LastSync time.Time

	spring   harmonica.Spring
	pulse    float64
	velocity float64
}

func New(baseURL string) Model {
	return Model{
		BaseURL: baseURL,
		spring:  harmonica.NewSpring(harmonica.FPS(PulseFPS), 5.0, 0.3),
	}
}

// Kick lights the sync pulse; the spring then settles it back down
// between polls.
func (m *Model) Kick() {
	m.pulse = 1.0
	m.LastSync = time.Now()
}

// Tick advances the pulse animation one frame.
func (m *Model) Tick() {
	m.pulse, m.velocity = m.spring.Update(m.pulse, m.velocity, 0)
}

// Settled reports whether the pulse has died down enough to stop
// ticking frames.
func (m *Model) Settled() bool {
	return m.pulse < 0.01 && m.velocity > -0.05 && m.velocity < 0.05
}

// View renders the bar across the full width.
func (m Model) View() string {
	left := theme.StyleDimmed.Render(m.BaseURL)

	sessionLabel := "detached"
	if m.Session != "" {
		sessionLabel = m.Session
	}
	mid := lipgloss.NewStyle().Foreground(theme.ColorBright).Render(sessionLabel)

	sync := theme.StyleDimmed.Render("never synced")
	if !m.LastSync.IsZero() {
		sync = theme.StyleDimmed.Render(fmt.Sprintf("synced %s ago", time.Since(m.LastSync).Round(time.Second)))
	}

	bar := left + "  " + mid + "  " + sync + "  " + m.renderPulse()
	return lipgloss.NewStyle().Width(m.Width).MaxWidth(m.Width).Render(bar)
}

func (m Model) renderPulse() string {
	// The spring is underdamped and overshoots past its resting point
	// in both directions while settling.
	lit := int(m.pulse*pulseWidth + 0.5)
	if lit < 0 {
		lit = 0
	}
	if lit > pulseWidth {
		lit = pulseWidth
	}
	filled := lipgloss.NewStyle().Foreground(theme.ColorCommand).Render(strings.Repeat("▰", lit))
	empty := lipgloss.NewStyle().Foreground(theme.ColorSyncIdle).Render(strings.Repeat("▱", pulseWidth-lit))
	return filled + empty
}
