// Package theme provides the Lip Gloss palette and reusable styles for
// the Devon TUI. It is a leaf package with no internal imports to avoid
// import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Session status colors.
var (
	ColorRunning = lipgloss.Color("#16a34a")
	ColorStopped = lipgloss.Color("#6b7280")
	ColorLost    = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder   = lipgloss.Color("#4b5563")
	ColorDimmed   = lipgloss.Color("#6b7280")
	ColorBright   = lipgloss.Color("#f9fafb")
	ColorAccent   = lipgloss.Color("#a855f7")
	ColorCommand  = lipgloss.Color("#22c55e")
	ColorWarning  = lipgloss.Color("#d97706")
	ColorSyncIdle = lipgloss.Color("#374151")
)

// Shared styles.
var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright).
			Background(ColorAccent).
			Padding(0, 1)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright).
			Background(lipgloss.Color("#1f2937"))

	StylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// StatusColor maps a session status string to its color.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "running":
		return ColorRunning
	case "lost":
		return ColorLost
	default:
		return ColorStopped
	}
}
