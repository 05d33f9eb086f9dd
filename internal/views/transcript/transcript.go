// Package transcript provides the conversation overlay: the user and
// model turns of the active session rendered as markdown.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/sitais/devon/internal/client"
	"github.com/sitais/devon/internal/theme"
)

// Model holds the conversation subset of the session log.
type Model struct {
	turns []client.Event
}

func New() Model {
	return Model{}
}

// SetEvents replaces the transcript with the conversation subset of the
// given log (user requests and model responses, in order).
func (m *Model) SetEvents(events []client.Event) {
	m.turns = m.turns[:0]
	for _, ev := range events {
		switch ev.Kind {
		case client.KindUserRequest, client.KindModelResponse:
			m.turns = append(m.turns, ev)
		}
	}
}

// View renders the transcript as a bordered overlay panel.
func (m Model) View(width, height int) string {
	innerW := width - 6
	if innerW < 20 {
		innerW = 20
	}

	title := theme.StyleHeader.Render(" TRANSCRIPT ")
	help := theme.StyleDimmed.Render(fmt.Sprintf("esc:close  %d turns", len(m.turns)))

	body := theme.StyleDimmed.Render("Nothing said yet.")
	if len(m.turns) > 0 {
		body = m.renderMarkdown(innerW)
	}

	body = clampHeight(body, height-6)
	content := strings.Join([]string{title, "", body, "", help}, "\n")
	return theme.StylePanel.Width(innerW + 2).Render(content)
}

func (m Model) renderMarkdown(width int) string {
	var doc strings.Builder
	for _, turn := range m.turns {
		speaker := "Devon"
		if turn.Kind == client.KindUserRequest {
			speaker = "You"
		}
		fmt.Fprintf(&doc, "**%s**\n\n%s\n\n", speaker, turn.Content)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc.String()
	}
	out, err := r.Render(doc.String())
	if err != nil {
		// Fall back to the raw markdown rather than hiding the text.
		return doc.String()
	}
	return strings.TrimRight(out, "\n")
}

// clampHeight keeps the newest lines when the panel is too short.
func clampHeight(s string, max int) string {
	if max < 3 {
		max = 3
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[len(lines)-max:], "\n")
}
