package terminal

import (
	"strings"

	"github.com/sitais/devon/internal/client"
)

// Render builds the complete surface content for a filtered event
// sequence. The display is always replaced wholesale with this result,
// never patched, so rendering the same sequence twice is identical to
// rendering it once.
//
// A command is prefixed with "> "; every command after the first gets a
// blank line above it to separate it from the previous output. Output
// events are written verbatim.
func Render(events []client.Event) string {
	var b strings.Builder
	for i, ev := range events {
		if i > 0 {
			b.WriteByte('\n')
		}
		if ev.Kind == client.KindEnvironmentRequest {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("> ")
		}
		b.WriteString(ev.Content)
	}
	return b.String()
}
