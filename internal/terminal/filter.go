// Package terminal contains the event-to-display synchronization core:
// the filter selecting terminal-relevant events, the deterministic
// renderer, and the poller that keeps a display in step with a remote
// session log.
package terminal

import "github.com/sitais/devon/internal/client"

// Filter keeps only events shown in the terminal pane: issued commands
// and their output. Order is preserved. A nil or empty input yields an
// empty result.
func Filter(events []client.Event) []client.Event {
	out := make([]client.Event, 0, len(events))
	for _, ev := range events {
		switch ev.Kind {
		case client.KindEnvironmentRequest, client.KindEnvironmentResponse:
			out = append(out, ev)
		}
	}
	return out
}
