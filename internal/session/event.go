// Package session holds the event model and the in-memory session store
// shared by the HTTP API, the liveness monitor and the JSONL journal.
package session

import "time"

// EventKind classifies an event in a session's log. The set is open:
// producers may record kinds the rest of the system does not know about,
// and consumers must ignore kinds they do not care for.
type EventKind string

const (
	KindEnvironmentRequest  EventKind = "EnvironmentRequest"
	KindEnvironmentResponse EventKind = "EnvironmentResponse"
	KindUserRequest         EventKind = "UserRequest"
	KindModelRequest        EventKind = "ModelRequest"
	KindModelResponse       EventKind = "ModelResponse"
	KindToolRequest         EventKind = "ToolRequest"
	KindToolResponse        EventKind = "ToolResponse"
	KindTask                EventKind = "Task"
	KindInterrupt           EventKind = "Interrupt"
	KindStop                EventKind = "Stop"
)

// Event is a single entry in a session's ordered log.
type Event struct {
	Kind      EventKind `json:"kind"`
	Content   string    `json:"content"`
	Producer  string    `json:"producer,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Status describes a session's lifecycle state.
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
	StatusLost    Status = "lost" // agent process disappeared
)

// State is a session's metadata. The event log itself lives in the
// store, keyed by ID.
type State struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	PID        int       `json:"pid,omitempty"`
	WorkingDir string    `json:"workingDir,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	EventCount int       `json:"eventCount"`
}
