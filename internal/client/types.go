// Package client provides the HTTP client for the devond API. Types
// mirror the daemon's wire protocol without importing its packages.
package client

import "time"

// NewSessionID is the sentinel session ID meaning "no session selected
// yet". Pollers and fetches treat it the same as an empty ID.
const NewSessionID = "New"

// EventKind tags an event in a session's log. The set is open; consumers
// ignore kinds they do not recognize.
type EventKind string

const (
	KindEnvironmentRequest  EventKind = "EnvironmentRequest"
	KindEnvironmentResponse EventKind = "EnvironmentResponse"
	KindUserRequest         EventKind = "UserRequest"
	KindModelResponse       EventKind = "ModelResponse"
)

// Event mirrors internal/session.Event.
type Event struct {
	Kind      EventKind `json:"kind"`
	Content   string    `json:"content"`
	Producer  string    `json:"producer,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session mirrors internal/session.State.
type Session struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	PID        int       `json:"pid,omitempty"`
	WorkingDir string    `json:"workingDir,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	EventCount int       `json:"eventCount"`
}
