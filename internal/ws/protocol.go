// Package ws implements the devond HTTP API and the WebSocket push
// channel for appended session events.
package ws

import "github.com/sitais/devon/internal/session"

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	MsgSnapshot MessageType = "snapshot"
	MsgEvent    MessageType = "event"
	MsgSession  MessageType = "session"
)

// WSMessage is the envelope for all WebSocket messages.
type WSMessage struct {
	Type    MessageType `json:"type"`
	Seq     uint64      `json:"seq"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload is sent once on connect.
type SnapshotPayload struct {
	Sessions []*session.State `json:"sessions"`
}

// EventPayload announces an event appended to a session's log.
type EventPayload struct {
	SessionID string         `json:"sessionId"`
	State     *session.State `json:"state"`
	Event     session.Event  `json:"event"`
}

// SessionPayload announces a session state change (status, liveness).
type SessionPayload struct {
	State *session.State `json:"state"`
}

// CreateSessionRequest is the body of POST /api/sessions.
type CreateSessionRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	PID        int    `json:"pid,omitempty"`
	WorkingDir string `json:"workingDir,omitempty"`
}
