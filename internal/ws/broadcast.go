package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sitais/devon/internal/session"
)

type client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// trySend queues a message without blocking, dropping it when the
// client is slow or already closed. Holding mu makes the send mutually
// exclusive with close, so a disconnect racing a broadcast can never
// hit a closed channel.
func (c *client) trySend(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Broadcaster fans appended events and session state changes out to
// connected WebSocket clients. Slow clients have messages dropped
// rather than stalling the append path.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool
	store   *session.Store
	seq     uint64
}

func NewBroadcaster(store *session.Store) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]bool),
		store:   store,
	}
}

// AddClient registers a connection and sends it the current snapshot.
func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	seq := b.nextSeq()
	b.mu.Unlock()

	data, err := json.Marshal(WSMessage{
		Type:    MsgSnapshot,
		Seq:     seq,
		Payload: SnapshotPayload{Sessions: b.store.GetAll()},
	})
	if err != nil {
		log.Printf("ws: marshal snapshot: %v", err)
		return c
	}

	c.trySend(data)

	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if b.clients[c] {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// BroadcastEvent announces an appended event. Wired as the store's
// observer.
func (b *Broadcaster) BroadcastEvent(state *session.State, ev session.Event) {
	b.broadcast(MsgEvent, EventPayload{
		SessionID: state.ID,
		State:     state,
		Event:     ev,
	})
}

// BroadcastSession announces a session state change.
func (b *Broadcaster) BroadcastSession(state *session.State) {
	b.broadcast(MsgSession, SessionPayload{State: state})
}

func (b *Broadcaster) broadcast(msgType MessageType, payload interface{}) {
	b.mu.Lock()
	seq := b.nextSeq()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(WSMessage{Type: msgType, Seq: seq, Payload: payload})
	if err != nil {
		log.Printf("ws: marshal %s: %v", msgType, err)
		return
	}

	// Dropped messages resynchronize via the snapshot on reconnect.
	for _, c := range clients {
		c.trySend(data)
	}
}

// nextSeq must be called with b.mu held.
func (b *Broadcaster) nextSeq() uint64 {
	b.seq++
	return b.seq
}

// CloseAll disconnects every client. Used on shutdown and in tests.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		c.close()
	}
}
