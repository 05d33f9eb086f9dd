package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sitais/devon/internal/session"
)

// Server serves the session API and upgrades /ws connections.
type Server struct {
	store       *session.Store
	broadcaster *Broadcaster
	journal     *session.Journal // nil disables persistence
}

func NewServer(store *session.Store, broadcaster *Broadcaster, journal *session.Journal) *Server {
	return &Server{
		store:       store,
		broadcaster: broadcaster,
		journal:     journal,
	}
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/sessions/", s.handleSessionRoutes)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	log.Printf("WebSocket client connected: %s", r.RemoteAddr)
	c := s.broadcaster.AddClient(conn)

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			log.Printf("WebSocket client disconnected: %s", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.store.GetAll())
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	id := req.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", req.Name, time.Now().UnixNano())
	}
	if _, exists := s.store.Get(id); exists {
		http.Error(w, "session already exists", http.StatusConflict)
		return
	}

	st := s.store.Create(id, req.Name, req.PID, req.WorkingDir)
	if s.journal != nil {
		if err := s.journal.WriteSession(st); err != nil {
			log.Printf("journal: %v", err)
		}
	}
	s.broadcaster.BroadcastSession(st)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, st)
}

// handleSessionRoutes dispatches /api/sessions/{id}/events.
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "events" || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodGet:
		events, err := s.store.Events(id)
		if err != nil {
			s.sessionError(w, err)
			return
		}
		writeJSON(w, events)
	case http.MethodPost:
		s.handleAppendEvent(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAppendEvent(w http.ResponseWriter, r *http.Request, id string) {
	var ev session.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if ev.Kind == "" {
		http.Error(w, "kind is required", http.StatusBadRequest)
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	if err := s.store.Append(id, ev); err != nil {
		s.sessionError(w, err)
		return
	}
	if s.journal != nil {
		if err := s.journal.WriteEvent(id, ev); err != nil {
			log.Printf("journal: %v", err)
		}
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) sessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNoSession) {
		http.Error(w, "no such session", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// ListenAndServe starts the HTTP server on host:port.
func ListenAndServe(host string, port int, handler http.Handler) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Listening on http://%s", addr)
	return http.ListenAndServe(addr, handler)
}
