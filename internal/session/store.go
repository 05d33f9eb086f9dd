package session

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNoSession is returned for operations on an unknown session ID.
var ErrNoSession = errors.New("no such session")

// Observer is notified after an event is appended to a session's log.
// The state snapshot and the event are safe to retain.
type Observer func(state *State, ev Event)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
	logs     map[string][]Event
	observer Observer
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*State),
		logs:     make(map[string][]Event),
	}
}

// SetObserver registers the append hook. Must be called before the
// store is shared across goroutines.
func (s *Store) SetObserver(fn Observer) {
	s.observer = fn
}

// Create registers a new session and returns a snapshot of its state.
func (s *Store) Create(id, name string, pid int, workingDir string) *State {
	now := time.Now()
	st := &State{
		ID:         id,
		Name:       name,
		Status:     StatusRunning,
		PID:        pid,
		WorkingDir: workingDir,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.mu.Lock()
	s.sessions[id] = st
	s.mu.Unlock()
	snap := *st
	return &snap
}

// Restore registers a session with its persisted state, preserving
// timestamps. Used by journal replay; the event log is appended
// separately.
func (s *Store) Restore(st *State) {
	snap := *st
	snap.EventCount = 0
	s.mu.Lock()
	s.sessions[snap.ID] = &snap
	s.mu.Unlock()
}

func (s *Store) Get(id string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	snap := *st
	return &snap, true
}

// GetAll returns state snapshots sorted by creation time.
func (s *Store) GetAll() []*State {
	s.mu.RLock()
	result := make([]*State, 0, len(s.sessions))
	for _, st := range s.sessions {
		snap := *st
		result = append(result, &snap)
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Events returns a copy of the session's full ordered event log.
func (s *Store) Events(id string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[id]; !ok {
		return nil, ErrNoSession
	}
	log := s.logs[id]
	out := make([]Event, len(log))
	copy(out, log)
	return out, nil
}

// Append adds an event to the session's log and notifies the observer.
func (s *Store) Append(id string, ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.mu.Lock()
	st, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrNoSession
	}
	s.logs[id] = append(s.logs[id], ev)
	st.EventCount = len(s.logs[id])
	st.UpdatedAt = ev.Timestamp
	snap := *st
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(&snap, ev)
	}
	return nil
}

// SetStatus updates a session's lifecycle status. Returns the updated
// snapshot, or ErrNoSession.
func (s *Store) SetStatus(id string, status Status) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	st.Status = status
	st.UpdatedAt = time.Now()
	snap := *st
	return &snap, nil
}

// Remove deletes a session and its log.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.logs, id)
}
