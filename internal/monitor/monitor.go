// Package monitor watches the agent processes behind running sessions
// and marks sessions whose process has exited as lost.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sitais/devon/internal/session"
	"github.com/sitais/devon/internal/ws"
)

type Monitor struct {
	store       *session.Store
	broadcaster *ws.Broadcaster
	interval    time.Duration
}

func New(store *session.Store, broadcaster *ws.Broadcaster, interval time.Duration) *Monitor {
	return &Monitor{
		store:       store,
		broadcaster: broadcaster,
		interval:    interval,
	}
}

// Start polls process liveness until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Printf("Liveness monitor started (interval %s)", m.interval)

	m.poll()

	for {
		select {
		case <-ctx.Done():
			log.Println("Liveness monitor stopped")
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	for _, st := range m.store.GetAll() {
		if st.Status != session.StatusRunning || st.PID <= 0 {
			continue
		}
		alive, err := processAlive(int32(st.PID))
		if err != nil {
			log.Printf("Liveness probe for session %s (pid %d): %v", st.ID, st.PID, err)
			continue
		}
		if alive {
			continue
		}
		log.Printf("Session %s lost: pid %d is gone", st.ID, st.PID)
		updated, err := m.store.SetStatus(st.ID, session.StatusLost)
		if err != nil {
			continue
		}
		m.broadcaster.BroadcastSession(updated)
	}
}

func processAlive(pid int32) (bool, error) {
	exists, err := process.PidExists(pid)
	if err != nil || !exists {
		return false, err
	}
	p, err := process.NewProcess(pid)
	if err != nil {
		return false, nil
	}
	running, err := p.IsRunning()
	if err != nil {
		return false, err
	}
	return running, nil
}
