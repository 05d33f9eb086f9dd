package terminal

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sitais/devon/internal/client"
)

// DefaultPollInterval is how often the terminal display is resynced
// with the remote session log.
const DefaultPollInterval = 4 * time.Second

// Source fetches the full ordered event log recorded for a session.
type Source interface {
	FetchEvents(ctx context.Context, sessionID string) ([]client.Event, error)
}

// Update carries one filtered fetch result to the display.
type Update struct {
	SessionID string
	Events    []client.Event
}

// Poller periodically fetches a session's event log, filters it, and
// publishes the result on Updates. At most one timer is ever armed:
// Start cancels the previous subscription before arming a new one.
//
// A fetch outliving the interval may overlap the next one; publishes
// carry a generation so a slow fetch completing after a newer one is
// discarded instead of overwriting the display with stale data.
type Poller struct {
	source   Source
	interval time.Duration
	updates  chan Update

	mu      sync.Mutex
	session string
	cancel  context.CancelFunc
	nextGen uint64 // generation handed to the next dispatched fetch
	pubGen  uint64 // newest generation published so far
}

func NewPoller(source Source, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		updates:  make(chan Update, 8),
	}
}

// Updates is the channel the display drains. Updates that cannot be
// delivered immediately are dropped; the next tick republishes the full
// state anyway.
func (p *Poller) Updates() <-chan Update {
	return p.updates
}

// Start begins polling for sessionID. It is a no-op when sessionID is
// empty or the "New" sentinel, leaving the poller idle. Any previous
// subscription is cancelled first, so two timers are never live at
// once.
func (p *Poller) Start(sessionID string) {
	p.Stop()
	if sessionID == "" || sessionID == client.NewSessionID {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.session = sessionID
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(ctx, sessionID)
}

// Stop cancels the active subscription, if any. In-flight fetches are
// interrupted; a completion that slips through is discarded by the
// publish guard.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.session = ""
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (p *Poller) run(ctx context.Context, sessionID string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.dispatch(ctx, sessionID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.dispatch(ctx, sessionID)
		}
	}
}

// dispatch launches one fetch cycle without waiting for it, so a slow
// fetch never delays the ticker.
func (p *Poller) dispatch(ctx context.Context, sessionID string) {
	p.mu.Lock()
	p.nextGen++
	gen := p.nextGen
	p.mu.Unlock()

	go func() {
		events, err := p.source.FetchEvents(ctx, sessionID)
		if err != nil {
			// Keep whatever the display already shows; the next tick
			// is the retry.
			if ctx.Err() == nil {
				log.Printf("poll session %s: %v", sessionID, err)
			}
			return
		}
		p.publish(sessionID, gen, Filter(events))
	}()
}

func (p *Poller) publish(sessionID string, gen uint64, events []client.Event) {
	p.mu.Lock()
	if p.session != sessionID || gen <= p.pubGen {
		p.mu.Unlock()
		return
	}
	p.pubGen = gen
	p.mu.Unlock()

	select {
	case p.updates <- Update{SessionID: sessionID, Events: events}:
	default:
		log.Printf("poll session %s: display busy, update dropped", sessionID)
	}
}
