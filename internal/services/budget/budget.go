// Package budget guards background execution windows granted by the host.
package budget

import (
	"log"
	"sync"
	"time"

	"github.com/Root48/DataCollectionModule/internal/ports"
)

// MinimumRemaining is the floor under which the tracker ends its grant early
// instead of letting the host revoke it mid-transmission.
const MinimumRemaining = 10 * time.Second

// PollEvery is the cadence of budget checks while a grant is held. Tests
// shorten this.
var PollEvery = time.Second

const grantName = "power-collection-flush"

type phase int

const (
	phaseAbsent phase = iota
	phaseActive
	phaseEnding
)

func (p phase) String() string {
	switch p {
	case phaseActive:
		return "active"
	case phaseEnding:
		return "ending"
	default:
		return "absent"
	}
}

// Status is the externally visible budget state.
type Status struct {
	State            string  `json:"state"`
	RemainingSeconds float64 `json:"remainingSeconds"`
}

// Tracker holds at most one execution grant. Whichever of manual end,
// low-budget poll, or host expiry comes first releases it; the rest are
// no-ops. Returning to the foreground only pauses the watch, the grant's
// fate stays with the host.
type Tracker struct {
	host ports.BudgetHost

	mu     sync.Mutex
	phase  phase
	handle ports.GrantHandle
	stopc  chan struct{}
}

// New builds a Tracker over the given host. The host must not invoke the
// expiry callback from inside RequestGrant.
func New(host ports.BudgetHost) *Tracker {
	return &Tracker{host: host}
}

// Begin requests an execution grant and starts watching the budget. When a
// grant is already held the request is skipped and only the watch is resumed;
// a refused grant leaves the tracker absent.
func (t *Tracker) Begin() {
	t.mu.Lock()
	switch t.phase {
	case phaseActive:
		t.startWatchLocked()
		t.mu.Unlock()
		return
	case phaseEnding:
		t.mu.Unlock()
		return
	}
	h, err := t.host.RequestGrant(grantName, t.onExpire)
	if err != nil {
		t.mu.Unlock()
		log.Printf("budget: grant refused, no active grant: %v", err)
		return
	}
	t.phase = phaseActive
	t.handle = h
	t.startWatchLocked()
	t.mu.Unlock()
}

// End releases the grant. Safe to call in any state.
func (t *Tracker) End() {
	t.end()
}

// OnBackground marks the transition into background execution.
func (t *Tracker) OnBackground() { t.Begin() }

// OnForeground pauses the budget watch. The grant itself is not revoked;
// the host decides what happens to a window whose owner is foreground again.
func (t *Tracker) OnForeground() {
	t.mu.Lock()
	t.stopWatchLocked()
	t.mu.Unlock()
}

// Snapshot reports the current grant phase and the host's remaining window.
func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	ph := t.phase
	t.mu.Unlock()

	st := Status{State: ph.String()}
	if ph == phaseActive {
		st.RemainingSeconds = t.host.Remaining().Seconds()
	}
	return st
}

func (t *Tracker) onExpire() {
	log.Printf("budget: grant expired by host")
	t.end()
}

// end funnels every release path through a single active-to-ending-to-absent
// transition, so the grant is returned exactly once.
func (t *Tracker) end() {
	t.mu.Lock()
	if t.phase != phaseActive {
		t.mu.Unlock()
		return
	}
	t.phase = phaseEnding
	h := t.handle
	t.handle = 0
	t.stopWatchLocked()
	t.mu.Unlock()

	t.host.Release(h)

	t.mu.Lock()
	t.phase = phaseAbsent
	t.mu.Unlock()
}

func (t *Tracker) startWatchLocked() {
	if t.stopc != nil {
		return
	}
	stopc := make(chan struct{})
	t.stopc = stopc
	go t.watch(stopc)
}

func (t *Tracker) stopWatchLocked() {
	if t.stopc != nil {
		close(t.stopc)
		t.stopc = nil
	}
}

func (t *Tracker) watch(stopc chan struct{}) {
	tick := time.NewTicker(PollEvery)
	defer tick.Stop()
	for {
		select {
		case <-stopc:
			return
		case <-tick.C:
			if t.host.Remaining() < MinimumRemaining {
				log.Printf("budget: remaining under %s, ending grant early", MinimumRemaining)
				t.end()
				return
			}
		}
	}
}
