// Package lease emulates a host that hands out bounded execution windows.
package lease

import (
	"sync"
	"time"

	"github.com/Root48/DataCollectionModule/internal/ports"
)

// DefaultWindow is the length of each issued grant.
const DefaultWindow = 30 * time.Second

type grant struct {
	name    string
	expires time.Time
	timer   *time.Timer
}

// Host issues execution grants that expire on their own unless released first.
// Expiry fires the grant's callback exactly once; a released grant never fires.
type Host struct {
	mu     sync.Mutex
	window time.Duration
	next   ports.GrantHandle
	grants map[ports.GrantHandle]*grant
}

var _ ports.BudgetHost = (*Host)(nil)

type Option func(*Host)

// WithWindow overrides the grant window.
func WithWindow(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.window = d
		}
	}
}

// New returns a Host with no outstanding grants.
func New(opts ...Option) *Host {
	h := &Host{window: DefaultWindow, grants: make(map[ports.GrantHandle]*grant)}
	for _, o := range opts {
		o(h)
	}
	return h
}

// RequestGrant issues a new grant for the full window.
func (h *Host) RequestGrant(name string, onExpire func()) (ports.GrantHandle, error) {
	h.mu.Lock()
	h.next++
	id := h.next
	g := &grant{name: name, expires: time.Now().Add(h.window)}
	h.grants[id] = g
	g.timer = time.AfterFunc(h.window, func() { h.expire(id, onExpire) })
	h.mu.Unlock()
	return id, nil
}

func (h *Host) expire(id ports.GrantHandle, onExpire func()) {
	h.mu.Lock()
	_, ok := h.grants[id]
	if ok {
		delete(h.grants, id)
	}
	h.mu.Unlock()
	if ok && onExpire != nil {
		onExpire()
	}
}

// Release returns the grant to the host. Releasing an expired or unknown
// handle is a no-op.
func (h *Host) Release(id ports.GrantHandle) {
	h.mu.Lock()
	g, ok := h.grants[id]
	if ok {
		delete(h.grants, id)
	}
	h.mu.Unlock()
	if ok {
		g.timer.Stop()
	}
}

// Remaining reports the longest time left across active grants.
func (h *Host) Remaining() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	var longest time.Duration
	for _, g := range h.grants {
		if d := g.expires.Sub(now); d > longest {
			longest = d
		}
	}
	return longest
}

// Active reports the number of live grants.
func (h *Host) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.grants)
}
