// Package sim provides a self-contained battery simulator for local runs and tests.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

const (
	defaultStep       = 0.05
	rechargeAt        = 0.2
	lowPowerThreshold = 0.25
)

// Probe models a battery that drains while unplugged and plugs itself back in
// once it reaches the recharge floor. Each read advances the walk one step, so
// a fixed number of reads always produces the same trace.
type Probe struct {
	mu       sync.Mutex
	level    float64
	state    domain.PowerState
	sourceID string
	step     float64
	now      func() time.Time
	events   chan struct{}
}

var _ ports.PowerProbe = (*Probe)(nil)

type Option func(*Probe)

// WithStep sets the level delta applied per read.
func WithStep(step float64) Option {
	return func(p *Probe) { p.step = step }
}

// WithSourceID overrides the generated source identifier.
func WithSourceID(id string) Option {
	return func(p *Probe) { p.sourceID = id }
}

// WithClock substitutes the time source for captured-at stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Probe) { p.now = now }
}

// New builds a fully charged, plugged-in simulated battery.
func New(opts ...Option) *Probe {
	p := &Probe{
		level:  1,
		state:  domain.PowerFull,
		step:   defaultStep,
		now:    time.Now,
		events: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(p)
	}
	if p.sourceID == "" {
		p.sourceID = "sim-" + uuid.NewString()
	}
	return p
}

// CurrentSample advances the walk and returns the resulting reading.
func (p *Probe) CurrentSample(ctx context.Context) (domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sample{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance()
	return domain.Sample{
		CapturedAt:   p.now(),
		Level:        p.level,
		PowerState:   p.state,
		SourceID:     p.sourceID,
		LowPowerMode: p.state == domain.PowerUnplugged && p.level < lowPowerThreshold,
	}, nil
}

// Events yields a signal whenever the supply is plugged or unplugged.
func (p *Probe) Events() <-chan struct{} { return p.events }

// Plug switches the supply to charging and signals an event.
func (p *Probe) Plug() {
	p.mu.Lock()
	if p.state != domain.PowerCharging && p.state != domain.PowerFull {
		p.state = domain.PowerCharging
	}
	p.mu.Unlock()
	p.signal()
}

// Unplug disconnects the supply and signals an event.
func (p *Probe) Unplug() {
	p.mu.Lock()
	p.state = domain.PowerUnplugged
	p.mu.Unlock()
	p.signal()
}

func (p *Probe) signal() {
	select {
	case p.events <- struct{}{}:
	default:
	}
}

func (p *Probe) advance() {
	switch p.state {
	case domain.PowerUnplugged:
		p.level -= p.step
		if p.level <= rechargeAt {
			p.level = rechargeAt
			p.state = domain.PowerCharging
		}
	case domain.PowerCharging:
		p.level += p.step
		if p.level >= 1 {
			p.level = 1
			p.state = domain.PowerFull
		}
	case domain.PowerFull:
		p.state = domain.PowerUnplugged
	}
}
