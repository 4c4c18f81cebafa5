// Package sampling emits power samples on a fixed cadence.
package sampling

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

// DefaultInterval is used when Start receives a non-positive interval.
const DefaultInterval = 120 * time.Second

// Source polls a power probe and emits the readings on its sample channel.
// An emission that finds the consumer lagging is dropped, never queued.
type Source struct {
	probe ports.PowerProbe
	out   chan domain.Sample

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

var _ ports.SampleSource = (*Source)(nil)

// New builds a Source over the given probe.
func New(probe ports.PowerProbe) *Source {
	return &Source{
		probe: probe,
		out:   make(chan domain.Sample, 8),
	}
}

// Start launches the sampling loop: one immediate reading, then one per
// interval, plus one per probe event. A second Start replaces the running loop
// so the cadence never doubles.
func (s *Source) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	stop := make(chan struct{})
	s.stop = stop
	s.wg.Add(1)
	go s.loop(ctx, interval, stop)
}

// Stop halts the sampling loop and waits for it to exit. Safe to call twice.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Source) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
	s.wg.Wait()
}

// Samples is the emission channel. It stays open across restarts.
func (s *Source) Samples() <-chan domain.Sample {
	return s.out
}

func (s *Source) loop(ctx context.Context, interval time.Duration, stop chan struct{}) {
	defer s.wg.Done()

	t := time.NewTicker(interval)
	defer t.Stop()

	s.sample(ctx)

	// A nil events channel blocks forever, which is exactly what a
	// poll-only probe needs.
	events := s.probe.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-t.C:
			s.sample(ctx)
		case <-events:
			s.sample(ctx)
		}
	}
}

func (s *Source) sample(ctx context.Context) {
	smp, err := s.probe.CurrentSample(ctx)
	if err != nil {
		log.Printf("sampling: probe read failed: %v", err)
		return
	}
	select {
	case s.out <- smp:
	default:
		log.Printf("sampling: consumer lagging, dropped sample from %s", smp.CapturedAt.Format(time.RFC3339))
	}
}
