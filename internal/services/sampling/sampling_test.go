package sampling

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Root48/DataCollectionModule/internal/domain"
)

// fakeProbe numbers each reading via the sample level so tests can track
// emission order.
type fakeProbe struct {
	reads  atomic.Int64
	failN  int64
	events chan struct{}
}

func newFakeProbe() *fakeProbe {
	return &fakeProbe{events: make(chan struct{}, 1)}
}

func (p *fakeProbe) CurrentSample(ctx context.Context) (domain.Sample, error) {
	n := p.reads.Add(1)
	if p.failN > 0 && n <= p.failN {
		return domain.Sample{}, errors.New("probe offline")
	}
	return domain.Sample{
		CapturedAt: time.Now(),
		Level:      float64(n),
		PowerState: domain.PowerCharging,
		SourceID:   "fake",
	}, nil
}

func (p *fakeProbe) Events() <-chan struct{} { return p.events }

func recv(t *testing.T, ch <-chan domain.Sample, within time.Duration) domain.Sample {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(within):
		t.Fatal("no sample arrived")
		return domain.Sample{}
	}
}

func TestStart_EmitsImmediately(t *testing.T) {
	p := newFakeProbe()
	src := New(p)
	defer src.Stop()

	src.Start(context.Background(), time.Hour)
	s := recv(t, src.Samples(), 500*time.Millisecond)
	if s.Level != 1 {
		t.Errorf("first sample level = %v, want 1", s.Level)
	}
}

func TestStart_PeriodicEmission(t *testing.T) {
	p := newFakeProbe()
	src := New(p)
	defer src.Stop()

	src.Start(context.Background(), 20*time.Millisecond)
	for want := 1.0; want <= 3; want++ {
		s := recv(t, src.Samples(), time.Second)
		if s.Level != want {
			t.Fatalf("sample level = %v, want %v", s.Level, want)
		}
	}
}

func TestRestart_SingleCadence(t *testing.T) {
	p := newFakeProbe()
	src := New(p)
	defer src.Stop()

	src.Start(context.Background(), time.Hour)
	src.Start(context.Background(), time.Hour)

	// One immediate reading per Start, then silence until the next tick.
	recv(t, src.Samples(), 500*time.Millisecond)
	recv(t, src.Samples(), 500*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	if got := p.reads.Load(); got != 2 {
		t.Errorf("probe reads = %d, want 2", got)
	}
	select {
	case s := <-src.Samples():
		t.Errorf("unexpected extra sample %v", s.Level)
	default:
	}
}

func TestEvents_TriggerResample(t *testing.T) {
	p := newFakeProbe()
	src := New(p)
	defer src.Stop()

	src.Start(context.Background(), time.Hour)
	recv(t, src.Samples(), 500*time.Millisecond)

	p.events <- struct{}{}
	s := recv(t, src.Samples(), time.Second)
	if s.Level != 2 {
		t.Errorf("event sample level = %v, want 2", s.Level)
	}
}

func TestProbeError_SkipsEmission(t *testing.T) {
	p := newFakeProbe()
	p.failN = 1
	src := New(p)
	defer src.Stop()

	src.Start(context.Background(), 20*time.Millisecond)

	// The first reading fails, so the first emission carries the second.
	s := recv(t, src.Samples(), time.Second)
	if s.Level != 2 {
		t.Errorf("sample level = %v, want 2", s.Level)
	}
}

func TestStop_Idempotent(t *testing.T) {
	p := newFakeProbe()
	src := New(p)

	src.Start(context.Background(), 10*time.Millisecond)
	recv(t, src.Samples(), time.Second)
	src.Stop()
	src.Stop()

	reads := p.reads.Load()
	time.Sleep(50 * time.Millisecond)
	if got := p.reads.Load(); got != reads {
		t.Errorf("probe still read after Stop: %d -> %d", reads, got)
	}
}

func TestStop_BeforeStart(t *testing.T) {
	src := New(newFakeProbe())
	src.Stop()
}
