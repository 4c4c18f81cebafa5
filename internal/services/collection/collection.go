// Package collection runs the capture-transmit-journal pipeline and reports
// its phase to observers.
package collection

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/ports"
	"github.com/Root48/DataCollectionModule/pkg/observer"
)

const defaultInterval = 120 * time.Second

// Hold durations before a settled outcome yields the status back to
// collecting. Tests shorten these.
var (
	SuccessHold = 2 * time.Second
	FailureHold = 5 * time.Second
)

// Orchestrator owns the collection state machine. At most one transmission is
// in flight at a time; a sample arriving during one is dropped, not queued.
// An outcome that settles after Stop still lands on the counters, but the
// published status stays idle.
type Orchestrator struct {
	source  ports.SampleSource
	tx      ports.Transmitter
	journal ports.DeliveryJournal

	interval time.Duration

	status     *observer.State[domain.CollectionStatus]
	deliveries *observer.Subject[domain.DeliveryRecord]

	mu       sync.Mutex
	active   bool
	inFlight bool
	rearm    *time.Timer
	stats    domain.CollectionStatistics
	stopc    chan struct{}
}

type Option func(*Orchestrator)

// WithInterval sets the sampling cadence handed to the source on Start.
func WithInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.interval = d
		}
	}
}

// New wires the orchestrator. A nil journal keeps counters but drops history.
func New(source ports.SampleSource, tx ports.Transmitter, journal ports.DeliveryJournal, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:     source,
		tx:         tx,
		journal:    journal,
		interval:   defaultInterval,
		status:     observer.NewState[domain.CollectionStatus](),
		deliveries: observer.NewSubject[domain.DeliveryRecord](),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.status.Publish(context.Background(), domain.StatusIdle())
	return o
}

// Start begins periodic collection and publishes collecting. Starting an
// active orchestrator is a no-op; counters are never reset here.
//
// The given context bounds the whole collection run, not one request.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if o.active {
		o.mu.Unlock()
		log.Printf("collection: already active, start ignored")
		return
	}
	o.active = true
	o.stats.Active = true
	o.stopc = make(chan struct{})
	stopc := o.stopc
	o.status.Publish(ctx, domain.StatusCollecting())
	o.mu.Unlock()

	o.source.Start(ctx, o.interval)
	go o.consume(ctx, stopc)
}

// Stop halts collection and publishes idle. A transmission already in flight
// finishes in the background and settles the counters without touching the
// status. Safe to call twice.
func (o *Orchestrator) Stop(ctx context.Context) {
	o.mu.Lock()
	if !o.active {
		o.mu.Unlock()
		return
	}
	o.active = false
	o.stats.Active = false
	o.cancelRearmLocked()
	close(o.stopc)
	o.status.Publish(ctx, domain.StatusIdle())
	o.mu.Unlock()

	o.source.Stop()
}

// Reset zeroes the delivery counters. The running state is untouched; an
// in-flight outcome lands on the fresh counters.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stats.TotalDelivered = 0
	o.stats.TotalFailed = 0
	o.stats.LastSampleAt = time.Time{}
}

// Active reports whether periodic collection is running.
func (o *Orchestrator) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Summary derives the read-only statistics view.
func (o *Orchestrator) Summary() domain.Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return domain.NewSummary(o.stats)
}

// Status returns the currently published pipeline status.
func (o *Orchestrator) Status() domain.CollectionStatus {
	if st, ok := o.status.Current(); ok {
		return st
	}
	return domain.StatusIdle()
}

// ObserveStatus attaches a status observer; the current value replays at once.
// Observers run on the publishing goroutine and must not call back into the
// Orchestrator.
func (o *Orchestrator) ObserveStatus(ctx context.Context, obs StatusObserver) func() {
	return o.status.Attach(ctx, obs)
}

// ObserveDeliveries attaches observers for finalized delivery outcomes.
func (o *Orchestrator) ObserveDeliveries(obs ...DeliveryObserver) {
	o.deliveries.Attach(obs...)
}

// consume dispatches each sample on its own goroutine so the channel is
// always drained promptly; the inFlight guard then drops every sample that
// lands while a transmission is running instead of queueing it.
func (o *Orchestrator) consume(ctx context.Context, stopc chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopc:
			return
		case s := <-o.source.Samples():
			go o.handleSample(ctx, s)
		}
	}
}

func (o *Orchestrator) handleSample(ctx context.Context, s domain.Sample) {
	o.mu.Lock()
	if !o.active || o.inFlight {
		busy := o.inFlight
		o.mu.Unlock()
		if busy {
			log.Printf("collection: transmission in flight, dropped sample")
		}
		return
	}
	o.inFlight = true
	o.cancelRearmLocked()
	o.stats.LastSampleAt = s.CapturedAt
	o.status.Publish(ctx, domain.StatusTransmitting())
	o.mu.Unlock()

	detail, err := o.tx.Send(ctx, s)
	o.finalize(ctx, s, detail, err)
}

func (o *Orchestrator) finalize(ctx context.Context, s domain.Sample, detail string, err error) {
	rec := domain.DeliveryRecord{
		ID:           uuid.NewString(),
		SourceID:     s.SourceID,
		CapturedAt:   s.CapturedAt,
		Level:        s.Level,
		PowerState:   s.PowerState,
		LowPowerMode: s.LowPowerMode,
		Delivered:    err == nil,
		Detail:       detail,
		RecordedAt:   time.Now(),
	}
	if err != nil {
		rec.Detail = err.Error()
	}

	o.mu.Lock()
	if err == nil {
		o.stats.TotalDelivered++
	} else {
		o.stats.TotalFailed++
	}
	o.inFlight = false
	if o.active {
		if err == nil {
			o.status.Publish(ctx, domain.StatusSucceeded(detail))
			o.rearmLocked(SuccessHold)
		} else {
			o.status.Publish(ctx, domain.StatusFailed(err.Error()))
			o.rearmLocked(FailureHold)
		}
	}
	o.mu.Unlock()

	if o.journal != nil {
		if jerr := o.journal.Record(ctx, rec); jerr != nil {
			log.Printf("collection: journal write failed: %v", jerr)
		}
	}
	o.deliveries.Publish(ctx, rec)

	if err != nil {
		log.Printf("collection: delivery failed: %v", err)
	}
}

// rearmLocked schedules the fall back to collecting once the hold elapses.
// A new sample or a Stop cancels it first.
func (o *Orchestrator) rearmLocked(after time.Duration) {
	o.cancelRearmLocked()
	o.rearm = time.AfterFunc(after, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if !o.active || o.inFlight {
			return
		}
		o.rearm = nil
		o.status.Publish(context.Background(), domain.StatusCollecting())
	})
}

func (o *Orchestrator) cancelRearmLocked() {
	if o.rearm != nil {
		o.rearm.Stop()
		o.rearm = nil
	}
}
