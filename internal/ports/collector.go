package ports

import (
	"context"
	"time"

	"github.com/Root48/DataCollectionModule/internal/domain"
)

type PowerProbe interface {
	CurrentSample(ctx context.Context) (domain.Sample, error)
	// Events is an optional change feed; every receive triggers a re-query.
	// A nil channel means the probe has no push signal.
	Events() <-chan struct{}
}

type SampleSource interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
	Samples() <-chan domain.Sample
}

type Transmitter interface {
	Send(ctx context.Context, s domain.Sample) (status string, err error)
}
