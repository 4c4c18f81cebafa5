package misc

import (
	"context"
	"time"
)

// DefaultBackoff is the delay schedule for infrastructure initialization.
var DefaultBackoff = []time.Duration{
	1 * time.Second,
	3 * time.Second,
	5 * time.Second,
}

// TransmitBackoff is the delay schedule for the sample delivery path.
// Two delays means two retries after the initial attempt, three attempts total.
var TransmitBackoff = []time.Duration{
	1 * time.Second,
	3 * time.Second,
}

// Retry runs op, retrying retryable failures once per delay in the schedule.
func Retry(ctx context.Context, delays []time.Duration, isRetryable func(error) bool, op func() error) error {
	var err error
	for i := 0; ; i++ {
		if err = op(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i >= len(delays) || !isRetryable(err) {
			return err
		}
		t := time.NewTimer(delays[i])
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
