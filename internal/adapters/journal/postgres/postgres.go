// Package postgres implements a Postgres-backed delivery journal.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/misc"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

// DefaultRecentLimit caps Recent queries that pass no positive limit.
const DefaultRecentLimit = 50

// Journal persists delivery outcomes in Postgres with retryable operations.
type Journal struct {
	db *sql.DB
}

var _ ports.DeliveryJournal = (*Journal)(nil)

var retryablePGCodes = map[string]struct{}{
	pgerrcode.ConnectionException:                           {},
	pgerrcode.ConnectionDoesNotExist:                        {},
	pgerrcode.ConnectionFailure:                             {},
	pgerrcode.SQLClientUnableToEstablishSQLConnection:       {},
	pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection: {},
	pgerrcode.TransactionResolutionUnknown:                  {},
	pgerrcode.ProtocolViolation:                             {},
	pgerrcode.SerializationFailure:                          {},
	pgerrcode.DeadlockDetected:                              {},
	pgerrcode.LockNotAvailable:                              {},
	pgerrcode.TooManyConnections:                            {},
	pgerrcode.AdminShutdown:                                 {},
	pgerrcode.CrashShutdown:                                 {},
	pgerrcode.CannotConnectNow:                              {},
	pgerrcode.QueryCanceled:                                 {},
}

// New returns a Postgres-backed journal.
func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record inserts one delivery outcome.
func (j *Journal) Record(ctx context.Context, rec domain.DeliveryRecord) error {
	const q = `
INSERT INTO deliveries (id, source_id, captured_at, level, power_state, low_power, delivered, detail, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	op := func() error {
		_, err := j.db.ExecContext(ctx, q,
			rec.ID, rec.SourceID, rec.CapturedAt, rec.Level, string(rec.PowerState),
			rec.LowPowerMode, rec.Delivered, rec.Detail, rec.RecordedAt)
		return err
	}
	return misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, op)
}

// Recent returns up to limit outcomes, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.DeliveryRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	const q = `
SELECT id, source_id, captured_at, level, power_state, low_power, delivered, detail, recorded_at
FROM deliveries
ORDER BY recorded_at DESC
LIMIT $1`

	var out []domain.DeliveryRecord
	op := func() error {
		rows, err := j.db.QueryContext(ctx, q, limit)
		if err != nil {
			return err
		}
		defer func() {
			_ = rows.Close()
		}()

		recs := make([]domain.DeliveryRecord, 0, limit)
		var state string
		for rows.Next() {
			var r domain.DeliveryRecord
			if err := rows.Scan(&r.ID, &r.SourceID, &r.CapturedAt, &r.Level, &state,
				&r.LowPowerMode, &r.Delivered, &r.Detail, &r.RecordedAt); err != nil {
				continue
			}
			r.PowerState = domain.PowerState(state)
			recs = append(recs, r)
		}
		out = recs
		return nil
	}
	if err := misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, op); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping verifies the database connection using a short-lived context.
func (j *Journal) Ping(ctx context.Context) error {
	if j.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	op := func() error {
		return j.db.PingContext(ctx)
	}
	return misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, op)
}

// IsRetryable reports whether the error should trigger a retry according to Postgres semantics.
func IsRetryable(err error) bool {
	return isRetryablePG(err)
}

func isRetryablePG(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return isRetryablePGCode(string(pqe.Code))
	}
	return false
}

func isRetryablePGCode(code string) bool {
	if _, ok := retryablePGCodes[code]; ok {
		return true
	}
	if strings.HasPrefix(code, "08") {
		return true
	}
	if strings.HasPrefix(code, "40") {
		return true
	}
	return false
}
