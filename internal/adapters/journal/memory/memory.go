// Package memory implements an in-memory delivery journal.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

const (
	defaultCapacity = 256
	defaultLimit    = 50
)

// Journal keeps the most recent delivery outcomes in memory. Once capacity is
// reached the oldest entries are dropped.
type Journal struct {
	mu   sync.RWMutex
	recs []domain.DeliveryRecord
	cap  int
}

var _ ports.DeliveryJournal = (*Journal)(nil)

// New returns an empty journal bounded to the default capacity.
func New() *Journal {
	return NewWithCapacity(defaultCapacity)
}

// NewWithCapacity returns an empty journal bounded to n entries.
func NewWithCapacity(n int) *Journal {
	if n <= 0 {
		n = defaultCapacity
	}
	return &Journal{recs: make([]domain.DeliveryRecord, 0, n), cap: n}
}

// Record appends one outcome, evicting the oldest entry once full.
func (j *Journal) Record(_ context.Context, rec domain.DeliveryRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.recs) == j.cap {
		copy(j.recs, j.recs[1:])
		j.recs = j.recs[:len(j.recs)-1]
	}
	j.recs = append(j.recs, rec)
	return nil
}

// Recent returns up to limit outcomes, newest first.
func (j *Journal) Recent(_ context.Context, limit int) ([]domain.DeliveryRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	n := len(j.recs)
	if limit > n {
		limit = n
	}
	out := make([]domain.DeliveryRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, j.recs[i])
	}
	return out, nil
}

// Ping reports that the journal has no durable backend.
func (j *Journal) Ping(context.Context) error {
	return errors.New("not backed by a database")
}
