// Package ndjson implements a delivery journal backed by a newline-delimited JSON file.
package ndjson

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

const defaultLimit = 50

// Journal appends delivery outcomes to a local file, one JSON object per line.
type Journal struct {
	path string
	mu   sync.Mutex
}

var _ ports.DeliveryJournal = (*Journal)(nil)

// New creates a Journal that appends every outcome to the provided filesystem path.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Record marshals the outcome and appends it under the journal lock.
func (j *Journal) Record(_ context.Context, rec domain.DeliveryRecord) (retErr error) {
	if j == nil || j.path == "" {
		return nil
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal delivery record: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open journal file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close journal file: %w", cerr)
		}
	}()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write journal file: %w", err)
	}
	return nil
}

// Recent reads the journal tail and returns up to limit outcomes, newest first.
// Lines that fail to parse are skipped. A missing file yields an empty result.
func (j *Journal) Recent(_ context.Context, limit int) (_ []domain.DeliveryRecord, retErr error) {
	if j == nil || j.path == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close journal file: %w", cerr)
		}
	}()

	var recs []domain.DeliveryRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var r domain.DeliveryRecord
		if err := json.Unmarshal(line, &r); err != nil {
			continue
		}
		recs = append(recs, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan journal file: %w", err)
	}

	// File order is oldest first, so the tail holds the newest entries.
	if len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	for i, k := 0, len(recs)-1; i < k; i, k = i+1, k-1 {
		recs[i], recs[k] = recs[k], recs[i]
	}
	return recs, nil
}

// Ping verifies the journal file can be opened for append.
func (j *Journal) Ping(context.Context) error {
	if j == nil || j.path == "" {
		return errors.New("journal path not configured")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open journal file: %w", err)
	}
	return f.Close()
}
