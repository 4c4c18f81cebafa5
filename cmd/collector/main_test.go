package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	memjournal "github.com/Root48/DataCollectionModule/internal/adapters/journal/memory"
	"github.com/Root48/DataCollectionModule/internal/adapters/journal/ndjson"
	"github.com/Root48/DataCollectionModule/internal/adapters/probe/sim"
	"github.com/Root48/DataCollectionModule/internal/adapters/probe/sysfs"
	"github.com/Root48/DataCollectionModule/internal/config"
	"github.com/Root48/DataCollectionModule/internal/domain"
)

func TestBuildJournal_FileWhenNoDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.ndjson")
	cfg := config.CollectorConfig{JournalFile: path}

	j := buildJournal(context.Background(), cfg, zap.NewNop())
	if _, ok := j.(*ndjson.Journal); !ok {
		t.Fatalf("journal = %T, want *ndjson.Journal", j)
	}

	rec := domain.DeliveryRecord{ID: "r1", SourceID: "d1", Delivered: true, RecordedAt: time.Now()}
	if err := j.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	recs, err := j.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "r1" {
		t.Errorf("recs = %+v, want the seeded record", recs)
	}
}

func TestBuildJournal_MemoryWhenUnconfigured(t *testing.T) {
	j := buildJournal(context.Background(), config.CollectorConfig{}, zap.NewNop())
	if _, ok := j.(*memjournal.Journal); !ok {
		t.Fatalf("journal = %T, want *memory.Journal", j)
	}
}

func TestBuildProbe_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		probe string
		want  string
	}{
		{"sim", "sim", "*sim.Probe"},
		{"sysfs", "sysfs", "*sysfs.Probe"},
		{"default", "", "*sysfs.Probe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildProbe(config.CollectorConfig{Probe: tt.probe})
			switch tt.want {
			case "*sim.Probe":
				if _, ok := p.(*sim.Probe); !ok {
					t.Errorf("probe = %T, want %s", p, tt.want)
				}
			case "*sysfs.Probe":
				if _, ok := p.(*sysfs.Probe); !ok {
					t.Errorf("probe = %T, want %s", p, tt.want)
				}
			}
		})
	}
}
