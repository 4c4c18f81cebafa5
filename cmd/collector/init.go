package main

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	memjournal "github.com/Root48/DataCollectionModule/internal/adapters/journal/memory"
	"github.com/Root48/DataCollectionModule/internal/adapters/journal/ndjson"
	pgjournal "github.com/Root48/DataCollectionModule/internal/adapters/journal/postgres"
	"github.com/Root48/DataCollectionModule/internal/adapters/probe/sim"
	"github.com/Root48/DataCollectionModule/internal/adapters/probe/sysfs"
	"github.com/Root48/DataCollectionModule/internal/config"
	"github.com/Root48/DataCollectionModule/internal/misc"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

// buildJournal picks the delivery journal backend: Postgres when a DSN is
// configured and reachable, otherwise the NDJSON file, otherwise memory.
func buildJournal(ctx context.Context, cfg config.CollectorConfig, logger *zap.Logger) ports.DeliveryJournal {
	if cfg.DSN != "" {
		db, err := sql.Open("postgres", cfg.DSN)
		if err == nil {
			op := func() error {
				if err := db.PingContext(ctx); err != nil {
					return err
				}
				return pgjournal.Migrate(db)
			}
			if err = misc.Retry(ctx, misc.DefaultBackoff, pgjournal.IsRetryable, op); err == nil {
				logger.Info("db connected & migrated")
				return pgjournal.New(db)
			}
		}
		logger.Warn("postgres init failed, falling back", zap.Error(err))
	}
	if cfg.JournalFile != "" {
		logger.Info("journaling deliveries to file", zap.String("file", cfg.JournalFile))
		return ndjson.New(cfg.JournalFile)
	}
	return memjournal.New()
}

// buildProbe picks the telemetry source configured by -p/PROBE.
func buildProbe(cfg config.CollectorConfig) ports.PowerProbe {
	if cfg.Probe == "sim" {
		return sim.New()
	}
	return sysfs.New()
}
