package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Root48/DataCollectionModule/internal/adapters/budget/lease"
	"github.com/Root48/DataCollectionModule/internal/adapters/http/ginserver"
	"github.com/Root48/DataCollectionModule/internal/adapters/http/ginserver/middlewares"
	"github.com/Root48/DataCollectionModule/internal/adapters/metrics/prom"
	"github.com/Root48/DataCollectionModule/internal/adapters/transmitter/httpjson"
	"github.com/Root48/DataCollectionModule/internal/config"
	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/services/budget"
	"github.com/Root48/DataCollectionModule/internal/services/collection"
	"github.com/Root48/DataCollectionModule/internal/services/sampling"
	"github.com/Root48/DataCollectionModule/pkg/util"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const shutdownGrace = 5 * time.Second

func main() {
	util.PrintBuildInfo(buildVersion, buildDate, buildCommit)

	cfg, err := config.LoadCollectorConfig(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	journal := buildJournal(ctx, cfg, logger)
	probe := buildProbe(cfg)

	source := sampling.New(probe)
	tx := httpjson.New(cfg.Endpoint, nil)
	orch := collection.New(source, tx, journal, collection.WithInterval(cfg.SampleEvery))

	exporter := prom.New(prometheus.DefaultRegisterer)
	orch.ObserveDeliveries(collection.DeliveryObserverFunc(
		func(_ context.Context, rec domain.DeliveryRecord) error {
			exporter.ObserveDelivery(rec)
			return nil
		}))
	detachStatus := orch.ObserveStatus(ctx, collection.StatusObserverFunc(
		func(_ context.Context, st domain.CollectionStatus) error {
			exporter.ObserveStatus(st)
			logger.Info("status",
				zap.String("phase", string(st.Phase)),
				zap.String("message", st.Message),
			)
			return nil
		}))
	defer detachStatus()

	tracker := budget.New(lease.New(lease.WithWindow(cfg.BudgetWindow)))

	h := ginserver.NewHandler(ctx, orch, tracker, journal)
	r := ginserver.NewRouter(h, logger, nil,
		middlewares.ZapLogger(logger),
		middlewares.GzipRequest(),
		middlewares.GzipResponse(),
	)

	log.Printf("cfg: addr=%s endpoint=%s probe=%s interval=%v window=%v dsn=%q file=%q autostart=%v",
		cfg.Address, cfg.Endpoint, cfg.Probe, cfg.SampleEvery, cfg.BudgetWindow, cfg.DSN, cfg.JournalFile, cfg.Autostart)

	if cfg.Autostart {
		orch.Start(ctx)
	}

	srv := &http.Server{Addr: cfg.Address, Handler: r}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	orch.Stop(context.Background())
	tracker.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}
