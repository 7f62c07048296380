// Command sentinel-server runs the collision-risk HTTP service: catalog,
// analysis engine, archive, and observability in one process.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalsfoundry/collision-sentinel/catalog"
	"github.com/signalsfoundry/collision-sentinel/core"
	"github.com/signalsfoundry/collision-sentinel/internal/api"
	"github.com/signalsfoundry/collision-sentinel/internal/config"
	"github.com/signalsfoundry/collision-sentinel/internal/db"
	"github.com/signalsfoundry/collision-sentinel/internal/logging"
	"github.com/signalsfoundry/collision-sentinel/internal/observability"
	"github.com/signalsfoundry/collision-sentinel/model"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logging.New(logging.Config{}).Error(ctx, "configuration invalid", logging.Err(err))
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.TracingEndpoint,
		SampleRatio: cfg.TracingSampleRatio,
	}, log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		os.Exit(1)
	}

	var archive *db.DB
	if cfg.DBPath != "" {
		archive, err = db.Open(cfg.DBPath)
		if err != nil {
			log.Error(ctx, "failed to open archive", logging.String("path", cfg.DBPath), logging.Err(err))
			os.Exit(1)
		}
		defer archive.Close()
		if err := archive.MigrateUp(cfg.MigrationsDir); err != nil {
			log.Error(ctx, "archive migration failed", logging.Err(err))
			os.Exit(1)
		}
	}

	cat := catalog.New(
		catalog.WithLogger(log),
		catalog.WithMetricsRecorder(collector),
	)
	loadLocalTLEs(ctx, log, cat, cfg.TLEPaths)

	refresher := catalog.NewRefresher(
		cat,
		catalog.NewFetcher(cfg.FetchURL),
		cfg.CelestrakGroups,
		time.Duration(cfg.RefreshIntervalMinutes)*time.Minute,
		log,
	)

	analyzerOpts := []core.AnalyzerOption{
		core.WithLogger(log),
		core.WithMetricsRecorder(collector),
	}
	if cfg.RefineApproach {
		analyzerOpts = append(analyzerOpts, core.WithRefiner(&core.GoldenSectionRefiner{}))
	}
	analyzer := core.NewAnalyzer(cat, analyzerOpts...)

	server := api.NewServer(cfg.Addr, &api.Handlers{
		Analyzer:  analyzer,
		Catalog:   cat,
		Refresher: refresher,
		Archive:   archive,
		Defaults: api.Defaults{
			WindowHours:    cfg.WindowHours,
			StepMinutes:    cfg.StepMinutes,
			AllowSimulated: cfg.AllowSimulated,
		},
		Log: log,
	}, collector, log)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go refresher.Run(runCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-runCtx.Done():
		log.Info(ctx, "shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server exited", logging.Err(err))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "server shutdown failed", logging.Err(err))
	}
}

// loadLocalTLEs seeds the catalog from local TLE files so the service is
// usable before the first remote refresh.
func loadLocalTLEs(ctx context.Context, log logging.Logger, cat *catalog.Catalog, paths []string) {
	var all []model.OrbitalElements
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			log.Warn(ctx, "skipping TLE file", logging.String("path", path), logging.Err(err))
			continue
		}
		els, err := catalog.ParseTLE(f, log)
		f.Close()
		if err != nil {
			log.Warn(ctx, "failed to parse TLE file", logging.String("path", path), logging.Err(err))
			continue
		}
		all = append(all, els...)
	}
	if len(all) == 0 {
		return
	}

	snap := cat.Replace(time.Now().UTC(), all)
	log.Info(ctx, "seeded catalog from local TLE files",
		logging.Int("files", len(paths)),
		logging.Int("objects", snap.Len()),
	)
}
