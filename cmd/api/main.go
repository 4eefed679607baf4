package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hr-analytics-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/repository/csvstore"
	analyticsService "github.com/cmlabs-hris/hr-analytics-go/internal/service/analytics"
	reportService "github.com/cmlabs-hris/hr-analytics-go/internal/service/report"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFileFlag := flag.String("env-file", ".env", "Path to an optional .env file")
	datasetFlag := flag.String("dataset", "", "Path to the HR CSV (overrides DATASET_PATH)")
	flag.Parse()

	cfg, err := config.Load(*envFileFlag)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if *datasetFlag != "" {
		cfg.Dataset.Path = *datasetFlag
	}

	log := logger.New(logger.Options{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		App:     cfg.App.Name,
		Version: cfg.App.Version,
	})
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	coordinateStore, err := csvstore.NewCoordinateStore(csvstore.CoordinateStoreConfig{
		Logger:       log,
		Source:       cfg.Location.CoordinatesURL,
		CacheTTL:     cfg.Location.CacheTTL,
		FetchTimeout: cfg.Location.FetchTimeout,
		MaxAttempts:  cfg.Location.MaxAttempts,
	})
	if err != nil {
		return fmt.Errorf("error creating coordinate store: %w", err)
	}

	dataset, err := csvstore.NewEmployeeStore(cfg.Dataset.Path, log).Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading dataset: %w", err)
	}
	// Warm-up runs alongside the listener; requests retry the fetch on first use.
	go func() {
		if err := coordinateStore.Warm(ctx); err != nil {
			log.Warn("city coordinates not available at startup", "source", cfg.Location.CoordinatesURL, "error", err)
		}
	}()
	metrics.DatasetRecords.Set(float64(dataset.Len()))

	scheduler := cron.NewScheduler(log, nil)
	if cfg.Location.RefreshInterval > 0 {
		scheduler.AddJob("refresh-city-coordinates", cfg.Location.RefreshInterval, coordinateStore.Refresh)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	analyticsSvc := analyticsService.NewAnalyticsService(dataset, coordinateStore, log)
	reportSvc := reportService.NewReportService(dataset, log)

	analyticsHandler := appHTTP.NewAnalyticsHandler(analyticsSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         log,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		analyticsHandler,
		reportHandler,
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "address", server.Addr, "records", dataset.Len(), "dataset_id", dataset.ID())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down, draining connections", "timeout", shutdownTimeout)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil
	})
	return g.Wait()
}
