package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/thermal-storage-etl/internal/adapter/csvsource"
	httpadapter "github.com/couchcryptid/thermal-storage-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/thermal-storage-etl/internal/adapter/kafka"
	"github.com/couchcryptid/thermal-storage-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/thermal-storage-etl/internal/config"
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"github.com/couchcryptid/thermal-storage-etl/internal/observability"
	"github.com/couchcryptid/thermal-storage-etl/internal/pipeline"
	"github.com/couchcryptid/thermal-storage-etl/internal/report"
	"github.com/couchcryptid/thermal-storage-etl/internal/store"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			slog.Error("invalid thermal configuration", "field", domainErr.Field, "value", domainErr.Value, "reason", domainErr.Reason)
		} else {
			slog.Error("failed to load config", "error", err)
		}
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("sizing run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	estimator, err := domain.NewEstimator(cfg.Thermal)
	if err != nil {
		return err
	}
	logger.Info("thermal configuration",
		"storage_temp_f", cfg.Thermal.StorageTempF,
		"room_temp_f", cfg.Thermal.RoomTempF,
		"delta_t_c", estimator.DeltaT(),
		"interval_hours", cfg.Thermal.StorageIntervalHours,
	)

	// Geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("close error", "error", err)
			}
		}
	}()

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, extractor)

	table := store.NewTable()
	loaders := pipeline.FanOut{table}
	if cfg.KafkaSinkEnabled {
		writer := kafkaadapter.NewWriter(cfg, runID, logger)
		closers = append(closers, writer)
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	}

	transformer, err := pipeline.NewTransformer(estimator, geocoder, logger)
	if err != nil {
		return err
	}
	p := pipeline.New(extractor, transformer, loaders, logger, metrics, cfg.BatchSize)

	opts := report.Options{CapacitySite: cfg.CapacitySite, KBTUFactor: cfg.Thermal.KWhToKBTU}
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, table, opts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline error", "error", err)
	}

	if table.Len() > 0 {
		if err := writeReports(cfg.OutputDir, table.All(), opts, logger); err != nil {
			logger.Error("write reports failed", "error", err)
		}
	} else {
		logger.Warn("no rows loaded, skipping reports")
	}

	if cfg.Source == config.SourceCSV && cfg.ServeAfterRun && ctx.Err() == nil {
		logger.Info("serving results until interrupted", "addr", cfg.HTTPAddr)
		<-ctx.Done()
	}

	logger.Info("shutting down", "rows_loaded", p.Loaded())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

type extractor interface {
	pipeline.BatchExtractor
	io.Closer
}

func newExtractor(cfg *config.Config, logger *slog.Logger) (extractor, error) {
	switch cfg.Source {
	case config.SourceKafka:
		logger.Info("reading from kafka", "topic", cfg.KafkaSourceTopic, "group", cfg.KafkaGroupID)
		return kafkaadapter.NewReader(cfg, logger), nil
	default:
		r, err := csvsource.Open(cfg.CSVPath, logger)
		if err != nil {
			return nil, fmt.Errorf("open source: %w", err)
		}
		logger.Info("reading from csv", "path", cfg.CSVPath)
		return r, nil
	}
}

// writeReports runs detached from the signal context so an interrupted
// Kafka consumer still leaves reports for what it loaded.
func writeReports(dir string, loads []domain.LocationLoad, opts report.Options, logger *slog.Logger) error {
	sink, err := report.NewFileSink(dir, logger)
	if err != nil {
		return err
	}
	return report.Write(context.Background(), sink, loads, opts, logger)
}
