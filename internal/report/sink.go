package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
)

// Chart file names written by Write.
const (
	StorageChartName  = "storage_volume"
	MapChartName      = "storage_map"
	CapacityChartName = "capacity_comparison"
	SummaryName       = "summary"
)

// Sink receives finished charts.
type Sink interface {
	Bar(ctx context.Context, name string, chart BarChart) error
	Scatter(ctx context.Context, name string, chart MapChart) error
	Summary(ctx context.Context, name string, summary Summary) error
}

// Options selects report content that depends on configuration.
type Options struct {
	CapacitySite string
	KBTUFactor   float64
}

// Write builds every chart and the summary from loads and hands them to sink.
// The capacity chart is skipped with a warning when the site is absent so the
// remaining outputs are still produced.
func Write(ctx context.Context, sink Sink, loads []domain.LocationLoad, opts Options, logger *slog.Logger) error {
	if err := sink.Bar(ctx, StorageChartName, BuildStorageBars(loads)); err != nil {
		return err
	}
	if err := sink.Scatter(ctx, MapChartName, BuildStorageMap(loads)); err != nil {
		return err
	}
	capacity, err := BuildCapacityComparison(loads, opts.CapacitySite, opts.KBTUFactor)
	if err != nil {
		logger.Warn("skipping capacity chart", "error", err)
	} else if err := sink.Bar(ctx, CapacityChartName, capacity); err != nil {
		return err
	}
	return sink.Summary(ctx, SummaryName, Summarize(loads))
}

// FileSink writes Plotly figure JSON per chart, a GeoJSON FeatureCollection
// for maps, and the summary as plain JSON into a directory.
type FileSink struct {
	dir    string
	logger *slog.Logger
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string, logger *slog.Logger) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

func (s *FileSink) Bar(_ context.Context, name string, chart BarChart) error {
	return s.writeJSON(name+".json", chart.Figure())
}

func (s *FileSink) Scatter(_ context.Context, name string, chart MapChart) error {
	if err := s.writeJSON(name+".json", chart.Figure()); err != nil {
		return err
	}
	return s.writeJSON(name+".geojson", chart.FeatureCollection())
}

func (s *FileSink) Summary(_ context.Context, name string, summary Summary) error {
	return s.writeJSON(name+".json", summary)
}

func (s *FileSink) writeJSON(file string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", file, err)
	}
	path := filepath.Join(s.dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	s.logger.Info("wrote report", "path", path)
	return nil
}
