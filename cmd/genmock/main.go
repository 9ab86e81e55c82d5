// Command genmock reads the OpenEI load CSV and writes two JSON fixtures:
// the raw rows as they travel on the source topic, and the sized loads the
// pipeline produces for them. It runs the real domain package with a fixed
// clock so the sized fixture is reproducible.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/openei_loads.csv \
//	  -raw-out data/mock/openei_raw.json \
//	  -sized-out data/mock/openei_sized.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/thermal-storage-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"github.com/couchcryptid/thermal-storage-etl/internal/observability"
	"github.com/couchcryptid/thermal-storage-etl/internal/report"
	"github.com/jonboulle/clockwork"
)

// fixtureTime is the ProcessedAt stamped on every sized fixture row.
var fixtureTime = time.Date(2026, time.January, 15, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "genmock:", err)
		os.Exit(1)
	}
}

func run() error {
	csvPath := flag.String("csv", "data/openei_loads.csv", "OpenEI load CSV")
	rawOut := flag.String("raw-out", "data/mock/openei_raw.json", "output path for raw row fixture")
	sizedOut := flag.String("sized-out", "data/mock/openei_sized.json", "output path for sized load fixture")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, "info", "text")

	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	est, err := domain.NewEstimator(domain.DefaultThermalConfig())
	if err != nil {
		return err
	}

	rows, err := csvsource.ReadAll(context.Background(), *csvPath, logger)
	if err != nil {
		return fmt.Errorf("read %s: %w", *csvPath, err)
	}

	raws := make([]domain.RawLoadRecord, 0, len(rows))
	sized := make([]domain.LocationLoad, 0, len(rows))
	for _, row := range rows {
		var rec domain.RawLoadRecord
		if err := json.Unmarshal(row.Value, &rec); err != nil {
			return fmt.Errorf("row %d: %w", row.Offset, err)
		}
		raws = append(raws, rec)

		load, err := domain.ParseRawEvent(row)
		if err != nil {
			logger.Warn("skipping row", "row", row.Offset, "error", err)
			continue
		}
		sized = append(sized, domain.EnrichLocationLoad(load, est))
	}

	if err := writeJSON(*rawOut, raws); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	logger.Info("wrote raw fixture", "path", *rawOut, "rows", len(raws))

	if err := writeJSON(*sizedOut, sized); err != nil {
		return fmt.Errorf("writing sized fixture: %w", err)
	}
	logger.Info("wrote sized fixture", "path", *sizedOut, "rows", len(sized))

	printStats(sized)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(loads []domain.LocationLoad) {
	s := report.Summarize(loads)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Sites: %d\n", s.Sites)
	fmt.Printf("Storage LOW  m3: mean=%.6f min=%.6f max=%.6f\n", s.StorageLow.Mean, s.StorageLow.Min, s.StorageLow.Max)
	fmt.Printf("Storage HIGH m3: mean=%.6f min=%.6f max=%.6f\n", s.StorageHigh.Mean, s.StorageHigh.Min, s.StorageHigh.Max)
	fmt.Printf("Capacity ratio (avg/peak): %.4f\n", s.CapacityRatio)
	for _, l := range loads {
		fmt.Printf("  %-20s low=%8.1f gal  high=%8.1f gal\n", l.Site, l.Low.StorageGal, l.High.StorageGal)
	}
}
