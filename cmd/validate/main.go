// Command validate performs end-to-end integrity checks across the OpenEI
// load data: the source CSV, the raw row fixture, and the sized load fixture
// written by genmock. It verifies row parity, re-sizes every row with the
// domain estimator, and checks unit and linearity invariants on the output.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/openei_loads.csv \
//	  -raw-json data/mock/openei_raw.json \
//	  -sized-json data/mock/openei_sized.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/thermal-storage-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"github.com/couchcryptid/thermal-storage-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Scenario used to sanity-check the estimator itself: 10 kWh under the
// default configuration.
const (
	scenarioKWh      = 10.0
	scenarioVolumeM3 = 0.2043
	scenarioTol      = 1e-4
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "data/openei_loads.csv", "OpenEI load CSV")
	rawJSON := flag.String("raw-json", "data/mock/openei_raw.json", "raw row fixture")
	sizedJSON := flag.String("sized-json", "data/mock/openei_sized.json", "sized load fixture")
	flag.Parse()

	if code := run(*csvPath, *rawJSON, *sizedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, rawPath, sizedPath string) int {
	// Same fixed clock as genmock.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.January, 15, 6, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	logger := observability.NewLogger(os.Stderr, "warn", "text")

	fmt.Println("=== Thermal Storage Data Integrity Validation ===")
	fmt.Println()

	rows, err := csvsource.ReadAll(context.Background(), csvPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}
	raws, err := loadJSON[domain.RawLoadRecord](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}
	sized, err := loadJSON[domain.LocationLoad](sizedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load sized JSON: %v\n", err)
		return 1
	}
	est, err := domain.NewEstimator(domain.DefaultThermalConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateEstimator(),
		validateSourceParity(rows, raws),
		validateSizing(raws, sized, est),
		validateInvariants(sized, est.Config()),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d CSV, %d raw JSON, %d sized JSON\n", len(rows), len(raws), len(sized))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 0: Estimator ──

func validateEstimator() *phase {
	p := &phase{name: "Phase 0: Estimator reference scenario"}
	got, err := domain.EstimateVolume(scenarioKWh, domain.DefaultThermalConfig())
	if err != nil {
		p.errorf("default configuration rejected: %v", err)
		return p
	}
	if math.Abs(got-scenarioVolumeM3) > scenarioTol {
		p.errorf("%.1f kWh: got %.6f m3, want %.4f", scenarioKWh, got, scenarioVolumeM3)
	}

	bad := domain.DefaultThermalConfig()
	bad.StorageTempF = bad.RoomTempF
	if _, err := domain.EstimateVolume(scenarioKWh, bad); err == nil {
		p.errorf("storage temperature equal to room temperature was accepted")
	}
	return p
}

// ── Phase 1: Source Parity ──
// The raw fixture must carry every CSV row unchanged.

func validateSourceParity(rows []domain.RawEvent, raws []domain.RawLoadRecord) *phase {
	p := &phase{name: "Phase 1: Source Parity (JSON vs CSV)"}
	if len(rows) != len(raws) {
		p.errorf("CSV has %d rows, raw fixture has %d", len(rows), len(raws))
		return p
	}
	for i, row := range rows {
		var rec domain.RawLoadRecord
		if err := json.Unmarshal(row.Value, &rec); err != nil {
			p.errorf("row %d: decode: %v", row.Offset, err)
			continue
		}
		if rec != raws[i] {
			p.errorf("row %d: CSV=%+v fixture=%+v", row.Offset, rec, raws[i])
		}
	}
	return p
}

// ── Phase 2: Sizing ──
// Re-sizes each raw row and compares it with the fixture.

func validateSizing(raws []domain.RawLoadRecord, sized []domain.LocationLoad, est *domain.Estimator) *phase {
	p := &phase{name: "Phase 2: Sizing (raw vs sized)"}

	byID := make(map[string]*domain.LocationLoad, len(sized))
	for i := range sized {
		if _, dup := byID[sized[i].ID]; dup {
			p.errorf("duplicate ID %q", sized[i].ID)
		}
		byID[sized[i].ID] = &sized[i]
	}

	matched := 0
	for i, rec := range raws {
		value, err := json.Marshal(rec)
		if err != nil {
			p.errorf("raw %d: marshal: %v", i, err)
			continue
		}
		load, err := domain.ParseRawEvent(domain.RawEvent{Value: value})
		if err != nil {
			// genmock skips unparseable rows too.
			continue
		}
		want := domain.EnrichLocationLoad(load, est)
		got, ok := byID[want.ID]
		if !ok {
			p.errorf("%s: missing from sized fixture (id %s)", want.Site, want.ID)
			continue
		}
		matched++
		compareLoads(p, want, got)
	}
	if matched != len(sized) {
		p.errorf("sized fixture has %d rows, only %d derive from raw rows", len(sized), matched)
	}
	return p
}

func compareLoads(p *phase, want domain.LocationLoad, got *domain.LocationLoad) {
	if want.Site != got.Site {
		p.errorf("%s: site=%q", want.ID, got.Site)
	}
	if !floatEq(want.Geo.Lat, got.Geo.Lat) || !floatEq(want.Geo.Lon, got.Geo.Lon) {
		p.errorf("%s: geo=%v, want %v", want.ID, got.Geo, want.Geo)
	}
	for _, level := range []domain.LoadLevel{domain.LoadLow, domain.LoadHigh} {
		w, g := want.Level(level), got.Level(level)
		if !floatEq(w.StorageM3, g.StorageM3) {
			p.errorf("%s %s: storage_m3=%.9f, want %.9f", want.ID, level, g.StorageM3, w.StorageM3)
		}
		if !floatEq(w.AverageLoadKW, g.AverageLoadKW) {
			p.errorf("%s %s: avg_load_kw=%.9f, want %.9f", want.ID, level, g.AverageLoadKW, w.AverageLoadKW)
		}
		if !floatEq(w.PeakLoadKW, g.PeakLoadKW) {
			p.errorf("%s %s: peak_load_kw=%.9f, want %.9f", want.ID, level, g.PeakLoadKW, w.PeakLoadKW)
		}
	}
}

// ── Phase 3: Invariants ──

func validateInvariants(sized []domain.LocationLoad, cfg domain.ThermalConfig) *phase {
	p := &phase{name: "Phase 3: Unit and linearity invariants"}
	for i := range sized {
		l := &sized[i]
		for _, level := range []domain.LoadLevel{domain.LoadLow, domain.LoadHigh} {
			d := l.Level(level)
			if d.HeatNeedKWh >= 0 && d.StorageM3 < 0 {
				p.errorf("%s %s: negative volume %.6f for demand %.3f", l.Site, level, d.StorageM3, d.HeatNeedKWh)
			}
			if !floatEq(d.StorageGal, domain.CubicMetersToGallons(d.StorageM3)) {
				p.errorf("%s %s: storage_gal=%.6f, want m3*%g", l.Site, level, d.StorageGal, domain.GallonsPerCubicMeter)
			}
			if !floatEq(d.AverageLoadKW*cfg.StorageIntervalHours, d.HeatNeedKWh) {
				p.errorf("%s %s: avg_load*interval=%.6f, demand=%.6f", l.Site, level, d.AverageLoadKW*cfg.StorageIntervalHours, d.HeatNeedKWh)
			}
		}
		// Volume is linear in demand, so the high/low ratios must agree.
		if l.Low.HeatNeedKWh > 0 && l.Low.StorageM3 > 0 {
			demandRatio := l.High.HeatNeedKWh / l.Low.HeatNeedKWh
			volumeRatio := l.High.StorageM3 / l.Low.StorageM3
			if math.Abs(demandRatio-volumeRatio) > 1e-9*math.Max(1, demandRatio) {
				p.errorf("%s: volume ratio %.9f != demand ratio %.9f", l.Site, volumeRatio, demandRatio)
			}
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
