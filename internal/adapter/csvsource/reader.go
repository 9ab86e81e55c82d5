// Package csvsource extracts OpenEI load rows from a CSV file.
package csvsource

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
)

// Column names of the OpenEI extract.
const (
	ColCity         = "city"
	ColLatitude     = "Latitude"
	ColLongitude    = "Longitude"
	ColHeatNeedLow  = "heat_Need_LOW[kWh]"
	ColHeatNeedHigh = "heat_Need_HIGH[kWh]"
	ColPeakLoadLow  = "peakLoad_LOW[kW]"
	ColPeakLoadHigh = "peakLoad_HIGH[kW]"
)

// requiredColumns must appear in the header; the rest are optional.
var requiredColumns = []string{ColCity, ColHeatNeedLow, ColHeatNeedHigh}

// Reader streams rows from an OpenEI CSV file.
// It implements pipeline.BatchExtractor and returns io.EOF when drained.
type Reader struct {
	file   io.Closer
	csv    *csv.Reader
	colIdx map[string]int
	source string
	row    int64
	logger *slog.Logger
}

// Open opens path and reads its header.
func Open(path string, logger *slog.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open load csv: %w", err)
	}
	r, err := NewReader(f, path, logger)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads the header from r. source names the input in logs and
// RawEvent.Topic.
func NewReader(r io.Reader, source string, logger *slog.Logger) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read load csv header: empty file")
		}
		return nil, fmt.Errorf("read load csv header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		// Spreadsheet exports sometimes prefix the first column with a BOM.
		colIdx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("read load csv header: missing column %q", c)
		}
	}

	return &Reader{csv: cr, colIdx: colIdx, source: source, logger: logger}, nil
}

// ExtractBatch returns up to batchSize rows. The final rows may arrive
// together with io.EOF. Lines that are not valid CSV are logged and skipped.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	batch := make([]domain.RawEvent, 0, batchSize)
	for len(batch) < batchSize {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		fields, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return batch, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.row++
			r.logger.Warn("skipping malformed csv line",
				"source", r.source, "line", parseErr.Line, "error", parseErr.Err)
			continue
		}
		if err != nil {
			return batch, fmt.Errorf("read load csv row %d: %w", r.row+1, err)
		}
		r.row++

		if isBlank(fields) {
			continue
		}

		raw, err := r.toRawEvent(fields)
		if err != nil {
			return batch, err
		}
		batch = append(batch, raw)
	}
	return batch, nil
}

func (r *Reader) toRawEvent(fields []string) (domain.RawEvent, error) {
	rec := domain.RawLoadRecord{
		City:         r.get(fields, ColCity),
		Latitude:     r.get(fields, ColLatitude),
		Longitude:    r.get(fields, ColLongitude),
		HeatNeedLow:  r.get(fields, ColHeatNeedLow),
		HeatNeedHigh: r.get(fields, ColHeatNeedHigh),
		PeakLoadLow:  r.get(fields, ColPeakLoadLow),
		PeakLoadHigh: r.get(fields, ColPeakLoadHigh),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.RawEvent{}, fmt.Errorf("marshal load row %d: %w", r.row, err)
	}
	return domain.RawEvent{
		Key:    []byte(rec.City),
		Value:  data,
		Topic:  r.source,
		Offset: r.row,
	}, nil
}

func (r *Reader) get(fields []string, col string) string {
	i, ok := r.colIdx[col]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// Rows returns the number of data rows read so far.
func (r *Reader) Rows() int64 {
	return r.row
}

// Close releases the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	r.logger.Debug("load csv closed", "source", r.source, "rows", r.row)
	return r.file.Close()
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ReadAll drains the file at path into memory.
func ReadAll(ctx context.Context, path string, logger *slog.Logger) ([]domain.RawEvent, error) {
	r, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var all []domain.RawEvent
	for {
		batch, err := r.ExtractBatch(ctx, 256)
		all = append(all, batch...)
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
