package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrMissingDemand is returned for rows without a usable heat demand.
var ErrMissingDemand = errors.New("missing heat demand")

// slugRe collapses anything that is not a lowercase letter or digit.
var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// clock stamps ProcessedAt on enriched loads. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for enrichment. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// ParseRawEvent deserializes a RawEvent's value into a LocationLoad.
// The site name and both heat demand columns are required; coordinates and
// peak loads default to zero when blank or unparseable.
func ParseRawEvent(raw RawEvent) (LocationLoad, error) {
	var rec RawLoadRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return LocationLoad{}, fmt.Errorf("parse raw event: %w", err)
	}

	site := strings.TrimSpace(rec.City)
	if site == "" {
		return LocationLoad{}, errors.New("parse raw event: missing city")
	}

	low, err := parseDemand(rec.HeatNeedLow)
	if err != nil {
		return LocationLoad{}, fmt.Errorf("parse raw event %q: heat_Need_LOW: %w", site, err)
	}
	high, err := parseDemand(rec.HeatNeedHigh)
	if err != nil {
		return LocationLoad{}, fmt.Errorf("parse raw event %q: heat_Need_HIGH: %w", site, err)
	}

	lat := parseFloatOrZero(rec.Latitude)
	lon := parseFloatOrZero(rec.Longitude)

	return LocationLoad{
		ID:   generateID(site, lat, lon),
		Site: site,
		Geo:  Geo{Lat: lat, Lon: lon},
		Low: Demand{
			HeatNeedKWh: low,
			PeakLoadKW:  parseFloatOrZero(rec.PeakLoadLow),
		},
		High: Demand{
			HeatNeedKWh: high,
			PeakLoadKW:  parseFloatOrZero(rec.PeakLoadHigh),
		},
		RawPayload: raw.Value,
	}, nil
}

// parseDemand parses a required numeric column.
func parseDemand(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingDemand
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, fmt.Errorf("%w: %q", ErrMissingDemand, s)
	}
	return v, nil
}

// parseFloatOrZero parses a string as float64, returning 0 on failure or
// for NaN and infinities.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// generateID produces a deterministic ID from the site and its coordinates,
// e.g. "boston-logan-1f3a9c0d2e4b5a69".
func generateID(site string, lat, lon float64) string {
	input := fmt.Sprintf("%s|%.4f|%.4f", site, lat, lon)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(site), "-"), "-")
	if slug == "" {
		return short
	}
	return slug + "-" + short
}

// EnrichLocationLoad fills the derived sizing columns of both load levels
// and stamps ProcessedAt. Input columns are left untouched.
func EnrichLocationLoad(load LocationLoad, est *Estimator) LocationLoad {
	load.Low = sizeDemand(load.Low, est)
	load.High = sizeDemand(load.High, est)
	load.ProcessedAt = clock.Now()
	return load
}

func sizeDemand(d Demand, est *Estimator) Demand {
	d.StorageM3 = est.Volume(d.HeatNeedKWh)
	d.StorageGal = CubicMetersToGallons(d.StorageM3)
	d.AverageLoadKW = est.AverageLoad(d.HeatNeedKWh)
	return d
}

// SerializeLocationLoad marshals an enriched load for a sink topic, keyed by ID.
func SerializeLocationLoad(load LocationLoad) (OutputEvent, error) {
	data, err := json.Marshal(load)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize location load: %w", err)
	}
	return OutputEvent{
		Key:   []byte(load.ID),
		Value: data,
		Headers: map[string]string{
			"site":         load.Site,
			"processed_at": load.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
