package domain

import (
	"context"
	"time"
)

// RawLoadRecord is one OpenEI row as flat JSON. Keys keep the dataset's
// column names so rows can be replayed verbatim from the CSV header.
type RawLoadRecord struct {
	City         string `json:"city"`
	Latitude     string `json:"Latitude"`
	Longitude    string `json:"Longitude"`
	HeatNeedLow  string `json:"heat_Need_LOW[kWh]"`
	HeatNeedHigh string `json:"heat_Need_HIGH[kWh]"`
	PeakLoadLow  string `json:"peakLoad_LOW[kW]"`
	PeakLoadHigh string `json:"peakLoad_HIGH[kW]"`
}

// RawEvent represents an unprocessed row from a source.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether no coordinates were supplied.
func (g Geo) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// LoadLevel selects one of the two residential building variants.
type LoadLevel string

const (
	LoadLow  LoadLevel = "low"
	LoadHigh LoadLevel = "high"
)

// Demand holds the per-level inputs and their derived sizing columns.
type Demand struct {
	HeatNeedKWh   float64 `json:"heat_need_kwh"`
	PeakLoadKW    float64 `json:"peak_load_kw"`
	StorageM3     float64 `json:"storage_m3"`
	StorageGal    float64 `json:"storage_gal"`
	AverageLoadKW float64 `json:"avg_load_kw"`
}

// LocationLoad is one site after parsing and, once enriched, sizing.
type LocationLoad struct {
	ID   string `json:"id"`
	Site string `json:"site"`
	Geo  Geo    `json:"geo"`
	Low  Demand `json:"low"`
	High Demand `json:"high"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Level returns the demand for the given building variant.
func (l LocationLoad) Level(level LoadLevel) Demand {
	if level == LoadHigh {
		return l.High
	}
	return l.Low
}

// OutputEvent is the serialized form destined for a sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
