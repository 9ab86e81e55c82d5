package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	reverseResult GeocodingResult
	reverseErr    error
	forwardCalls  int
	reverseCalls  int
	lastQuery     string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, query string) (GeocodingResult, error) {
	m.forwardCalls++
	m.lastQuery = query
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.reverseCalls++
	return m.reverseResult, m.reverseErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestSiteQuery(t *testing.T) {
	tests := []struct {
		site     string
		expected string
	}{
		{"Boston-Logan", "Boston Logan"},
		{"Minneapolis-St.Paul", "Minneapolis St.Paul"},
		{"  Phoenix  ", "Phoenix"},
		{"Los_Angeles-Intl", "Los Angeles Intl"},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			assert.Equal(t, tt.expected, SiteQuery(tt.site))
		})
	}
}

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	load := LocationLoad{ID: "boston-1", Site: "Boston-Logan"}

	result := EnrichWithGeocoding(context.Background(), load, nil, discardLogger())

	assert.Empty(t, result.GeoSource)
	assert.Empty(t, result.FormattedAddress)
}

func TestEnrichWithGeocoding_ForwardGeocode(t *testing.T) {
	geo := &mockGeocoder{
		forwardResult: GeocodingResult{
			Lat:              42.3656,
			Lon:              -71.0096,
			FormattedAddress: "Logan International Airport, Boston, Massachusetts, United States",
			PlaceName:        "Logan International Airport",
			Confidence:       0.9,
		},
	}

	load := LocationLoad{ID: "boston-1", Site: "Boston-Logan"} // no coordinates → forward geocode

	result := EnrichWithGeocoding(context.Background(), load, geo, discardLogger())

	assert.Equal(t, "Boston Logan", geo.lastQuery)
	assert.Equal(t, 42.3656, result.Geo.Lat)
	assert.Equal(t, -71.0096, result.Geo.Lon)
	assert.Equal(t, "Logan International Airport", result.PlaceName)
	assert.Equal(t, 0.9, result.GeoConfidence)
	assert.Equal(t, GeoSourceForward, result.GeoSource)
	assert.Equal(t, 1, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}

func TestEnrichWithGeocoding_ReverseGeocode(t *testing.T) {
	geo := &mockGeocoder{
		reverseResult: GeocodingResult{
			FormattedAddress: "Boston, Massachusetts, United States",
			PlaceName:        "Boston",
			Confidence:       0.98,
		},
	}

	load := LocationLoad{
		ID:  "boston-2",
		Geo: Geo{Lat: 42.37, Lon: -71.02}, // has coordinates → reverse geocode
	}

	result := EnrichWithGeocoding(context.Background(), load, geo, discardLogger())

	assert.Equal(t, "Boston, Massachusetts, United States", result.FormattedAddress)
	assert.Equal(t, "Boston", result.PlaceName)
	assert.Equal(t, GeoSourceReverse, result.GeoSource)
	assert.Equal(t, 42.37, result.Geo.Lat)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 1, geo.reverseCalls)
}

func TestEnrichWithGeocoding_ForwardError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("API timeout")}

	load := LocationLoad{ID: "boston-3", Site: "Boston-Logan"}

	result := EnrichWithGeocoding(context.Background(), load, geo, discardLogger())

	assert.Equal(t, GeoSourceFailed, result.GeoSource)
	assert.Empty(t, result.FormattedAddress)
	assert.True(t, result.Geo.IsZero())
}

func TestEnrichWithGeocoding_ReverseError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{reverseErr: errors.New("rate limited")}

	load := LocationLoad{ID: "boston-4", Geo: Geo{Lat: 42.37, Lon: -71.02}}

	result := EnrichWithGeocoding(context.Background(), load, geo, discardLogger())

	assert.Equal(t, GeoSourceFailed, result.GeoSource)
	assert.Equal(t, 42.37, result.Geo.Lat) // original coordinates preserved
}

func TestEnrichWithGeocoding_EmptyResults(t *testing.T) {
	t.Run("forward without coordinates", func(t *testing.T) {
		geo := &mockGeocoder{}
		result := EnrichWithGeocoding(context.Background(), LocationLoad{Site: "Nowhere"}, geo, discardLogger())
		assert.Equal(t, GeoSourceOriginal, result.GeoSource)
		assert.True(t, result.Geo.IsZero())
	})

	t.Run("reverse without address", func(t *testing.T) {
		geo := &mockGeocoder{}
		result := EnrichWithGeocoding(context.Background(), LocationLoad{Geo: Geo{Lat: 1, Lon: 1}}, geo, discardLogger())
		assert.Equal(t, GeoSourceOriginal, result.GeoSource)
	})

	t.Run("no site and no coordinates", func(t *testing.T) {
		geo := &mockGeocoder{}
		result := EnrichWithGeocoding(context.Background(), LocationLoad{}, geo, discardLogger())
		assert.Equal(t, GeoSourceOriginal, result.GeoSource)
		assert.Equal(t, 0, geo.forwardCalls)
		assert.Equal(t, 0, geo.reverseCalls)
	})
}
