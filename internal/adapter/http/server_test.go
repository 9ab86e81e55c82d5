package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/thermal-storage-etl/internal/adapter/http"
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"github.com/couchcryptid/thermal-storage-etl/internal/report"
	"github.com/couchcryptid/thermal-storage-etl/internal/store"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func testTable(t *testing.T) *store.Table {
	t.Helper()
	tbl := store.NewTable()
	require.NoError(t, tbl.LoadBatch(context.Background(), []domain.LocationLoad{
		{
			ID:   "boston-logan-1",
			Site: "Boston-Logan",
			Geo:  domain.Geo{Lat: 42.367, Lon: -71.017},
			Low:  domain.Demand{StorageM3: 2.3, StorageGal: 607.2, PeakLoadKW: 8, AverageLoadKW: 4.68},
			High: domain.Demand{StorageM3: 3.8, StorageGal: 1003.2, PeakLoadKW: 12, AverageLoadKW: 7.76},
		},
		{
			ID:   "miami-1",
			Site: "Miami",
			Geo:  domain.Geo{Lat: 25.79, Lon: -80.32},
			Low:  domain.Demand{StorageM3: 0.2, StorageGal: 52.8},
			High: domain.Demand{StorageM3: 0.4, StorageGal: 105.6},
		},
	}))
	return tbl
}

func newTestServer(t *testing.T, readyErr error) *httpadapter.Server {
	t.Helper()
	opts := report.Options{CapacitySite: "Boston-Logan", KBTUFactor: 3.41214}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, testTable(t), opts, logger)
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(t, nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(t, nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(t, fmt.Errorf("pipeline has not loaded any rows yet")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "pipeline has not loaded any rows yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(t, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSitesEndpoint(t *testing.T) {
	rec := get(newTestServer(t, nil), "/api/v1/sites")

	require.Equal(t, http.StatusOK, rec.Code)
	var loads []domain.LocationLoad
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loads))
	require.Len(t, loads, 2)
	assert.Equal(t, "Boston-Logan", loads[0].Site)
	assert.Equal(t, 607.2, loads[0].Low.StorageGal)
}

func TestSitesEndpoint_FilterBySite(t *testing.T) {
	rec := get(newTestServer(t, nil), "/api/v1/sites?site=Miami")

	require.Equal(t, http.StatusOK, rec.Code)
	var loads []domain.LocationLoad
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loads))
	require.Len(t, loads, 1)
	assert.Equal(t, "Miami", loads[0].Site)
}

func TestSummaryEndpoint(t *testing.T) {
	rec := get(newTestServer(t, nil), "/api/v1/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	var s report.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 2, s.Sites)
	assert.InDelta(t, 3.8, s.StorageHigh.Max, 1e-9)
}

func TestStorageChartEndpoint(t *testing.T) {
	rec := get(newTestServer(t, nil), "/api/v1/charts/storage")

	require.Equal(t, http.StatusOK, rec.Code)
	var fig report.Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	require.Len(t, fig.Data, 2)
	assert.Equal(t, report.SeriesLowStorage, fig.Data[0]["name"])
}

func TestStorageMapEndpoint(t *testing.T) {
	rec := get(newTestServer(t, nil), "/api/v1/charts/map")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
}

func TestCapacityChartEndpoint_DefaultSite(t *testing.T) {
	rec := get(newTestServer(t, nil), "/api/v1/charts/capacity")

	require.Equal(t, http.StatusOK, rec.Code)
	var fig report.Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	require.Len(t, fig.Data, 2)
	assert.Equal(t, []any{"Boston-Logan Low Load", "Boston-Logan High Load"}, fig.Data[0]["x"])
}

func TestCapacityChartEndpoint_UnknownSite(t *testing.T) {
	rec := get(newTestServer(t, nil), "/api/v1/charts/capacity?site=Atlantis")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Atlantis")
}
