// Package http serves the sized location table, its charts, and the
// service's health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"github.com/couchcryptid/thermal-storage-etl/internal/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TableReader supplies snapshots of the enriched table.
type TableReader interface {
	All() []domain.LocationLoad
}

// Server exposes the table API alongside /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	table      TableReader
	opts       report.Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server. opts supplies the default capacity
// site and the kBTU factor for chart endpoints.
func NewServer(addr string, ready sharedobs.ReadinessChecker, table TableReader, opts report.Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		table:  table,
		opts:   opts,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/sites", s.handleSites)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/charts/storage", s.handleStorageChart)
	mux.HandleFunc("GET /api/v1/charts/map", s.handleStorageMap)
	mux.HandleFunc("GET /api/v1/charts/capacity", s.handleCapacityChart)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	loads := s.table.All()
	if site := r.URL.Query().Get("site"); site != "" {
		filtered := loads[:0]
		for _, l := range loads {
			if l.Site == site {
				filtered = append(filtered, l)
			}
		}
		loads = filtered
	}
	sharedobs.WriteJSON(w, http.StatusOK, loads)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, report.Summarize(s.table.All()))
}

func (s *Server) handleStorageChart(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, report.BuildStorageBars(s.table.All()).Figure())
}

func (s *Server) handleStorageMap(w http.ResponseWriter, _ *http.Request) {
	fc := report.BuildStorageMap(s.table.All()).FeatureCollection()
	data, err := json.Marshal(fc)
	if err != nil {
		s.logger.Error("encode storage map", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "encode map"})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleCapacityChart(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")
	if site == "" {
		site = s.opts.CapacitySite
	}
	chart, err := report.BuildCapacityComparison(s.table.All(), site, s.opts.KBTUFactor)
	if errors.Is(err, report.ErrUnknownSite) {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, chart.Figure())
}
