// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	repository "github.com/hearlab/audex/internal/adapters/repository"
	model "github.com/hearlab/audex/internal/domain/model"
	explore "github.com/hearlab/audex/internal/explore"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the pipeline implementation.
type Dependencies interface {
	// Explore runs the full pipeline for one interaction.
	Explore(ctx context.Context, sel explore.Selection) (explore.Result, error)

	// ExportSummary serializes the group-mean summary as an XLSX workbook.
	ExportSummary(ctx context.Context, sel explore.Selection) ([]byte, error)
}

// Server wires HTTP routes for the explorer API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	metaHandler    *MetaHandler
	recordsHandler *RecordsHandler
	summaryHandler *SummaryHandler
	radarHandler   *RadarHandler
	heatmapHandler *HeatmapHandler
	exportHandler  *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		metaHandler:    NewMetaHandler(deps),
		recordsHandler: NewRecordsHandler(deps),
		summaryHandler: NewSummaryHandler(deps),
		radarHandler:   NewRadarHandler(deps),
		heatmapHandler: NewHeatmapHandler(deps),
		exportHandler:  NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/meta", MetricsMiddleware(s.metaHandler.HandleGetMeta, "meta"))
	mux.HandleFunc("/api/records", MetricsMiddleware(s.recordsHandler.HandleGetRecords, "records"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/api/radar", MetricsMiddleware(s.radarHandler.HandleGetRadar, "radar"))
	mux.HandleFunc("/api/heatmap", MetricsMiddleware(s.heatmapHandler.HandleGetHeatmap, "heatmap"))
	mux.HandleFunc("/api/export/summary.xlsx", MetricsMiddleware(s.exportHandler.HandleExportSummary, "export"))
}

// parseSelection extracts the explorer selection from query parameters.
// An absent categories parameter keeps every record; a present-but-empty
// one keeps none, mirroring an unchecked multi-select.
func parseSelection(q url.Values) (explore.Selection, error) {
	sel := explore.Selection{
		GroupBy:    q.Get("group_by"),
		PatientID:  q.Get("patient_id"),
		RadarGroup: q.Get("group"),
	}

	if q.Has("categories") {
		sel.Categories = splitList(q.Get("categories"))
	}
	if q.Has("metrics") {
		for _, raw := range splitList(q.Get("metrics")) {
			m, err := parseMetric(raw)
			if err != nil {
				return explore.Selection{}, err
			}
			sel.Metrics = append(sel.Metrics, m)
		}
	}

	switch mode := q.Get("mode"); mode {
	case "", string(explore.RadarModeCombined):
	case string(explore.RadarModeIsolated):
		sel.RadarMode = explore.RadarModeIsolated
		if q.Has("metric") {
			m, err := parseMetric(q.Get("metric"))
			if err != nil {
				return explore.Selection{}, err
			}
			sel.IsolatedMetric = m
		}
	default:
		return explore.Selection{}, errors.New("unknown radar mode: " + mode)
	}

	return sel, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseMetric(raw string) (model.Metric, error) {
	switch model.Metric(strings.ToUpper(strings.TrimSpace(raw))) {
	case model.MetricPTA:
		return model.MetricPTA, nil
	case model.MetricSRT:
		return model.MetricSRT, nil
	case model.MetricSDT:
		return model.MetricSDT, nil
	case model.MetricWRS:
		return model.MetricWRS, nil
	}
	return "", errors.New("unknown metric: " + raw)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writePipelineError translates pipeline errors to HTTP statuses: bad
// selections are the caller's fault, a missing snapshot means the service
// is not ready yet, everything else is internal.
func writePipelineError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, explore.ErrBadSelection):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, explore.ErrNotStarted), errors.Is(err, repository.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
