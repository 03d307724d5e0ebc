// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	views "github.com/hearlab/audex/internal/domain/views"
	explore "github.com/hearlab/audex/internal/explore"
)

// RadarDependencies defines the interface for radar chart requests.
type RadarDependencies interface {
	Explore(ctx context.Context, sel explore.Selection) (explore.Result, error)
}

// RadarHandler handles radar chart requests.
type RadarHandler struct {
	deps RadarDependencies
}

// NewRadarHandler creates a new radar handler.
func NewRadarHandler(deps RadarDependencies) *RadarHandler {
	return &RadarHandler{deps: deps}
}

// radarResponse mirrors the OpenAPI schema for GET /api/radar. Fallback
// reports that the requested patient was absent from the filtered set and
// the first available patient was plotted instead.
type radarResponse struct {
	Chart    *views.RadarConfig `json:"chart"`
	Fallback bool               `json:"fallback"`
}

// HandleGetRadar handles GET /api/radar requests. With patient_id one
// patient polygon is plotted; with group one group-mean polygon; with
// neither, one polygon per group. mode=isolated confines the polygon to a
// single metric's axes.
func (h *RadarHandler) HandleGetRadar(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_radar"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Explore(r.Context(), sel)
	if err != nil {
		writePipelineError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, radarResponse{Chart: res.Radar, Fallback: res.Fallback})
}
