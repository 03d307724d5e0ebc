// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	explore "github.com/hearlab/audex/internal/explore"
)

// HeatmapDependencies defines the interface for heatmap requests.
type HeatmapDependencies interface {
	Explore(ctx context.Context, sel explore.Selection) (explore.Result, error)
}

// HeatmapHandler handles heatmap requests.
type HeatmapHandler struct {
	deps HeatmapDependencies
}

// NewHeatmapHandler creates a new heatmap handler.
func NewHeatmapHandler(deps HeatmapDependencies) *HeatmapHandler {
	return &HeatmapHandler{deps: deps}
}

// HandleGetHeatmap handles GET /api/heatmap?categories=a,b requests.
func (h *HeatmapHandler) HandleGetHeatmap(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_heatmap"
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
	writeJSON(w, http.StatusOK, res.Heatmap)
}
