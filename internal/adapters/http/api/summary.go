// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	model "github.com/hearlab/audex/internal/domain/model"
	views "github.com/hearlab/audex/internal/domain/views"
	explore "github.com/hearlab/audex/internal/explore"
)

// SummaryDependencies defines the interface for group-mean summaries.
type SummaryDependencies interface {
	Explore(ctx context.Context, sel explore.Selection) (explore.Result, error)
}

// SummaryHandler handles group-mean summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// summaryResponse mirrors the OpenAPI schema for GET /api/summary.
type summaryResponse struct {
	Table  *views.TableData     `json:"table"`
	Chart  *views.BarConfig     `json:"chart"`
	Groups []model.GroupSummary `json:"groups"`
}

// HandleGetSummary handles GET /api/summary requests. The group_by
// parameter selects the grouping column (category or hl_type) and
// metrics narrows the averaged columns.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
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
	writeJSON(w, http.StatusOK, summaryResponse{Table: res.Summary, Chart: res.Bar, Groups: res.Groups})
}
