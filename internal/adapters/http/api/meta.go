// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	explore "github.com/hearlab/audex/internal/explore"
)

// MetaDependencies defines the interface for selection-metadata lookups.
type MetaDependencies interface {
	Explore(ctx context.Context, sel explore.Selection) (explore.Result, error)
}

// MetaHandler handles selection-metadata requests.
type MetaHandler struct {
	deps MetaDependencies
}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler(deps MetaDependencies) *MetaHandler {
	return &MetaHandler{deps: deps}
}

// HandleGetMeta handles GET /api/meta requests: the distinct categories,
// per-ear hearing-loss types and patient IDs that the selection controls
// can offer, computed against the current filter.
func (h *MetaHandler) HandleGetMeta(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_meta"
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
	writeJSON(w, http.StatusOK, res.Meta)
}
