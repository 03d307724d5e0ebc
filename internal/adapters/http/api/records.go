// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	views "github.com/hearlab/audex/internal/domain/views"
	explore "github.com/hearlab/audex/internal/explore"
)

// RecordsDependencies defines the interface for record-table lookups.
type RecordsDependencies interface {
	Explore(ctx context.Context, sel explore.Selection) (explore.Result, error)
}

// RecordsHandler handles filtered record-table requests.
type RecordsHandler struct {
	deps RecordsDependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps RecordsDependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// recordsResponse mirrors the OpenAPI schema for GET /api/records.
type recordsResponse struct {
	Table     *views.TableData `json:"table"`
	Truncated bool             `json:"truncated"`
}

// HandleGetRecords handles GET /api/records?categories=a,b requests.
func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_records"
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
	writeJSON(w, http.StatusOK, recordsResponse{Table: res.Records, Truncated: res.Truncated})
}
