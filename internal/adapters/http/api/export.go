// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	explore "github.com/hearlab/audex/internal/explore"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportDependencies defines the interface for summary export.
type ExportDependencies interface {
	ExportSummary(ctx context.Context, sel explore.Selection) ([]byte, error)
}

// ExportHandler handles summary workbook downloads.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExportSummary handles GET /api/export/summary.xlsx requests and
// streams the group-mean summary as an XLSX workbook.
func (h *ExportHandler) HandleExportSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	data, err := h.deps.ExportSummary(r.Context(), sel)
	if err != nil {
		writePipelineError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="summary.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
