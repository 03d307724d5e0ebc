package explore

import (
	"time"

	model "github.com/hearlab/audex/internal/domain/model"
	views "github.com/hearlab/audex/internal/domain/views"
)

// RadarMode selects how the radar polygon is built.
type RadarMode string

// Radar modes. Combined plots all six axes from one subject; isolated
// plots a single metric on its two owning axes and zero-fills the rest.
const (
	RadarModeCombined RadarMode = "combined"
	RadarModeIsolated RadarMode = "isolated"
)

// Selection captures one interaction with the explorer: which categories
// are checked, how the summary is grouped, and which radar subject is
// chosen. The zero value means "everything, grouped by category".
type Selection struct {
	// Categories filters the dataset. Nil keeps every record; an empty
	// non-nil slice keeps none.
	Categories []string

	// GroupBy is the summary grouping column: "category" (default) or
	// "hl_type".
	GroupBy string

	// Metrics are the summary metrics. Empty defaults to PTA and WRS.
	Metrics []model.Metric

	// PatientID selects a single-patient radar polygon. Empty plots one
	// polygon per group instead.
	PatientID string

	// RadarGroup narrows the group-polygon radar to one group.
	RadarGroup string

	// RadarMode is combined (default) or isolated.
	RadarMode RadarMode

	// IsolatedMetric is the metric plotted in isolated mode.
	// Empty defaults to PTA.
	IsolatedMetric model.Metric
}

// DatasetInfo describes the snapshot a result was computed from.
type DatasetInfo struct {
	Path     string    `json:"path"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
}

// Meta lists the values the selection controls can take. Categories come
// from the full snapshot so unchecking one never removes it from the
// control; HLTypes and PatientIDs reflect the filtered set.
type Meta struct {
	Categories []string    `json:"categories"`
	HLTypes    []string    `json:"hl_types"`
	PatientIDs []string    `json:"patient_ids"`
	Dataset    DatasetInfo `json:"dataset"`
}

// Result is everything one explorer interaction renders. All views are
// computed from the same immutable snapshot, so they never disagree.
type Result struct {
	Meta    Meta                 `json:"meta"`
	Records *views.TableData     `json:"records"`
	Summary *views.TableData     `json:"summary"`
	Bar     *views.BarConfig     `json:"bar"`
	Radar   *views.RadarConfig   `json:"radar"`
	Heatmap *views.HeatmapConfig `json:"heatmap"`
	Groups  []model.GroupSummary `json:"groups"`

	// Fallback is set when the requested radar patient was not in the
	// filtered set and the first patient was plotted instead.
	Fallback bool `json:"fallback"`

	// Truncated is set when the records table was capped at the
	// configured row limit.
	Truncated bool `json:"truncated"`
}
