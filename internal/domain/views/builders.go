package views

import (
	"strconv"

	model "github.com/hearlab/audex/internal/domain/model"
)

// BuildRecordsTable renders audiogram records as a grid, one row per
// record, all schema columns. Zero records produce an empty grid with the
// header intact.
func BuildRecordsTable(title string, records []model.AudiogramRecord) *TableData {
	cols := []Column{
		{Key: "patient_id", Label: "PatientID", Type: "text", Align: "left"},
		{Key: "category", Label: "Category", Type: "text", Align: "left"},
		{Key: "hl_type_right", Label: "HL_Type_Right", Type: "text", Align: "left"},
		{Key: "hl_type_left", Label: "HL_Type_Left", Type: "text", Align: "left"},
		{Key: "pta_right", Label: "PTA_Right", Type: "number", Align: "right"},
		{Key: "pta_left", Label: "PTA_Left", Type: "number", Align: "right"},
		{Key: "srt_right", Label: "SRT_Right", Type: "number", Align: "right"},
		{Key: "srt_left", Label: "SRT_Left", Type: "number", Align: "right"},
		{Key: "sdt_right", Label: "SDT_Right", Type: "number", Align: "right"},
		{Key: "sdt_left", Label: "SDT_Left", Type: "number", Align: "right"},
		{Key: "wrs_right", Label: "WRS_Right", Type: "number", Align: "right"},
		{Key: "wrs_left", Label: "WRS_Left", Type: "number", Align: "right"},
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.PatientID, r.Category, r.HLTypeRight, r.HLTypeLeft,
			formatNum(r.PTARight), formatNum(r.PTALeft),
			formatNum(r.SRTRight), formatNum(r.SRTLeft),
			formatNum(r.SDTRight), formatNum(r.SDTLeft),
			formatNum(r.WRSRight), formatNum(r.WRSLeft),
		})
	}
	return &TableData{Title: title, Columns: cols, Rows: rows}
}

// BuildSummaryTable renders group summaries as a grid: one row per group,
// one column per metric in the given order, plus the contributing count.
func BuildSummaryTable(title, groupLabel string, sums []model.GroupSummary, metricCols []string) *TableData {
	cols := make([]Column, 0, len(metricCols)+2)
	cols = append(cols, Column{Key: "group", Label: groupLabel, Type: "text", Align: "left"})
	for _, m := range metricCols {
		cols = append(cols, Column{Key: m, Label: m, Type: "number", Align: "right"})
	}
	cols = append(cols, Column{Key: "count", Label: "N", Type: "number", Align: "right"})

	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		row := make([]string, 0, len(cols))
		row = append(row, s.Group)
		for _, m := range metricCols {
			row = append(row, formatNum(s.Means[m]))
		}
		row = append(row, strconv.Itoa(s.Count))
		rows = append(rows, row)
	}
	return &TableData{Title: title, Columns: cols, Rows: rows}
}

// BuildGroupedBar renders group summaries as a grouped bar chart. Each
// metric becomes a series; each group becomes a cluster on the x axis.
// The y axis is labeled in dB HL and x labels are rotated for legibility.
func BuildGroupedBar(title string, sums []model.GroupSummary, metricCols []string) *BarConfig {
	cfg := &BarConfig{
		Title:         title,
		XAxis:         "Group",
		YAxis:         "dB HL",
		RotateXLabels: true,
		Series:        make([]ChartSeries, 0, len(metricCols)),
	}
	for i, m := range metricCols {
		points := make([]ChartPoint, 0, len(sums))
		for _, s := range sums {
			points = append(points, ChartPoint{Label: s.Group, Value: s.Means[m]})
		}
		cfg.Series = append(cfg.Series, ChartSeries{Name: m, Data: points, Color: colorAt(i)})
		cfg.Colors = append(cfg.Colors, colorAt(i))
	}
	return cfg
}

// BuildRadarChart wraps one or more closed polygons with the fixed axis
// labels and the configured radial scale.
func BuildRadarChart(title string, vectors []model.RadarVector, scale RadarScale) *RadarConfig {
	cfg := &RadarConfig{
		Title:      title,
		AxisLabels: model.RadarAxes,
		Scale:      scale,
		Series:     make([]RadarSeries, 0, len(vectors)),
	}
	for i, v := range vectors {
		if cfg.Angles == nil {
			cfg.Angles = v.Angles
		}
		cfg.Series = append(cfg.Series, RadarSeries{Label: v.Label, Values: v.Values, Color: colorAt(i)})
	}
	return cfg
}

// BuildHeatmap renders the groups × metrics summary matrix with a single
// colormap and one shared color scale across all cells.
func BuildHeatmap(title string, sums []model.GroupSummary, metricCols []string) *HeatmapConfig {
	cfg := &HeatmapConfig{
		Title:     title,
		ColLabels: metricCols,
		Colormap:  "viridis",
		Annotated: true,
	}
	first := true
	for _, s := range sums {
		cfg.RowLabels = append(cfg.RowLabels, s.Group)
		row := make([]float64, 0, len(metricCols))
		for _, m := range metricCols {
			v := s.Means[m]
			row = append(row, v)
			if first || v < cfg.Min {
				cfg.Min = v
			}
			if first || v > cfg.Max {
				cfg.Max = v
			}
			first = false
		}
		cfg.Values = append(cfg.Values, row)
	}
	return cfg
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
