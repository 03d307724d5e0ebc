// Package views turns aggregation output into render-ready table and chart
// configurations. Builders hold no state between renders; the browser page
// (or any other frontend) draws whatever these structs describe.
package views

import (
	"fmt"
	"strings"
)

// Column describes one table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text" or "number"
	Align string `json:"align"` // "left" or "right"
}

// TableData is a displayable grid: faithful rows and columns, nothing more.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChartPoint is a single labeled value in a chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is one named series of points.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// BarConfig describes a grouped bar chart: one cluster per group, one bar
// per metric within the cluster.
type BarConfig struct {
	Title         string        `json:"title"`
	XAxis         string        `json:"xAxis"`
	YAxis         string        `json:"yAxis"`
	RotateXLabels bool          `json:"rotateXLabels"`
	Series        []ChartSeries `json:"series"`
	Colors        []string      `json:"colors"`
}

// RadarScale bounds the radial axis. Two presets exist because both the
// full clinical scale and a demo-zoomed scale are legitimate presentation
// modes.
type RadarScale struct {
	Name  string    `json:"name"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	Ticks []float64 `json:"ticks"`
}

// Radar scale preset names.
const (
	ScaleClinical = "clinical"
	ScaleDemo     = "demo"
)

// ClinicalScale covers the full audiometric range, 0–110 dB HL.
func ClinicalScale() RadarScale {
	return RadarScale{Name: ScaleClinical, Min: 0, Max: 110, Ticks: []float64{20, 40, 60, 80, 100}}
}

// DemoScale zooms into the 10–60 dB HL band used by the demo dataset.
func DemoScale() RadarScale {
	return RadarScale{Name: ScaleDemo, Min: 10, Max: 60, Ticks: []float64{10, 20, 30, 40, 50, 60}}
}

// ParseRadarScale resolves a configured scale name to its preset.
func ParseRadarScale(name string) (RadarScale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScaleClinical:
		return ClinicalScale(), nil
	case ScaleDemo:
		return DemoScale(), nil
	}
	return RadarScale{}, fmt.Errorf("unknown radar scale: %q", name)
}

// RadarSeries is one closed polygon on the radar chart.
type RadarSeries struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`
}

// RadarConfig describes a radar chart over the six fixed angular axes.
type RadarConfig struct {
	Title      string        `json:"title"`
	AxisLabels []string      `json:"axisLabels"`
	Angles     []float64     `json:"angles"`
	Scale      RadarScale    `json:"scale"`
	Series     []RadarSeries `json:"series"`
}

// HeatmapConfig describes the groups × metrics matrix as a color-encoded
// grid. All cells share one color scale spanning [Min, Max].
type HeatmapConfig struct {
	Title     string      `json:"title"`
	RowLabels []string    `json:"rowLabels"`
	ColLabels []string    `json:"colLabels"`
	Values    [][]float64 `json:"values"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	Colormap  string      `json:"colormap"`
	Annotated bool        `json:"annotated"`
}

// palette is the default series color cycle.
var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func colorAt(i int) string {
	return palette[i%len(palette)]
}
