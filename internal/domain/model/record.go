// Package model contains domain models passed between layers.
package model

import "fmt"

// Ear identifies which ear a measurement belongs to.
type Ear string

// Ear values as they appear in derived per-ear rows.
const (
	EarRight Ear = "Right"
	EarLeft  Ear = "Left"
)

// Metric identifies an audiometric measurement column.
type Metric string

// Metrics recorded per ear. PTA, SRT and SDT are thresholds in dB HL;
// WRS is a percentage.
const (
	MetricPTA Metric = "PTA"
	MetricSRT Metric = "SRT"
	MetricSDT Metric = "SDT"
	MetricWRS Metric = "WRS"
)

// Grouping column names accepted by the aggregation pipeline.
const (
	GroupByCategory = "category"
	GroupByHLType   = "hl_type"
)

// AudiogramRecord is one row of the structured audiogram dataset:
// one patient-test event with per-ear thresholds. Hearing-loss etiology
// (HLType) is tracked per ear since ears can have independent etiologies.
type AudiogramRecord struct {
	PatientID   string  `json:"patient_id"`
	Category    string  `json:"category"`
	HLTypeRight string  `json:"hl_type_right"`
	HLTypeLeft  string  `json:"hl_type_left"`
	PTARight    float64 `json:"pta_right"`
	PTALeft     float64 `json:"pta_left"`
	SRTRight    float64 `json:"srt_right"`
	SRTLeft     float64 `json:"srt_left"`
	SDTRight    float64 `json:"sdt_right"`
	SDTLeft     float64 `json:"sdt_left"`
	WRSRight    float64 `json:"wrs_right"`
	WRSLeft     float64 `json:"wrs_left"`
}

// Value returns the measurement for a metric/ear combination.
// Unknown combinations return an error rather than a silent zero, since
// 0 dB HL is a valid clinical reading.
func (r AudiogramRecord) Value(m Metric, e Ear) (float64, error) {
	switch {
	case m == MetricPTA && e == EarRight:
		return r.PTARight, nil
	case m == MetricPTA && e == EarLeft:
		return r.PTALeft, nil
	case m == MetricSRT && e == EarRight:
		return r.SRTRight, nil
	case m == MetricSRT && e == EarLeft:
		return r.SRTLeft, nil
	case m == MetricSDT && e == EarRight:
		return r.SDTRight, nil
	case m == MetricSDT && e == EarLeft:
		return r.SDTLeft, nil
	case m == MetricWRS && e == EarRight:
		return r.WRSRight, nil
	case m == MetricWRS && e == EarLeft:
		return r.WRSLeft, nil
	}
	return 0, fmt.Errorf("unknown metric/ear combination: %s/%s", m, e)
}

// HLType returns the hearing-loss etiology for the given ear.
func (r AudiogramRecord) HLType(e Ear) string {
	if e == EarLeft {
		return r.HLTypeLeft
	}
	return r.HLTypeRight
}

// EarRecord is the long-form derivative of an AudiogramRecord: one row per
// ear, carrying that ear's own etiology. Created transiently during
// aggregation, never persisted.
type EarRecord struct {
	PatientID string  `json:"patient_id"`
	Ear       Ear     `json:"ear"`
	Category  string  `json:"category"`
	HLType    string  `json:"hl_type"`
	PTA       float64 `json:"pta"`
	SRT       float64 `json:"srt"`
	SDT       float64 `json:"sdt"`
	WRS       float64 `json:"wrs"`
}

// Value returns the measurement for a metric on this ear row.
func (r EarRecord) Value(m Metric) (float64, error) {
	switch m {
	case MetricPTA:
		return r.PTA, nil
	case MetricSRT:
		return r.SRT, nil
	case MetricSDT:
		return r.SDT, nil
	case MetricWRS:
		return r.WRS, nil
	}
	return 0, fmt.Errorf("unknown metric: %s", m)
}

// GroupSummary is one aggregated row: the arithmetic mean of each requested
// metric column across all contributing rows of a group, rounded to one
// decimal place at construction time.
type GroupSummary struct {
	Group string             `json:"group"`
	Count int                `json:"count"`
	Means map[string]float64 `json:"means"`
}

// RadarAxes is the fixed angular axis order for radar charts:
// PTA/SRT/SDT for each ear, six axes spaced evenly around the circle.
var RadarAxes = []string{
	"PTA_Right", "PTA_Left",
	"SRT_Right", "SRT_Left",
	"SDT_Right", "SDT_Left",
}

// RadarVector positions values on the six fixed radar axes. Values and
// Angles each have seven entries: axis 0 is repeated at the end to close
// the polygon.
type RadarVector struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Angles []float64 `json:"angles"`
}
