// Package aggregate computes per-group and per-patient summaries from
// filtered audiogram records. All means are simple unweighted arithmetic
// averages; rounding happens exactly once, when a summary row is built.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	model "github.com/hearlab/audex/internal/domain/model"
)

// WideColumn names one per-ear measurement column of the wide schema.
type WideColumn struct {
	Metric model.Metric
	Ear    model.Ear
}

// Name returns the column name as it appears in the dataset, e.g. "PTA_Right".
func (c WideColumn) Name() string {
	return fmt.Sprintf("%s_%s", c.Metric, c.Ear)
}

// DefaultSummaryColumns are the columns summarized in the per-category
// table: PTA and WRS for both ears.
var DefaultSummaryColumns = []WideColumn{
	{model.MetricPTA, model.EarRight}, {model.MetricPTA, model.EarLeft},
	{model.MetricWRS, model.EarRight}, {model.MetricWRS, model.EarLeft},
}

// RadarColumns are the six columns feeding the radar axes.
var RadarColumns = []WideColumn{
	{model.MetricPTA, model.EarRight}, {model.MetricPTA, model.EarLeft},
	{model.MetricSRT, model.EarRight}, {model.MetricSRT, model.EarLeft},
	{model.MetricSDT, model.EarRight}, {model.MetricSDT, model.EarLeft},
}

// Round1 rounds to one decimal place. Re-rounding an already-rounded
// value is a no-op.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// GroupMeansWide groups records by Category and averages the given wide
// columns. Rows come back ordered by group value ascending. Zero input
// rows produce zero summary rows; no placeholder groups are emitted.
func GroupMeansWide(records []model.AudiogramRecord, cols []WideColumn) ([]model.GroupSummary, error) {
	sums := make(map[string]map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		g := r.Category
		if sums[g] == nil {
			sums[g] = make(map[string]float64, len(cols))
		}
		counts[g]++
		for _, c := range cols {
			v, err := r.Value(c.Metric, c.Ear)
			if err != nil {
				return nil, err
			}
			sums[g][c.Name()] += v
		}
	}
	return buildSummaries(sums, counts, colNames(cols)), nil
}

// Reshape converts wide records into long per-ear rows: one EarRecord per
// ear per input record, right ear first, input order preserved. Each ear
// row carries that ear's own etiology.
func Reshape(records []model.AudiogramRecord) []model.EarRecord {
	out := make([]model.EarRecord, 0, 2*len(records))
	for _, r := range records {
		out = append(out,
			model.EarRecord{
				PatientID: r.PatientID, Ear: model.EarRight,
				Category: r.Category, HLType: r.HLTypeRight,
				PTA: r.PTARight, SRT: r.SRTRight, SDT: r.SDTRight, WRS: r.WRSRight,
			},
			model.EarRecord{
				PatientID: r.PatientID, Ear: model.EarLeft,
				Category: r.Category, HLType: r.HLTypeLeft,
				PTA: r.PTALeft, SRT: r.SRTLeft, SDT: r.SDTLeft, WRS: r.WRSLeft,
			},
		)
	}
	return out
}

// GroupMeansByEar groups long-form ear rows by Category or per-ear HL_Type
// and averages the given metrics. Rows come back ordered by group value
// ascending.
func GroupMeansByEar(ears []model.EarRecord, groupBy string, metrics []model.Metric) ([]model.GroupSummary, error) {
	key, err := earGroupKey(groupBy)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]map[string]float64)
	counts := make(map[string]int)
	for _, e := range ears {
		g := key(e)
		if g == "" {
			continue
		}
		if sums[g] == nil {
			sums[g] = make(map[string]float64, len(metrics))
		}
		counts[g]++
		for _, m := range metrics {
			v, err := e.Value(m)
			if err != nil {
				return nil, err
			}
			sums[g][string(m)] += v
		}
	}

	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = string(m)
	}
	return buildSummaries(sums, counts, names), nil
}

func earGroupKey(groupBy string) (func(model.EarRecord) string, error) {
	switch strings.ToLower(groupBy) {
	case model.GroupByCategory:
		return func(e model.EarRecord) string { return e.Category }, nil
	case model.GroupByHLType:
		return func(e model.EarRecord) string { return e.HLType }, nil
	}
	return nil, fmt.Errorf("unknown grouping column: %q", groupBy)
}

func colNames(cols []WideColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}

func buildSummaries(sums map[string]map[string]float64, counts map[string]int, names []string) []model.GroupSummary {
	groups := make([]string, 0, len(sums))
	for g := range sums {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	out := make([]model.GroupSummary, 0, len(groups))
	for _, g := range groups {
		n := counts[g]
		means := make(map[string]float64, len(names))
		for _, name := range names {
			means[name] = Round1(sums[g][name] / float64(n))
		}
		out = append(out, model.GroupSummary{Group: g, Count: n, Means: means})
	}
	return out
}
