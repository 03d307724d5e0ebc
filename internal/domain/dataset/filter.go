package dataset

import (
	"strings"

	model "github.com/hearlab/audex/internal/domain/model"
)

// Filter returns the records whose Category is in the selection, preserving
// original order. A nil selection means "all categories"; an empty non-nil
// selection yields an empty result. Matching is case-insensitive; selecting
// a category absent from the data contributes nothing.
func Filter(records []model.AudiogramRecord, categories []string) []model.AudiogramRecord {
	if categories == nil {
		return records
	}
	set := toLowerSet(categories)
	out := make([]model.AudiogramRecord, 0, len(records))
	for _, r := range records {
		if set[strings.ToLower(r.Category)] {
			out = append(out, r)
		}
	}
	return out
}

// DistinctCategories returns the categories present, in first-seen order.
func DistinctCategories(records []model.AudiogramRecord) []string {
	return distinct(records, func(r model.AudiogramRecord) []string {
		return []string{r.Category}
	})
}

// DistinctHLTypes returns the etiologies present on either ear,
// in first-seen order.
func DistinctHLTypes(records []model.AudiogramRecord) []string {
	return distinct(records, func(r model.AudiogramRecord) []string {
		return []string{r.HLTypeRight, r.HLTypeLeft}
	})
}

// PatientIDs returns the distinct patient identifiers, in first-seen order.
func PatientIDs(records []model.AudiogramRecord) []string {
	return distinct(records, func(r model.AudiogramRecord) []string {
		return []string{r.PatientID}
	})
}

// SelectPatient returns the first record matching the identifier exactly.
// When multiple rows share a PatientID the first encountered wins.
func SelectPatient(records []model.AudiogramRecord, patientID string) (model.AudiogramRecord, bool) {
	for _, r := range records {
		if r.PatientID == patientID {
			return r, true
		}
	}
	return model.AudiogramRecord{}, false
}

func distinct(records []model.AudiogramRecord, pick func(model.AudiogramRecord) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		for _, v := range pick(r) {
			if v != "" && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = true
	}
	return set
}
