// Package dataset loads the structured audiogram file and narrows it by
// category selection. Records are immutable once loaded; every pipeline
// stage receives them as values.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	model "github.com/hearlab/audex/internal/domain/model"
)

// Canonical column order of the audiogram schema. Header matching is
// case-insensitive but every column must be present.
var columns = []string{
	"PatientID", "Category", "HL_Type_Right", "HL_Type_Left",
	"PTA_Right", "PTA_Left", "SRT_Right", "SRT_Left",
	"SDT_Right", "SDT_Left", "WRS_Right", "WRS_Left",
}

// Load reads an audiogram dataset, dispatching on file extension.
// Supported: .csv and .xlsx.
func Load(path string) ([]model.AudiogramRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrSchema, filepath.Ext(path))
	}
}

// LoadCSV reads an audiogram dataset from a CSV file.
func LoadCSV(path string) ([]model.AudiogramRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV decodes audiogram records from CSV bytes. The first row must be
// the header; rows are returned in file order.
func ParseCSV(r io.Reader) ([]model.AudiogramRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrSchema, err)
	}
	idx, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var out []model.AudiogramRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrSchema, line, err)
		}
		rec, err := decodeRow(row, idx, line)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadXLSX reads an audiogram dataset from the first sheet of a workbook.
func LoadXLSX(path string) ([]model.AudiogramRecord, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSchema)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrSchema)
	}
	idx, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var out []model.AudiogramRecord
	for i, row := range rows[1:] {
		rec, err := decodeRow(row, idx, i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// mapHeader resolves each canonical column to its position in the header.
func mapHeader(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, c := range columns {
			if strings.EqualFold(h, c) {
				idx[c] = i
				break
			}
		}
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, c)
		}
	}
	return idx, nil
}

func decodeRow(row []string, idx map[string]int, line int) (model.AudiogramRecord, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(col string) (float64, error) {
		s := cell(col)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: row %d column %s: %q is not numeric", ErrSchema, line, col, s)
		}
		return v, nil
	}

	rec := model.AudiogramRecord{
		PatientID:   cell("PatientID"),
		Category:    cell("Category"),
		HLTypeRight: cell("HL_Type_Right"),
		HLTypeLeft:  cell("HL_Type_Left"),
	}
	if rec.PatientID == "" {
		return rec, fmt.Errorf("%w: row %d: empty PatientID", ErrSchema, line)
	}

	var err error
	for _, c := range []struct {
		col string
		dst *float64
	}{
		{"PTA_Right", &rec.PTARight}, {"PTA_Left", &rec.PTALeft},
		{"SRT_Right", &rec.SRTRight}, {"SRT_Left", &rec.SRTLeft},
		{"SDT_Right", &rec.SDTRight}, {"SDT_Left", &rec.SDTLeft},
		{"WRS_Right", &rec.WRSRight}, {"WRS_Left", &rec.WRSLeft},
	} {
		if *c.dst, err = num(c.col); err != nil {
			return rec, err
		}
	}
	return rec, nil
}
