package datagen

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	model "github.com/hearlab/audex/internal/domain/model"
	"github.com/hearlab/audex/pkg/logger"
)

// header is the canonical dataset column order.
var header = []string{
	"PatientID", "Category", "HL_Type_Right", "HL_Type_Left",
	"PTA_Right", "PTA_Left", "SRT_Right", "SRT_Left",
	"SDT_Right", "SDT_Left", "WRS_Right", "WRS_Left",
}

// Write serializes records to the output path, dispatching on extension.
func Write(ctx context.Context, path string, records []model.AudiogramRecord) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = writeCSV(path, records)
	case ".xlsx":
		err = writeXLSX(path, records)
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}
	if err != nil {
		return err
	}
	logger.Get().Info(ctx, "dataset written",
		logger.String("path", path),
		logger.Int("records", len(records)))
	return nil
}

func writeCSV(path string, records []model.AudiogramRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return fmt.Errorf("write row for %s: %w", r.PatientID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func writeXLSX(path string, records []model.AudiogramRecord) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if err := setSheetRow(f, sheet, 1, toAny(header)); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{
			r.PatientID, r.Category, r.HLTypeRight, r.HLTypeLeft,
			r.PTARight, r.PTALeft, r.SRTRight, r.SRTLeft,
			r.SDTRight, r.SDTLeft, r.WRSRight, r.WRSLeft,
		}
		if err := setSheetRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func setSheetRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toAny(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func csvRow(r model.AudiogramRecord) []string {
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []string{
		r.PatientID, r.Category, r.HLTypeRight, r.HLTypeLeft,
		num(r.PTARight), num(r.PTALeft),
		num(r.SRTRight), num(r.SRTLeft),
		num(r.SDTRight), num(r.SDTLeft),
		num(r.WRSRight), num(r.WRSLeft),
	}
}
