package explore

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	dataset "github.com/hearlab/audex/internal/domain/dataset"
	"github.com/hearlab/audex/pkg/logger"
	"github.com/hearlab/audex/pkg/metrics"
)

const exportSheet = "Summary"

// ExportSummary renders the group-mean summary for the selection as an
// XLSX workbook and returns the serialized bytes.
func (s *Service) ExportSummary(ctx context.Context, sel Selection) ([]byte, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sel = normalize(sel)

	filtered := dataset.Filter(snap.Records, sel.Categories)
	groups, cols, err := s.summarize(filtered, sel)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, 0, len(cols)+2)
	header = append(header, "Group")
	for _, c := range cols {
		header = append(header, c)
	}
	header = append(header, "N")
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}

	for i, g := range groups {
		row := make([]interface{}, 0, len(cols)+2)
		row = append(row, g.Group)
		for _, c := range cols {
			row = append(row, g.Means[c])
		}
		row = append(row, g.Count)
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	metrics.RecordSummaryExport()
	s.log().Info(ctx, "summary workbook exported",
		logger.Int("groups", len(groups)),
		logger.String("groupBy", sel.GroupBy),
	)
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
