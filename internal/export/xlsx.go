package export

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"LaneLabeller/internal/state"
)

const (
	PointsSheet  = "annotations"
	SummarySheet = "summary"
)

// WriteXLSX writes a workbook with one row per point and a per-image count
// of points in each lane.
func WriteXLSX(w io.Writer, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PointsSheet); err != nil {
		return err
	}
	if err := setRow(f, PointsSheet, 1, []interface{}{"image", "index", "x", "y", "category"}); err != nil {
		return err
	}
	row := 2
	for _, e := range entries {
		for i, p := range e.Points {
			if err := setRow(f, PointsSheet, row, []interface{}{e.Image, i, p.X, p.Y, p.Category.Token()}); err != nil {
				return err
			}
			row++
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	header := []interface{}{"image"}
	for _, c := range state.Categories() {
		header = append(header, c.Name())
	}
	header = append(header, "total")
	if err := setRow(f, SummarySheet, 1, header); err != nil {
		return err
	}
	for i, e := range entries {
		counts := e.Counts()
		values := []interface{}{filepath.Base(e.Image)}
		for _, c := range state.Categories() {
			values = append(values, counts[c])
		}
		values = append(values, len(e.Points))
		if err := setRow(f, SummarySheet, i+2, values); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
