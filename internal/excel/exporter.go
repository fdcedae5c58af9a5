package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of an exported workbook
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// WriteWorkbook writes the sheets as an xlsx workbook, in order.
// A workbook always has at least one sheet, so an empty call writes "Sheet1".
func WriteWorkbook(w io.Writer, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}

		header := make([]interface{}, len(sheet.Header))
		for j, h := range sheet.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", sheet.Name, err)
		}
		for j, row := range sheet.Rows {
			row := row
			cellRef, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return fmt.Errorf("failed to address row %d: %w", j+2, err)
			}
			if err := f.SetSheetRow(sheet.Name, cellRef, &row); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", j+2, sheet.Name, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
