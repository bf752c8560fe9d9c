package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the publication table.
const SheetName = "Publications"

// NewWorkbook builds a workbook with the publication table on SheetName.
// The caller must Close the returned file.
func NewWorkbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := setRow(f, 1, Columns); err != nil {
		f.Close()
		return nil, err
	}
	for i, r := range rows {
		if err := setRow(f, i+2, r.cells()); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("addressing row %d: %w", row, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

// WriteXLSX writes the publication table as a spreadsheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f, err := NewWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}
	return nil
}
