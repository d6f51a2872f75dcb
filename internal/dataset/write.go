package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/jknstat/internal/utils"
)

// WriteCSV writes the table with a header row. Missing cells are written empty.
func (t *Table) WriteCSV(path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// WriteXLSX writes the table to a single-sheet workbook.
func (t *Table) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	for j, name := range t.Names() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("set header %q: %w", name, err)
		}
	}
	for i := 0; i < t.rows; i++ {
		for j, c := range t.columns {
			v := c.Value(i)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
