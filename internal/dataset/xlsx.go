package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the first worksheet of a workbook. The first row is the header;
// fully blank rows are skipped like blank CSV lines.
func ReadXLSX(name string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Name: name, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Name: name, Err: fmt.Errorf("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Name: name, Err: fmt.Errorf("read sheet %q: %w", sheets[0], err)}
	}
	var header []string
	var records [][]string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		records = append(records, row)
	}
	if header == nil {
		return nil, &ParseError{Name: name, Line: 1, Err: ErrNoHeader}
	}
	return FromRecords(name, header, records)
}

// WriteXLSX writes the table to a single-sheet workbook. Numbers are stored as
// numeric cells, missing values as empty cells.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, t.Width())
	for j, n := range t.ColumnNames() {
		header[j] = n
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			if v, ok := c.Float(i); ok {
				row[j] = v
			} else if s, ok := c.Text(i); ok {
				row[j] = s
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
