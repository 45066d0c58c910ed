package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the header and every record as comma-separated UTF-8 text.
// Reading the output back with ReadCSV reproduces the table.
func WriteCSV(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Len(); i++ {
		rec := t.Record(i)
		// A lone empty field would be a blank line, which readers skip.
		if len(rec) == 1 && rec[0] == "" {
			cw.Flush()
			if _, err := bw.WriteString("\"\"\n"); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
			continue
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return bw.Flush()
}
