// Package dataset holds the in-memory columnar Table and its CSV/XLSX codecs.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred value type of a column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

// naTokens are cell values read as missing. Matches the pandas read_csv defaults.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell value is treated as missing.
func IsMissing(raw string) bool {
	_, ok := naTokens[raw]
	return ok
}

// Column is one named, typed column. Values are positionally aligned with the
// other columns of the owning Table.
type Column struct {
	name string
	kind Kind
	nums []float64 // numeric columns
	strs []string  // text columns
	null []bool
	nNil int
}

// newColumn infers the kind of raw cell values and stores them typed.
// A column with no non-missing values is text.
func newColumn(name string, raw []string) *Column {
	c := &Column{name: name, null: make([]bool, len(raw))}
	nums := make([]float64, len(raw))
	numeric := false
	for i, v := range raw {
		if IsMissing(v) {
			c.null[i] = true
			c.nNil++
			continue
		}
		x, ok := parseNumber(v)
		if !ok {
			numeric = false
			break
		}
		if math.IsNaN(x) {
			c.null[i] = true
			c.nNil++
			continue
		}
		nums[i] = x
		numeric = true
	}
	if numeric {
		c.kind = KindNumeric
		c.nums = nums
		return c
	}
	// Text: recompute the mask, the numeric pass may have stopped early.
	c.kind = KindText
	c.nNil = 0
	c.strs = make([]string, len(raw))
	for i, v := range raw {
		c.null[i] = IsMissing(v)
		if c.null[i] {
			c.nNil++
			continue
		}
		c.strs[i] = v
	}
	return c
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatNumber renders a float in the shortest form that parses back to the
// same value. Magnitudes below 1e-6 or from 1e21 up use exponent notation.
func FormatNumber(x float64) string {
	if a := math.Abs(x); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return len(c.null) }

// IsNumeric reports whether the column holds numbers.
func (c *Column) IsNumeric() bool { return c.kind == KindNumeric }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int { return c.nNil }

// Count returns the number of non-missing cells.
func (c *Column) Count() int { return len(c.null) - c.nNil }

// Float returns the number at row i. ok is false for missing cells and text columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != KindNumeric || c.null[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Text returns the string at row i. ok is false for missing cells and numeric columns.
func (c *Column) Text(i int) (string, bool) {
	if c.kind != KindText || c.null[i] {
		return "", false
	}
	return c.strs[i], true
}

// Cell returns the export form of row i: empty for missing values.
func (c *Column) Cell(i int) string {
	if c.null[i] {
		return ""
	}
	if c.kind == KindNumeric {
		return FormatNumber(c.nums[i])
	}
	return c.strs[i]
}

// Floats returns the non-missing numbers in row order.
func (c *Column) Floats() []float64 {
	if c.kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, c.Count())
	for i, v := range c.nums {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Strings returns the non-missing text values in row order.
func (c *Column) Strings() []string {
	if c.kind != KindText {
		return nil
	}
	out := make([]string, 0, c.Count())
	for i, v := range c.strs {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Table is an immutable, ordered set of equal-length columns.
type Table struct {
	name  string
	rows  int
	cols  []*Column
	index map[string]int
}

// FromRecords builds a Table from a header and raw string records. Records
// shorter than the header are padded with missing values; longer ones are
// rejected. Header names are normalized (blank and duplicate names).
func FromRecords(name string, header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, &ParseError{Name: name, Line: 1, Err: ErrNoHeader}
	}
	names := normalizeHeader(header)
	raw := make([][]string, len(names))
	for j := range raw {
		raw[j] = make([]string, len(records))
	}
	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, &ParseError{
				Name: name,
				Line: i + 2,
				Err:  fmt.Errorf("%w: expected %d, saw %d", ErrTooManyFields, len(names), len(rec)),
			}
		}
		for j, v := range rec {
			raw[j][i] = v
		}
	}
	t := &Table{name: name, rows: len(records), index: make(map[string]int, len(names))}
	for j, n := range names {
		t.cols = append(t.cols, newColumn(n, raw[j]))
		t.index[n] = j
	}
	return t, nil
}

// normalizeHeader names blank cells "Unnamed: <i>" and suffixes repeated names
// with ".1", ".2", ... in order of appearance.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[h]; dup {
			base, n := h, seen[h]
			for {
				n++
				h = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[h]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}

// Name is the source file name the table was loaded from.
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.rows, len(t.cols) }

// Columns returns the columns in order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.name
	}
	return out
}

// Column looks up a column by name. Unknown names yield a *SelectionError.
func (t *Table) Column(name string) (*Column, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, noSuchColumn(name)
	}
	return t.cols[j], nil
}

// Lookup is Column plus a kind check.
func (t *Table) Lookup(name string, want Kind) (*Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.kind != want {
		return nil, wrongKind(name, want)
	}
	return c, nil
}

// Record returns row i in export form.
func (t *Table) Record(i int) []string {
	rec := make([]string, len(t.cols))
	for j, c := range t.cols {
		rec[j] = c.Cell(i)
	}
	return rec
}

// Head returns up to n leading records.
func (t *Table) Head(n int) [][]string {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := range out {
		out[i] = t.Record(i)
	}
	return out
}
