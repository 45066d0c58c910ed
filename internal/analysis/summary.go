// Package analysis computes descriptive statistics, correlations and value
// frequencies over a dataset.Table.
package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

// Stat names one row of a SummaryReport.
type Stat string

const (
	StatCount  Stat = "count"
	StatUnique Stat = "unique"
	StatTop    Stat = "top"
	StatFreq   Stat = "freq"
	StatMean   Stat = "mean"
	StatStd    Stat = "std"
	StatMin    Stat = "min"
	StatQ1     Stat = "25%"
	StatMedian Stat = "50%"
	StatQ3     Stat = "75%"
	StatMax    Stat = "max"
)

var (
	textStats    = []Stat{StatUnique, StatTop, StatFreq}
	numericStats = []Stat{StatMean, StatStd, StatMin, StatQ1, StatMedian, StatQ3, StatMax}
)

// SummaryReport is the combined descriptive statistics of every column.
type SummaryReport struct {
	Name    string          `json:"name"`
	Rows    int             `json:"rows"`
	Cols    int             `json:"columns"`
	Stats   []Stat          `json:"stats"`
	Columns []ColumnSummary `json:"summary"`
}

// ColumnSummary holds one column's statistics. Every Stat of the report is
// present; undefined ones hold NA.
type ColumnSummary struct {
	Name   string         `json:"name"`
	Kind   dataset.Kind   `json:"kind"`
	Values map[Stat]Value `json:"stats"`
}

// Get returns a statistic, NA when absent.
func (c ColumnSummary) Get(s Stat) Value {
	return c.Values[s]
}

// Describe summarizes every column of t. Numeric columns get count, mean, std,
// min, quartiles and max; text columns get count, unique, top and freq. A
// zero-row table yields count 0 and NA elsewhere.
func Describe(t *dataset.Table) *SummaryReport {
	rows, cols := t.Shape()
	rep := &SummaryReport{Name: t.Name(), Rows: rows, Cols: cols, Stats: []Stat{StatCount}}

	var hasNum, hasText bool
	for _, c := range t.Columns() {
		if c.IsNumeric() {
			hasNum = true
		} else {
			hasText = true
		}
	}
	if hasText {
		rep.Stats = append(rep.Stats, textStats...)
	}
	if hasNum {
		rep.Stats = append(rep.Stats, numericStats...)
	}

	rep.Columns = make([]ColumnSummary, 0, cols)
	for _, c := range t.Columns() {
		var vals map[Stat]Value
		if c.IsNumeric() {
			vals = summarizeNumeric(c)
		} else {
			vals = summarizeText(c)
		}
		for _, s := range rep.Stats {
			if _, ok := vals[s]; !ok {
				vals[s] = NA()
			}
		}
		rep.Columns = append(rep.Columns, ColumnSummary{Name: c.Name(), Kind: c.Kind(), Values: vals})
	}
	return rep
}

func summarizeNumeric(c *dataset.Column) map[Stat]Value {
	vals := c.Floats()
	out := map[Stat]Value{StatCount: Int(len(vals))}
	if len(vals) == 0 {
		return out
	}
	m := newMoments()
	for _, x := range vals {
		m.add(x)
	}
	sorted := sortedCopy(vals)
	out[StatMean] = Number(m.mean)
	out[StatStd] = Number(m.std())
	out[StatMin] = Number(m.min)
	out[StatQ1] = Number(quantile(sorted, 0.25))
	out[StatMedian] = Number(quantile(sorted, 0.5))
	out[StatQ3] = Number(quantile(sorted, 0.75))
	out[StatMax] = Number(m.max)
	return out
}

func summarizeText(c *dataset.Column) map[Stat]Value {
	out := map[Stat]Value{StatCount: Int(c.Count())}
	counts := ValueCounts(c)
	if len(counts) == 0 {
		return out
	}
	out[StatUnique] = Int(len(counts))
	out[StatTop] = Text(counts[0].Value)
	out[StatFreq] = Int(counts[0].Count)
	return out
}

// Column returns the summary of one column. Unknown names yield a *dataset.SelectionError.
func (r *SummaryReport) Column(name string) (ColumnSummary, error) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, nil
		}
	}
	return ColumnSummary{}, &dataset.SelectionError{Column: name, Reason: "no such column"}
}

// Get returns one statistic of one column.
func (r *SummaryReport) Get(column string, s Stat) (Value, error) {
	c, err := r.Column(column)
	if err != nil {
		return NA(), err
	}
	return c.Get(s), nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *SummaryReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Shape: (%d, %d)\n\n", r.Rows, r.Cols))

	b.WriteString("[SUMMARY STATISTICS]\n")
	b.WriteString("| stat")
	for _, c := range r.Columns {
		b.WriteString(" | ")
		b.WriteString(safeName(c.Name))
	}
	b.WriteString(" |\n|---")
	for range r.Columns {
		b.WriteString("|---")
	}
	b.WriteString("|\n")
	for _, s := range r.Stats {
		b.WriteString("| ")
		b.WriteString(string(s))
		for _, c := range r.Columns {
			b.WriteString(" | ")
			b.WriteString(safeVal(c.Get(s).String()))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
