package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
// Off-diagonal entries are NaN when the pair has fewer than two complete
// observations or either side is constant.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// MarshalJSON encodes an undefined r as null.
func (p PairCorr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		A string `json:"a"`
		B string `json:"b"`
		R Value  `json:"r"`
	}{p.A, p.B, Number(p.R)})
}

// Correlations computes pairwise Pearson r over every pair of numeric columns,
// using only rows where both values are present.
func Correlations(t *dataset.Table) *CorrMatrix {
	return CorrelationsFirst(t, 0)
}

// CorrelationsFirst is Correlations restricted to the first limit numeric
// columns. limit <= 0 means all of them.
func CorrelationsFirst(t *dataset.Table, limit int) *CorrMatrix {
	var cols []*dataset.Column
	for _, c := range t.Columns() {
		if limit > 0 && len(cols) == limit {
			break
		}
		if c.IsNumeric() {
			cols = append(cols, c)
		}
	}
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name()
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			r := pearson(cols[a], cols[b], t.Len())
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

func pearson(x, y *dataset.Column, rows int) float64 {
	var xs, ys []float64
	for i := 0; i < rows; i++ {
		xv, okx := x.Float(i)
		yv, oky := y.Float(i)
		if okx && oky {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(len(xs))
	my /= float64(len(ys))
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	denom := math.Sqrt(sxx * syy)
	if denom == 0 {
		return math.NaN()
	}
	r := sxy / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// At returns r for two column names; ok is false for unknown names.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func (m *CorrMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Pairs lists the upper triangle sorted by |r| descending; undefined pairs last.
func (m *CorrMatrix) Pairs() []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if math.IsNaN(ai) || math.IsNaN(aj) {
			return !math.IsNaN(ai) && math.IsNaN(aj)
		}
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	return pairs
}

// Markdown lists up to limit pairs; limit <= 0 lists all.
func (m *CorrMatrix) Markdown(limit int) string {
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n")
	pairs := m.Pairs()
	if len(pairs) == 0 {
		b.WriteString("(fewer than two numeric columns)\n")
		return b.String()
	}
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	for _, p := range pairs {
		if math.IsNaN(p.R) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%s\n", p.A, p.B, NotApplicable))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}
