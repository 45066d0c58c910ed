package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestCorrelationsSymmetricWithUnitDiagonal(t *testing.T) {
	tbl := mustTable(t, "x,y,z,label\n1,2,9,a\n2,4.1,7,b\n3,5.9,8,c\n4,8.2,1,d\n5,9.7,3,e\n")
	m := Correlations(tbl)
	if strings.Join(m.Columns, ",") != "x,y,z" {
		t.Fatalf("columns = %v", m.Columns)
	}
	for i := range m.Columns {
		if !almostEqual(m.Values[i][i], 1, 1e-12) {
			t.Fatalf("diag[%d] = %v", i, m.Values[i][i])
		}
		for j := range m.Columns {
			if m.Values[i][j] != m.Values[j][i] {
				t.Fatalf("asymmetric at (%d,%d): %v vs %v", i, j, m.Values[i][j], m.Values[j][i])
			}
			if m.Values[i][j] < -1 || m.Values[i][j] > 1 {
				t.Fatalf("out of range r = %v", m.Values[i][j])
			}
		}
	}
	if r, _ := m.At("x", "y"); r < 0.99 {
		t.Fatalf("r(x,y) = %v, want strong positive", r)
	}
}

func TestCorrelationsPerfectLines(t *testing.T) {
	m := Correlations(mustTable(t, "a,b,c\n1,10,-1\n2,20,-2\n3,30,-3\n"))
	if r, _ := m.At("a", "b"); !almostEqual(r, 1, 1e-12) {
		t.Fatalf("r(a,b) = %v", r)
	}
	if r, _ := m.At("a", "c"); !almostEqual(r, -1, 1e-12) {
		t.Fatalf("r(a,c) = %v", r)
	}
}

func TestCorrelationsPairwiseComplete(t *testing.T) {
	// The missing cell drops only row 3 for the (a, b) pair.
	m := Correlations(mustTable(t, "a,b\n1,1\n2,2\n3,\n4,4\n"))
	if r, _ := m.At("a", "b"); !almostEqual(r, 1, 1e-12) {
		t.Fatalf("r(a,b) = %v", r)
	}
}

func TestCorrelationsConstantColumnIsNaN(t *testing.T) {
	m := Correlations(mustTable(t, "a,b\n1,5\n2,5\n3,5\n"))
	r, ok := m.At("a", "b")
	if !ok || !math.IsNaN(r) {
		t.Fatalf("r(a,b) = %v, want NaN", r)
	}
	if d, _ := m.At("b", "b"); d != 1 {
		t.Fatalf("diag = %v", d)
	}
	if !strings.Contains(m.Markdown(0), "a ~ b: r=n/a") {
		t.Fatalf("markdown = %s", m.Markdown(0))
	}
}

func TestCorrelationPairsOrder(t *testing.T) {
	m := Correlations(mustTable(t, "a,b,c\n1,1,3\n2,2,1\n3,3,2\n4,4.5,4\n"))
	pairs := m.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("pairs = %v", pairs)
	}
	if pairs[0].A != "a" || pairs[0].B != "b" {
		t.Fatalf("strongest pair = %+v", pairs[0])
	}
	for i := 1; i < len(pairs); i++ {
		if math.Abs(pairs[i].R) > math.Abs(pairs[i-1].R) {
			t.Fatalf("pairs not sorted: %+v", pairs)
		}
	}
}

func TestPairCorrJSON(t *testing.T) {
	b, err := json.Marshal([]PairCorr{{A: "a", B: "b", R: 0.5}, {A: "a", B: "c", R: math.NaN()}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"a":"a","b":"b","r":0.5},{"a":"a","b":"c","r":null}]`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

func TestCorrelationsFirstLimitsColumns(t *testing.T) {
	tbl := mustTable(t, "label,x,y,z\na,1,2,9\nb,2,4,7\nc,3,6,8\n")
	m := CorrelationsFirst(tbl, 2)
	if strings.Join(m.Columns, ",") != "x,y" || len(m.Values) != 2 {
		t.Fatalf("columns = %v", m.Columns)
	}
	if r, _ := m.At("x", "y"); !almostEqual(r, 1, 1e-12) {
		t.Fatalf("r(x,y) = %v", r)
	}
	if got := CorrelationsFirst(tbl, 0).Columns; len(got) != 3 {
		t.Fatalf("unlimited columns = %v", got)
	}
}
