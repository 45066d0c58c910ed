package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

func mustTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.ReadCSV("t.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return tbl
}

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func mustFloat(t *testing.T, rep *SummaryReport, col string, s Stat) float64 {
	t.Helper()
	v, err := rep.Get(col, s)
	if err != nil {
		t.Fatalf("Get(%s, %s): %v", col, s, err)
	}
	f, ok := v.Float()
	if !ok {
		t.Fatalf("%s[%s] = %s, want a number", col, s, v)
	}
	return f
}

func TestDescribeScenario(t *testing.T) {
	rep := Describe(mustTable(t, "a,b\n1,x\n2,y\n3,x\n"))
	if rep.Rows != 3 || rep.Cols != 2 {
		t.Fatalf("shape = (%d, %d)", rep.Rows, rep.Cols)
	}
	if got := mustFloat(t, rep, "a", StatCount); got != 3 {
		t.Fatalf("count(a) = %v", got)
	}
	if got := mustFloat(t, rep, "b", StatCount); got != 3 {
		t.Fatalf("count(b) = %v", got)
	}
	if got := mustFloat(t, rep, "a", StatMean); got != 2.0 {
		t.Fatalf("mean(a) = %v", got)
	}
	if got := mustFloat(t, rep, "a", StatStd); !almostEqual(got, 1.0, 1e-12) {
		t.Fatalf("std(a) = %v", got)
	}
	if got := mustFloat(t, rep, "a", StatQ1); got != 1.5 {
		t.Fatalf("25%%(a) = %v", got)
	}
	top, _ := rep.Get("b", StatTop)
	if top.String() != "x" {
		t.Fatalf("top(b) = %s", top)
	}
	if got := mustFloat(t, rep, "b", StatFreq); got != 2 {
		t.Fatalf("freq(b) = %v", got)
	}
	if got := mustFloat(t, rep, "b", StatUnique); got != 2 {
		t.Fatalf("unique(b) = %v", got)
	}
	// Cross-kind statistics are explicitly not applicable.
	if v, _ := rep.Get("b", StatMean); !v.IsNA() {
		t.Fatalf("mean(b) = %s, want n/a", v)
	}
	if v, _ := rep.Get("a", StatTop); !v.IsNA() {
		t.Fatalf("top(a) = %s, want n/a", v)
	}
	want := []Stat{StatCount, StatUnique, StatTop, StatFreq, StatMean, StatStd, StatMin, StatQ1, StatMedian, StatQ3, StatMax}
	if len(rep.Stats) != len(want) {
		t.Fatalf("stats = %v", rep.Stats)
	}
	for i := range want {
		if rep.Stats[i] != want[i] {
			t.Fatalf("stats[%d] = %s, want %s", i, rep.Stats[i], want[i])
		}
	}
}

func TestDescribeZeroRows(t *testing.T) {
	rep := Describe(mustTable(t, "a,b\n"))
	if rep.Rows != 0 || rep.Cols != 2 {
		t.Fatalf("shape = (%d, %d)", rep.Rows, rep.Cols)
	}
	for _, c := range rep.Columns {
		if got := c.Get(StatCount); got.String() != "0" {
			t.Fatalf("%s count = %s", c.Name, got)
		}
		for _, s := range rep.Stats {
			if s == StatCount {
				continue
			}
			if v := c.Get(s); !v.IsNA() {
				t.Fatalf("%s[%s] = %s, want n/a", c.Name, s, v)
			}
		}
	}
}

func TestDescribeSingleValueStdIsNA(t *testing.T) {
	rep := Describe(mustTable(t, "a\n4\n"))
	if v, _ := rep.Get("a", StatStd); !v.IsNA() {
		t.Fatalf("std = %s, want n/a", v)
	}
	if got := mustFloat(t, rep, "a", StatMedian); got != 4 {
		t.Fatalf("median = %v", got)
	}
}

func TestDescribeIgnoresMissing(t *testing.T) {
	rep := Describe(mustTable(t, "a,b\n1,x\n,\n5,NA\n"))
	if got := mustFloat(t, rep, "a", StatCount); got != 2 {
		t.Fatalf("count(a) = %v", got)
	}
	if got := mustFloat(t, rep, "a", StatMax); got != 5 {
		t.Fatalf("max(a) = %v", got)
	}
	if got := mustFloat(t, rep, "b", StatCount); got != 1 {
		t.Fatalf("count(b) = %v", got)
	}
}

func TestSummaryUnknownColumn(t *testing.T) {
	rep := Describe(mustTable(t, "a\n1\n"))
	_, err := rep.Get("zzz", StatCount)
	var se *dataset.SelectionError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SelectionError", err)
	}
}

func TestSummaryJSONUsesNull(t *testing.T) {
	rep := Describe(mustTable(t, "a,b\n1,x\n"))
	b, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Summary []struct {
			Name  string                 `json:"name"`
			Stats map[string]interface{} `json:"stats"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Summary[1].Stats["mean"] != nil {
		t.Fatalf("mean(b) = %v, want null", decoded.Summary[1].Stats["mean"])
	}
	if decoded.Summary[1].Stats["top"] != "x" {
		t.Fatalf("top(b) = %v", decoded.Summary[1].Stats["top"])
	}
}

func TestSummaryMarkdown(t *testing.T) {
	md := Describe(mustTable(t, "a,b\n1,x\n2,y\n3,x\n")).Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "Shape: (3, 2)", "| mean | 2 | n/a |", "| top | n/a | x |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
