package analysis

import (
	"sort"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

// CategoryCount is the frequency of one distinct value.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts distinct non-missing text values, most frequent first.
// Ties keep the order in which values first appear.
func ValueCounts(c *dataset.Column) []CategoryCount {
	idx := map[string]int{}
	var out []CategoryCount
	for _, v := range c.Strings() {
		if i, ok := idx[v]; ok {
			out[i].Count++
			continue
		}
		idx[v] = len(out)
		out = append(out, CategoryCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Remainder summarizes the values TopCounts folded away.
type Remainder struct {
	Values int `json:"values"`
	Count  int `json:"count"`
}

// TopCounts keeps the first n entries of counts and folds the rest into a
// Remainder. n <= 0 keeps everything.
func TopCounts(counts []CategoryCount, n int) ([]CategoryCount, Remainder) {
	if n <= 0 || len(counts) <= n {
		return counts, Remainder{}
	}
	var rest Remainder
	for _, c := range counts[n:] {
		rest.Values++
		rest.Count += c.Count
	}
	return counts[:n], rest
}
