package dataset

// Classification partitions a table's column names by kind, in column order.
type Classification struct {
	Numeric    []string `json:"numeric"`
	NonNumeric []string `json:"non_numeric"`
}

// Classify splits columns into numeric and non-numeric names. The kind is the
// one inferred at load time, so all-missing columns land in NonNumeric.
func Classify(t *Table) Classification {
	c := Classification{Numeric: []string{}, NonNumeric: []string{}}
	for _, col := range t.cols {
		if col.kind == KindNumeric {
			c.Numeric = append(c.Numeric, col.name)
		} else {
			c.NonNumeric = append(c.NonNumeric, col.name)
		}
	}
	return c
}

// HasNumeric reports whether name is in the numeric set.
func (c Classification) HasNumeric(name string) bool { return contains(c.Numeric, name) }

// HasNonNumeric reports whether name is in the non-numeric set.
func (c Classification) HasNonNumeric(name string) bool { return contains(c.NonNumeric, name) }

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
