package analysis

import (
	"encoding/json"
	"math"
	"strconv"
)

// NotApplicable is the text shown for a statistic that is undefined for a column.
const NotApplicable = "n/a"

type valueKind uint8

const (
	kindNA valueKind = iota
	kindNumber
	kindInt
	kindText
)

// Value is one cell of a SummaryReport: a number, an integer count, a string,
// or the explicit not-applicable marker.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// NA returns the not-applicable marker.
func NA() Value { return Value{} }

// Number wraps a float; NaN collapses to NA.
func Number(x float64) Value {
	if math.IsNaN(x) {
		return NA()
	}
	return Value{kind: kindNumber, num: x}
}

// Int wraps a count.
func Int(n int) Value { return Value{kind: kindInt, num: float64(n)} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// IsNA reports whether the value is the not-applicable marker.
func (v Value) IsNA() bool { return v.kind == kindNA }

// Float returns the numeric form of numbers and counts.
func (v Value) Float() (float64, bool) {
	if v.kind == kindNumber || v.kind == kindInt {
		return v.num, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', 6, 64)
	case kindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case kindText:
		return v.text
	default:
		return NotApplicable
	}
}

// MarshalJSON encodes NA as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		if math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	case kindInt:
		return json.Marshal(int64(v.num))
	case kindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}
