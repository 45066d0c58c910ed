// Package render draws the default charts of a dataset as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

// ErrUnavailable matches every *UnavailableError via errors.Is.
var ErrUnavailable = errors.New("visualization unavailable")

// UnavailableError reports that a chart cannot be drawn for the current
// Table. It is informational, not a failure.
type UnavailableError struct {
	Chart  string
	Reason string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Chart, e.Reason)
}

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Chart names.
const (
	ChartScatter = "scatter"
	ChartHeatmap = "heatmap"
	ChartBar     = "bar"
)

const (
	reasonNoRows       = "the dataset has no rows"
	reasonScatterCols  = "at least two numeric columns are required"
	reasonHeatmapCols  = "no numeric columns found"
	reasonBarCols      = "no categorical columns found"
	reasonNoCompleteXY = "no rows have both values present"
)

// Image is a rendered chart.
type Image struct {
	Title  string
	PNG    []byte
	Width  int
	Height int
}

// WriteTo writes the PNG bytes.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(img.PNG)
	return int64(n), err
}

// Options control chart size. Zero values fall back to 640x480; neither side
// exceeds MaxCanvas.
type Options struct {
	Width  int
	Height int
}

const (
	defaultWidth  = 640
	defaultHeight = 480

	// MaxCanvas bounds both sides of every rendered image, in pixels.
	MaxCanvas = 2048
	// MaxBars is the number of distinct values a bar chart draws; the rest
	// share one "other" bar.
	MaxBars = 30
	// MaxHeatmapColumns is the number of numeric columns a heatmap covers,
	// taken in table order.
	MaxHeatmapColumns = 60
)

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	o.Width = min(o.Width, MaxCanvas)
	o.Height = min(o.Height, MaxCanvas)
	return o
}

// Availability tells which charts can be drawn for a Table. A false flag comes
// with the reason shown to the user instead of the chart.
type Availability struct {
	Scatter       bool   `json:"scatter"`
	ScatterReason string `json:"scatter_reason,omitempty"`
	Heatmap       bool   `json:"heatmap"`
	HeatmapReason string `json:"heatmap_reason,omitempty"`
	Bar           bool   `json:"bar"`
	BarReason     string `json:"bar_reason,omitempty"`
}

// Available computes the Availability of every chart for t.
func Available(t *dataset.Table) Availability {
	cls := dataset.Classify(t)
	var a Availability
	switch {
	case t.Len() == 0:
		a.ScatterReason = reasonNoRows
	case len(cls.Numeric) < 2:
		a.ScatterReason = reasonScatterCols
	default:
		a.Scatter = true
	}
	switch {
	case t.Len() == 0:
		a.HeatmapReason = reasonNoRows
	case len(cls.Numeric) == 0:
		a.HeatmapReason = reasonHeatmapCols
	default:
		a.Heatmap = true
	}
	switch {
	case t.Len() == 0:
		a.BarReason = reasonNoRows
	case len(cls.NonNumeric) == 0:
		a.BarReason = reasonBarCols
	default:
		a.Bar = true
	}
	return a
}

// Check returns an *UnavailableError when chart cannot be drawn.
func (a Availability) Check(chart string) error {
	var ok bool
	var reason string
	switch chart {
	case ChartScatter:
		ok, reason = a.Scatter, a.ScatterReason
	case ChartHeatmap:
		ok, reason = a.Heatmap, a.HeatmapReason
	case ChartBar:
		ok, reason = a.Bar, a.BarReason
	default:
		return fmt.Errorf("unknown chart kind %q", chart)
	}
	if ok {
		return nil
	}
	return &UnavailableError{Chart: chart, Reason: reason}
}
