package render

import (
	"bytes"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// Scatter plots column y against column x. Both must be numeric; they may be
// the same column. Rows missing either value are skipped.
func Scatter(t *dataset.Table, x, y string, opt Options) (*Image, error) {
	xs, ys, err := scatterPoints(t, x, y)
	if err != nil {
		return nil, err
	}

	opt = opt.normalized()
	title := fmt.Sprintf("%s vs %s", y, x)
	ch := chart.Chart{
		Title:      title,
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12}},
		XAxis:      chart.XAxis{Name: x, Range: axisRange(xs)},
		YAxis:      chart.YAxis{Name: y, Range: axisRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: title, XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue)},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render scatter: %w", err)
	}
	return &Image{Title: title, PNG: buf.Bytes(), Width: opt.Width, Height: opt.Height}, nil
}

// CheckScatter reports the error Scatter would return for this selection
// without drawing anything.
func CheckScatter(t *dataset.Table, x, y string) error {
	_, _, err := scatterPoints(t, x, y)
	return err
}

func scatterPoints(t *dataset.Table, x, y string) (xs, ys []float64, err error) {
	if err := Available(t).Check(ChartScatter); err != nil {
		return nil, nil, err
	}
	xc, err := t.Lookup(x, dataset.KindNumeric)
	if err != nil {
		return nil, nil, err
	}
	yc, err := t.Lookup(y, dataset.KindNumeric)
	if err != nil {
		return nil, nil, err
	}
	for i := 0; i < t.Len(); i++ {
		xv, okx := xc.Float(i)
		yv, oky := yc.Float(i)
		if okx && oky && finite(xv) && finite(yv) {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	if len(xs) == 0 {
		return nil, nil, &UnavailableError{Chart: ChartScatter, Reason: reasonNoCompleteXY}
	}
	return xs, ys, nil
}

func finite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// axisRange pads the data range by 5% and widens a degenerate range to ±1.
func axisRange(vals []float64) *chart.ContinuousRange {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
