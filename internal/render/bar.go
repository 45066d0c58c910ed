package render

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/dataglance/internal/analysis"
	"github.com/KaramelBytes/dataglance/internal/dataset"
)

const (
	maxBarWidth = 40
	minBarWidth = 6
	barSpacing  = 4
	barMargin   = 120
)

// OtherLabel names the bar that collects the values beyond MaxBars.
func OtherLabel(rest analysis.Remainder) string {
	return fmt.Sprintf("other (%d values)", rest.Values)
}

// CategoricalBarChart draws the frequency of each distinct value of a
// non-numeric column, most frequent first. Values beyond MaxBars are drawn as
// one trailing bar labelled by OtherLabel.
func CategoricalBarChart(t *dataset.Table, column string, opt Options) (*Image, error) {
	if err := Available(t).Check(ChartBar); err != nil {
		return nil, err
	}
	col, err := t.Lookup(column, dataset.KindText)
	if err != nil {
		return nil, err
	}
	counts, rest := analysis.TopCounts(analysis.ValueCounts(col), MaxBars)
	if len(counts) == 0 {
		return nil, &UnavailableError{Chart: ChartBar, Reason: fmt.Sprintf("column %q has no values", column)}
	}

	bars := make([]chart.Value, 0, len(counts)+1)
	top := 0
	for _, c := range counts {
		bars = append(bars, chart.Value{Value: float64(c.Count), Label: c.Value})
		top = max(top, c.Count)
	}
	if rest.Values > 0 {
		bars = append(bars, chart.Value{Value: float64(rest.Count), Label: OtherLabel(rest)})
		top = max(top, rest.Count)
	}

	opt = opt.normalized()
	barWidth := (opt.Width-barMargin)/len(bars) - barSpacing
	barWidth = max(minBarWidth, min(barWidth, maxBarWidth))
	if need := len(bars)*(barWidth+barSpacing) + barMargin; need > opt.Width {
		opt.Width = min(need, MaxCanvas)
	}

	title := fmt.Sprintf("Distribution of %s", column)
	bc := chart.BarChart{
		Title:      title,
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12}},
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: float64(top) * 1.1}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return &Image{Title: title, PNG: buf.Bytes(), Width: opt.Width, Height: opt.Height}, nil
}
