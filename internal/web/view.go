package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"

	"github.com/KaramelBytes/dataglance/internal/analysis"
	"github.com/KaramelBytes/dataglance/internal/dataset"
	"github.com/KaramelBytes/dataglance/internal/render"
	"github.com/KaramelBytes/dataglance/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	noticeStart        = "Upload a CSV file to start exploring your data."
	noticeUploaded     = "File uploaded successfully!"
	noticeUploadFailed = "Upload failed"
)

func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

type pageData struct {
	Title   string
	Loaded  bool
	Info    string
	Success []string
	Failure string

	FileName string
	Rows     int
	Cols     int

	PreviewHeader []string
	PreviewRows   [][]string

	SummaryHeader []string
	SummaryRows   []summaryRow

	Numeric      []string
	NonNumeric   []string
	NumericEmpty string
	CatEmpty     string

	X, Y          string
	ScatterURL    string
	ScatterNotice string
	ScatterError  string

	HeatmapURL    string
	HeatmapNotice string

	Column    string
	BarURL    string
	BarNotice string
	BarError  string
	BarCounts []analysis.CategoryCount
	BarOther  string
	BarRest   analysis.Remainder
}

type summaryRow struct {
	Stat  string
	Cells []string
}

// buildPage recomputes every view of the current session state. Selections
// come from the query string; an invalid one only affects its own view.
func (s *Server) buildPage(snap session.Snapshot, q url.Values) pageData {
	p := pageData{Title: "Data Analysis Dashboard"}
	if snap.State != session.Loaded {
		p.Info = noticeStart
		return p
	}
	t := snap.Table
	p.Loaded = true
	p.FileName = snap.FileName
	p.Rows, p.Cols = t.Shape()

	p.PreviewHeader = t.ColumnNames()
	p.PreviewRows = t.Head(s.cfg.PreviewRows)

	rep := analysis.Describe(t)
	p.SummaryHeader = p.PreviewHeader
	for _, st := range rep.Stats {
		row := summaryRow{Stat: string(st)}
		for _, c := range rep.Columns {
			row.Cells = append(row.Cells, c.Get(st).String())
		}
		p.SummaryRows = append(p.SummaryRows, row)
	}

	cls := dataset.Classify(t)
	p.Numeric, p.NonNumeric = cls.Numeric, cls.NonNumeric
	avail := render.Available(t)

	if len(cls.Numeric) == 0 {
		p.NumericEmpty = "No numeric columns found."
	} else {
		s.numericViews(&p, t, avail, q)
	}
	if len(cls.NonNumeric) == 0 {
		p.CatEmpty = "No categorical columns found."
	} else {
		s.categoricalView(&p, t, avail, q)
	}
	return p
}

func (s *Server) numericViews(p *pageData, t *dataset.Table, avail render.Availability, q url.Values) {
	p.X = selection(q, "x", p.Numeric[0])
	p.Y = selection(q, "y", p.Numeric[min(1, len(p.Numeric)-1)])
	var ue *render.UnavailableError
	switch err := render.CheckScatter(t, p.X, p.Y); {
	case !avail.Scatter:
		p.ScatterNotice = avail.ScatterReason
	case errors.As(err, &ue):
		p.ScatterNotice = ue.Reason
	case err != nil:
		p.ScatterError = err.Error()
	default:
		p.ScatterURL = "/charts/scatter.png?" + url.Values{"x": {p.X}, "y": {p.Y}}.Encode()
	}

	if avail.Heatmap {
		p.HeatmapURL = "/charts/heatmap.png"
	} else {
		p.HeatmapNotice = avail.HeatmapReason
	}
}

func (s *Server) categoricalView(p *pageData, t *dataset.Table, avail render.Availability, q url.Values) {
	p.Column = selection(q, "column", p.NonNumeric[0])
	if !avail.Bar {
		p.BarNotice = avail.BarReason
		return
	}
	col, err := t.Lookup(p.Column, dataset.KindText)
	if err != nil {
		p.BarError = err.Error()
		return
	}
	p.BarCounts, p.BarRest = analysis.TopCounts(analysis.ValueCounts(col), render.MaxBars)
	if p.BarRest.Values > 0 {
		p.BarOther = render.OtherLabel(p.BarRest)
	}
	if len(p.BarCounts) == 0 {
		p.BarNotice = fmt.Sprintf("column %q has no values", p.Column)
		return
	}
	p.BarURL = "/charts/bar.png?" + url.Values{"column": {p.Column}}.Encode()
}

func selection(q url.Values, key, def string) string {
	if _, ok := q[key]; ok {
		return q.Get(key)
	}
	return def
}
