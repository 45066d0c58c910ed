package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/KaramelBytes/dataglance/internal/analysis"
	"github.com/KaramelBytes/dataglance/internal/dataset"
)

const (
	heatTitle     = "Correlation heatmap"
	heatMinCell   = 36
	heatLabelMax  = 16
	heatPad       = 12
	heatTitleH    = 30
	heatBarWidth  = 14
	heatBarMargin = 44
)

var (
	coolBlue  = color.RGBA{R: 59, G: 76, B: 192, A: 255}
	coolWhite = color.RGBA{R: 221, G: 221, B: 221, A: 255}
	warmRed   = color.RGBA{R: 180, G: 4, B: 38, A: 255}
	naGrey    = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

// CorrelationHeatmap draws the Pearson matrix of the numeric columns, at most
// MaxHeatmapColumns of them. Each cell carries its two-decimal value when it
// fits; undefined cells are grey and read n/a.
func CorrelationHeatmap(t *dataset.Table, opt Options) (*Image, error) {
	if err := Available(t).Check(ChartHeatmap); err != nil {
		return nil, err
	}
	m := analysis.CorrelationsFirst(t, MaxHeatmapColumns)
	opt = opt.normalized()
	face := basicfont.Face7x13
	n := len(m.Columns)

	title := heatTitle
	if total := len(dataset.Classify(t).Numeric); total > n {
		title = fmt.Sprintf("%s (first %d of %d numeric columns)", heatTitle, n, total)
	}

	labels := make([]string, n)
	labelW := 0
	for i, c := range m.Columns {
		labels[i] = truncate(c, heatLabelMax)
		if w := font.MeasureString(face, labels[i]).Ceil(); w > labelW {
			labelW = w
		}
	}
	lineH := face.Metrics().Height.Ceil()

	left := heatPad + labelW + 6
	top := heatTitleH
	bottom := lineH + heatPad + 6
	right := heatBarMargin + heatBarWidth + heatPad

	cell := min((opt.Width-left-right)/n, (opt.Height-top-bottom)/n)
	cell = max(cell, heatMinCell)
	cell = min(cell, (MaxCanvas-left-right)/n, (MaxCanvas-top-bottom)/n)
	cell = max(cell, 1)
	width := max(opt.Width, left+n*cell+right)
	height := max(opt.Height, top+n*cell+bottom)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	ink := image.NewUniform(color.Black)

	drawText(img, face, ink, max(heatPad, (width-font.MeasureString(face, title).Ceil())/2), heatTitleH-10, title)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := m.Values[i][j]
			rect := image.Rect(left+j*cell, top+i*cell, left+(j+1)*cell, top+(i+1)*cell)
			draw.Draw(img, rect, image.NewUniform(diverging(r)), image.Point{}, draw.Src)

			text := analysis.NotApplicable
			if !math.IsNaN(r) {
				text = fmt.Sprintf("%.2f", r)
			}
			tw := font.MeasureString(face, text).Ceil()
			if tw > cell-2 {
				continue
			}
			src := ink
			if !math.IsNaN(r) && math.Abs(r) > 0.6 {
				src = image.NewUniform(color.White)
			}
			drawText(img, face, src, rect.Min.X+(cell-tw)/2, rect.Min.Y+(cell+lineH)/2-2, text)
		}
	}

	for i, l := range labels {
		lw := font.MeasureString(face, l).Ceil()
		drawText(img, face, ink, left-6-lw, top+i*cell+(cell+lineH)/2-2, l)

		short := []rune(l)
		for len(short) > 1 && font.MeasureString(face, string(short)).Ceil() > cell-2 {
			short = short[:len(short)-1]
		}
		sw := font.MeasureString(face, string(short)).Ceil()
		drawText(img, face, ink, left+i*cell+(cell-sw)/2, top+n*cell+lineH+4, string(short))
	}

	drawColorBar(img, face, ink, left+n*cell+heatBarMargin/2, top, n*cell, lineH)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode heatmap: %w", err)
	}
	return &Image{Title: title, PNG: buf.Bytes(), Width: width, Height: height}, nil
}

func drawColorBar(img *image.RGBA, face font.Face, ink image.Image, x, y, h, lineH int) {
	if h <= 0 {
		return
	}
	for dy := 0; dy < h; dy++ {
		r := 1 - 2*float64(dy)/float64(max(h-1, 1))
		line := image.Rect(x, y+dy, x+heatBarWidth, y+dy+1)
		draw.Draw(img, line, image.NewUniform(diverging(r)), image.Point{}, draw.Src)
	}
	tx := x + heatBarWidth + 4
	drawText(img, face, ink, tx, y+lineH-3, "1")
	drawText(img, face, ink, tx, y+h/2+lineH/2-2, "0")
	drawText(img, face, ink, tx, y+h-2, "-1")
}

func drawText(dst draw.Image, face font.Face, src image.Image, x, y int, s string) {
	d := &font.Drawer{Dst: dst, Src: src, Face: face, Dot: fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}}
	d.DrawString(s)
}

// diverging maps r in [-1, 1] onto blue-white-red; NaN is grey.
func diverging(r float64) color.RGBA {
	if math.IsNaN(r) {
		return naGrey
	}
	r = math.Max(-1, math.Min(1, r))
	if r < 0 {
		return lerp(coolWhite, coolBlue, -r)
	}
	return lerp(coolWhite, warmRed, r)
}

func lerp(a, b color.RGBA, w float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*w)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
