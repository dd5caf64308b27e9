package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"university-browser-backend/internal/browser"
)

// pieChart is a plot.Plotter drawing one slice per category, starting at twelve o'clock.
type pieChart struct {
	counts []browser.CategoryCount
	colors []color.Color
	total  int
}

func newPieChart(counts []browser.CategoryCount, colors []color.Color) *pieChart {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return &pieChart{counts: counts, colors: colors, total: total}
}

func (pc *pieChart) colorAt(i int) color.Color {
	return pc.colors[i%len(pc.colors)]
}

// Plot implements plot.Plotter.
func (pc *pieChart) Plot(c draw.Canvas, plt *plot.Plot) {
	if pc.total == 0 {
		return
	}

	center := c.Center()
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius = radius / 2 * 0.9

	sty := draw.TextStyle{
		Color:   color.White,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
	}
	sty.Font.Size = vg.Points(9)

	start := math.Pi / 2
	for i, cnt := range pc.counts {
		if cnt.Count == 0 {
			continue
		}
		share := float64(cnt.Count) / float64(pc.total)
		sweep := -share * 2 * math.Pi // clockwise

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()

		c.SetColor(pc.colorAt(i))
		c.Fill(path)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(path)

		mid := start + sweep/2
		at := vg.Point{
			X: center.X + radius*0.6*vg.Length(math.Cos(mid)),
			Y: center.Y + radius*0.6*vg.Length(math.Sin(mid)),
		}
		c.FillText(sty, at, fmt.Sprintf("%.1f%%", share*100))

		start += sweep
	}
}

// pieThumb is the legend swatch for one slice.
type pieThumb struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (t pieThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(t.color, c.ClipPolygonY(pts))
}
