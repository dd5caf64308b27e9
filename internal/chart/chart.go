// Package chart renders the dashboard charts with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"university-browser-backend/internal/browser"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

var (
	barColor     = color.RGBA{R: 126, G: 3, B: 168, A: 255}
	lineColor    = color.RGBA{R: 192, G: 132, B: 245, A: 255} // #c084f5
	markerColor  = color.RGBA{R: 106, G: 13, B: 173, A: 255}  // #6a0dad
	sectorColors = []color.Color{
		color.RGBA{R: 31, G: 119, B: 180, A: 255},  // #1f77b4
		color.RGBA{R: 172, G: 137, B: 204, A: 255}, // #ac89cc
		color.RGBA{R: 255, G: 127, B: 14, A: 255},
		color.RGBA{R: 44, G: 160, B: 44, A: 255},
	}
)

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer returns a renderer producing charts of the given size in inches.
func NewRenderer(widthInches, heightInches float64) *Renderer {
	return &Renderer{
		width:  vg.Length(widthInches) * vg.Inch,
		height: vg.Length(heightInches) * vg.Inch,
	}
}

// ProvinceBar renders one bar per province with the count printed above each bar.
func (r *Renderer) ProvinceBar(counts []browser.CategoryCount, format string) (io.WriterTo, error) {
	p := newPlot("Province-wise University Count")
	p.X.Label.Text = "Province"
	p.Y.Label.Text = "Count"

	if len(counts) > 0 {
		values := make(plotter.Values, len(counts))
		names := make([]string, len(counts))
		labels := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(counts)),
			Labels: make([]string, len(counts)),
		}
		for i, c := range counts {
			values[i] = float64(c.Count)
			names[i] = c.Value
			labels.XYs[i] = plotter.XY{X: float64(i), Y: float64(c.Count)}
			labels.Labels[i] = strconv.Itoa(c.Count)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return nil, fmt.Errorf("failed to build bar chart: %w", err)
		}
		bars.Color = barColor
		bars.LineStyle.Width = 0

		text, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("failed to build bar labels: %w", err)
		}
		for i := range text.TextStyle {
			text.TextStyle[i].XAlign = draw.XCenter
			text.TextStyle[i].Font.Size = vg.Points(8)
		}
		text.Offset = vg.Point{Y: vg.Points(3)}

		p.Add(bars, text)
		p.NominalX(names...)
		p.Y.Min = 0
		p.Y.Max = maxValue(values) * 1.15
	}

	return r.writer(p, format)
}

// SectorPie renders the sector distribution as a pie with a legend.
func (r *Renderer) SectorPie(counts []browser.CategoryCount, format string) (io.WriterTo, error) {
	p := newPlot("Sector-wise Distribution")
	p.HideAxes()

	pie := newPieChart(counts, sectorColors)
	p.Add(pie)
	for i, c := range counts {
		p.Legend.Add(c.Value, pieThumb{color: pie.colorAt(i)})
	}
	p.Legend.Top = true

	return r.writer(p, format)
}

// Timeline renders universities established per year as a dotted line with markers.
func (r *Renderer) Timeline(points []browser.YearCount, format string) (io.WriterTo, error) {
	p := newPlot("Universities Established Over Time")
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Count"

	if len(points) > 0 {
		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i] = plotter.XY{X: float64(pt.Year), Y: float64(pt.Count)}
		}

		line, scatter, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build timeline: %w", err)
		}
		line.Color = lineColor
		line.Width = vg.Points(1.5)
		line.Dashes = []vg.Length{vg.Points(1.5), vg.Points(3)}
		scatter.Color = markerColor
		scatter.Radius = vg.Points(3)
		scatter.Shape = draw.CircleGlyph{}

		p.Add(plotter.NewGrid(), line, scatter)
		p.Y.Min = 0
		p.X.Tick.Marker = yearTicks{}
	}

	return r.writer(p, format)
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	return p
}

func (r *Renderer) writer(p *plot.Plot, format string) (io.WriterTo, error) {
	switch format {
	case FormatPNG, FormatSVG:
	default:
		return nil, fmt.Errorf("unsupported chart format %q", format)
	}
	w, err := p.WriterTo(r.width, r.height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return w, nil
}

func maxValue(values plotter.Values) float64 {
	m := 1.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// yearTicks labels whole years only.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		if ticks[i].Value != math.Trunc(ticks[i].Value) {
			ticks[i].Label = ""
			continue
		}
		ticks[i].Label = strconv.Itoa(int(ticks[i].Value))
	}
	return ticks
}
