package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/protectedareas/wdpa-server/internal/domain"
	"github.com/protectedareas/wdpa-server/internal/errors"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

var barColor = color.RGBA{R: 34, G: 139, B: 34, A: 255}

// WriteBarChart renders a PNG bar chart of one country's percentages for a dimension.
// Rows with an undefined percent are not plotted.
func WriteBarChart(w io.Writer, cb domain.CountryBreakdown, dim domain.Dimension) error {
	rows := cb.Rows(dim)

	values := make(plotter.Values, 0, len(rows))
	labels := make([]string, 0, len(rows))
	for _, r := range rows {
		if !r.Percent.Defined {
			continue
		}
		values = append(values, r.Percent.Value)
		labels = append(labels, r.Category)
	}
	if len(values) == 0 {
		return errors.NotFoundf("no chartable rows for %s by %s", cb.CountryCode, dim)
	}

	name := cb.CountryName
	if name == "" {
		name = cb.CountryCode
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s", name, dim.Label())
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = dim.Label()
	p.Y.Label.Text = "Percent of country total"
	p.Y.Min = 0
	p.Y.Max = math.Min(100, maxOf(values)*1.15)

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "build bar chart")
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Add(plotter.NewGrid())

	p.NominalX(labels...)
	if len(labels) > 4 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.XAlign = draw.XRight
	}

	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "render chart")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "write chart")
	}
	return nil
}

func maxOf(values plotter.Values) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, v)
	}
	if m == 0 {
		return 1
	}
	return m
}
