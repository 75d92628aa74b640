package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"edalens/internal/errors"
	"edalens/internal/profiling"
)

// maxTickLabel truncates long category names on the x axis
const maxTickLabel = 18

// Bar renders category frequencies in the order given
func (r *Renderer) Bar(column string, counts []profiling.CategoryCount) (Chart, error) {
	title := fmt.Sprintf("Distribution of %s", column)
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Color = textColor
	p.Y.Label.Text = "count"

	if len(counts) > 0 {
		values := make(plotter.Values, len(counts))
		names := make([]string, len(counts))
		for i, c := range counts {
			values[i] = float64(c.Count)
			names[i] = shorten(c.Value, maxTickLabel)
		}

		width := (r.small.Width - vg.Points(60)) / vg.Length(len(counts)+1)
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return Chart{}, errors.Wrapf(err, "failed to build bars for %s", column)
		}
		bars.Color = barColor
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	svg, err := encodeSVG(p, r.small)
	if err != nil {
		return Chart{}, err
	}
	return Chart{Title: title, Column: column, SVG: svg}, nil
}

func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
