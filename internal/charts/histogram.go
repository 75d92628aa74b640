package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"edalens/internal/errors"
)

// SturgesBins returns ceil(log2(n)) + 1 bins, at least 1
func SturgesBins(n int) int {
	if n < 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram renders the distribution of one numeric column. Non-finite values are skipped.
func (r *Renderer) Histogram(column string, values []float64) (Chart, error) {
	finite := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	title := fmt.Sprintf("Distribution of %s", column)
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Color = textColor
	p.X.Label.Text = column
	p.Y.Label.Text = "count"

	if len(finite) > 0 {
		h, err := plotter.NewHist(finite, SturgesBins(len(finite)))
		if err != nil {
			return Chart{}, errors.Wrapf(err, "failed to bin %s", column)
		}
		h.FillColor = barColor
		h.LineStyle.Width = 0
		p.Add(h)
	}

	svg, err := encodeSVG(p, r.small)
	if err != nil {
		return Chart{}, err
	}
	return Chart{Title: title, Column: column, SVG: svg}, nil
}
