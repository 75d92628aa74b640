package charts

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"edalens/internal/analysis"
	"edalens/internal/errors"
)

// matrixGrid adapts a correlation matrix to plotter.GridXYZ with row 0 drawn at the top
type matrixGrid struct {
	m *analysis.CorrelationMatrix
}

func (g matrixGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g matrixGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.At(n-1-r, c)
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

// Heatmap renders the matrix on a diverging blue-white-red scale fixed to [-1, 1], one annotation per cell
func (r *Renderer) Heatmap(m *analysis.CorrelationMatrix) (Chart, error) {
	const title = "Correlation Matrix"
	if m == nil || len(m.Columns) == 0 {
		return Chart{}, errors.InvalidInput("empty correlation matrix")
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	grid := matrixGrid{m: m}
	hm := plotter.NewHeatMap(grid, cmap.Palette(255))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = nanColor

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Color = textColor
	p.Add(hm)

	labels, err := cellLabels(grid)
	if err != nil {
		return Chart{}, err
	}
	p.Add(labels)

	reversed := slices.Clone(m.Columns)
	slices.Reverse(reversed)
	p.NominalX(m.Columns...)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	svg, err := encodeSVG(p, r.large)
	if err != nil {
		return Chart{}, err
	}
	return Chart{Title: title, SVG: svg}, nil
}

func cellLabels(g matrixGrid) (*plotter.Labels, error) {
	cols, rows := g.Dims()
	data := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, cols*rows),
		Labels: make([]string, 0, cols*rows),
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			data.XYs = append(data.XYs, plotter.XY{X: g.X(c), Y: g.Y(r)})
			data.Labels = append(data.Labels, formatCell(g.Z(c, r)))
		}
	}

	labels, err := plotter.NewLabels(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to annotate heatmap")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	return labels, nil
}

func formatCell(r float64) string {
	if math.IsNaN(r) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", r)
}
