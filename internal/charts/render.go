// Package charts renders the dashboard figures as standalone SVG documents.
package charts

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"edalens/internal/errors"
)

var (
	barColor  = color.RGBA{R: 0x44, G: 0x72, B: 0xc4, A: 0xff}
	nanColor  = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	textColor = color.RGBA{R: 0x1f, G: 0x4e, B: 0x79, A: 0xff}
)

// Chart is one rendered figure
type Chart struct {
	Title  string `json:"title"`
	Column string `json:"column,omitempty"`
	SVG    string `json:"svg"`
}

// Size is a canvas size in points
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// Renderer draws charts at fixed sizes
type Renderer struct {
	small Size
	large Size
}

// NewRenderer uses 300pt tall tiles for distributions and a 600pt heatmap
func NewRenderer() *Renderer {
	return &Renderer{
		small: Size{Width: vg.Points(360), Height: vg.Points(300)},
		large: Size{Width: vg.Points(720), Height: vg.Points(600)},
	}
}

// encodeSVG draws p onto an SVG canvas without embedding font data
func encodeSVG(p *plot.Plot, size Size) (string, error) {
	canvas := vgsvg.NewWith(
		vgsvg.UseWH(size.Width, size.Height),
		vgsvg.EmbedFonts(false),
	)
	p.Draw(draw.New(canvas))

	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		return "", errors.Wrap(err, "failed to encode SVG")
	}
	return buf.String(), nil
}
