// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package overlay

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A layerPlot draws the layers of a densitree
// on a gonum plot.
// The vertical axis is negated,
// so the first tip slot is at the top,
// as in the SVG output.
type layerPlot struct {
	p *Plot
}

// DataRange implements the plot.DataRanger interface.
func (lp layerPlot) DataRange() (xMin, xMax, yMin, yMax float64) {
	first := true
	for _, tab := range lp.p.layers {
		for _, ln := range lp.p.polylines(tab) {
			for _, pt := range lp.p.transform(ln) {
				if first {
					xMin, xMax = pt.x, pt.x
					yMin, yMax = -pt.y, -pt.y
					first = false
					continue
				}
				if pt.x < xMin {
					xMin = pt.x
				}
				if pt.x > xMax {
					xMax = pt.x
				}
				if -pt.y < yMin {
					yMin = -pt.y
				}
				if -pt.y > yMax {
					yMax = -pt.y
				}
			}
		}
	}
	xMax += lp.p.labelSpace()
	return xMin, xMax, yMin, yMax
}

// Plot implements the plot.Plotter interface.
func (lp layerPlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for i, tab := range lp.p.layers {
		cl := lp.p.layerColor(i)
		c.SetLineStyle(draw.LineStyle{
			Color: color.NRGBA{R: cl.R, G: cl.G, B: cl.B, A: 127},
			Width: vg.Points(1),
		})
		for _, ln := range lp.p.polylines(tab) {
			var path vg.Path
			for j, pt := range lp.p.transform(ln) {
				v := vg.Point{X: trX(pt.x), Y: trY(-pt.y)}
				if j == 0 {
					path.Move(v)
					continue
				}
				path.Line(v)
			}
			c.Stroke(path)
		}
	}
}

// Plotter returns a plotter
// with the layers of the densitree,
// to be added to a gonum plot.
func (p *Plot) Plotter() plot.Plotter {
	return layerPlot{p: p}
}

// PNG writes a densitree as a PNG file
// of the indicated size.
func (p *Plot) PNG(w io.Writer, width, height vg.Length) error {
	plt := plot.New()
	plt.HideAxes()
	plt.Add(layerPlot{p: p})

	if !p.noLabels {
		lb, err := p.labels()
		if err != nil {
			return err
		}
		plt.Add(lb)
	}

	wt, err := plt.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(w); err != nil {
		return err
	}
	return nil
}

func (p *Plot) labels() (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(p.order))
	for i := range p.order {
		pt := p.tipPoint(i)
		xys[i] = plotter.XY{X: pt.x, Y: -pt.y}
	}
	return plotter.NewLabels(plotter.XYLabels{
		XYs:    xys,
		Labels: p.Order(),
	})
}
