/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package mfplot draws the scaling curves and moment scaling functions
// calculated by package multifractal.
package mfplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/spatialmodel/multifractal"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	figWidth  = 6 * vg.Inch
	figHeight = 4 * vg.Inch

	// kPoints is the number of points used to draw the fitted K(q).
	kPoints = 100
)

// logXYs returns the base-10 logarithms of the points (x[i], y[i]),
// skipping points where either value is not positive.
func logXYs(x, y []float64) plotter.XYs {
	var o plotter.XYs
	for i, xv := range x {
		if xv <= 0 || y[i] <= 0 {
			continue
		}
		o = append(o, struct{ X, Y float64 }{math.Log10(xv), math.Log10(y[i])})
	}
	return o
}

// ScalingPlot returns a log-log plot of curve, with one line for each
// moment order.
func ScalingPlot(curve *multifractal.ScalingCurve, title string) (*plot.Plot, error) {
	if curve.Len() == 0 {
		return nil, fmt.Errorf("mfplot: scaling curve %q has no scales", title)
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = title
	p.X.Label.Text = "log₁₀(scale)"
	p.Y.Label.Text = "log₁₀(statistic)"
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.ThumbnailWidth = 0.15 * vg.Inch

	for k, q := range curve.Moments {
		xy := logXYs(curve.Scales, curve.Column(k))
		if len(xy) == 0 {
			continue
		}
		l, s, err := plotter.NewLinePoints(xy)
		if err != nil {
			return nil, fmt.Errorf("mfplot: moment %g: %w", q, err)
		}
		l.Color = plotutil.Color(k)
		s.Color = plotutil.Color(k)
		s.Shape = draw.CircleGlyph{}
		s.Radius = vg.Points(1.5)
		p.Add(l, s)
		p.Legend.Add(fmt.Sprintf("q=%.2f", q), l)
	}
	return p, nil
}

// KPlot returns a plot of the empirical moment scaling function k at
// the given moment orders, together with the universal multifractal
// model with parameters alpha and c1.
func KPlot(moments, k []float64, alpha, c1 float64) (*plot.Plot, error) {
	if len(moments) != len(k) || len(moments) == 0 {
		return nil, fmt.Errorf("mfplot: %d moments and %d K values", len(moments), len(k))
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = "Moment scaling function"
	p.X.Label.Text = "q"
	p.Y.Label.Text = "K(q)"
	p.Legend.Top = true
	p.Legend.Left = true

	empirical := make(plotter.XYs, len(moments))
	qMax := 0.
	for i, q := range moments {
		empirical[i].X, empirical[i].Y = q, k[i]
		qMax = math.Max(qMax, q)
	}
	s, err := plotter.NewScatter(empirical)
	if err != nil {
		return nil, err
	}
	s.Shape = draw.CircleGlyph{}
	s.Color = color.Black

	model := make(plotter.XYs, kPoints)
	for i := range model {
		q := qMax * float64(i) / float64(kPoints-1)
		model[i].X, model[i].Y = q, multifractal.UMFunction(alpha, c1, q)
	}
	l, err := plotter.NewLine(model)
	if err != nil {
		return nil, err
	}
	l.Color = color.NRGBA{R: 255, A: 255}

	p.Add(s, l)
	p.Legend.Add("empirical", s)
	p.Legend.Add(fmt.Sprintf("UM α=%.3f, C₁=%.3f", alpha, c1), l)
	return p, nil
}

// Save writes p to path. The format is chosen from the file
// extension, e.g. ".png" or ".svg".
func Save(p *plot.Plot, path string) error {
	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("mfplot: saving %s: %w", path, err)
	}
	return nil
}
