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

package multifractal

import "math"

// Defaults holds the default parameter values used when an analysis
// option is not specified.
type Defaults struct {
	// FluxMomenta are the moment orders used for flux box scaling.
	FluxMomenta []float64
	// IncMomenta are the moment orders used for increment scaling.
	// They must include 1.
	IncMomenta []float64

	// MaxScale, MinScale and ScaleCoeff define the geometric progression
	// of analysis scales.
	MaxScale, MinScale, ScaleCoeff float64

	// Mask is the value that marks invalid (e.g. land) pixels.
	Mask float64

	// RatioBound limits the fractional deviation of redistributed
	// fluctuations during extrapolation.
	RatioBound float64

	// StepSize is the radius in pixels at which fluxes are calculated.
	StepSize float64

	// Anisotropy is the ratio of box extent in the longitude direction
	// to box extent in the latitude direction.
	Anisotropy float64

	// CMin, CMax and CStep define the C1 search grid of the UM fit.
	CMin, CMax, CStep float64

	// LinearRangeMoment is the flux moment order used to find the
	// range of scales over which the log-log scaling is linear, and
	// OuterScaleMoment is the flux moment order used to calculate
	// the outer scale. The nearest available moment is used.
	LinearRangeMoment, OuterScaleMoment float64
}

// DefaultValues returns the default analysis parameters.
func DefaultValues() Defaults {
	return Defaults{
		FluxMomenta:       Arange(0.05, 3.25, 0.2),
		IncMomenta:        Arange(0.2, 3.2, 0.2),
		MaxScale:          90.0,
		MinScale:          3.0,
		ScaleCoeff:        1.1,
		Mask:              0,
		RatioBound:        0.99,
		StepSize:          1.0,
		Anisotropy:        1.0,
		CMin:              0,
		CMax:              2.0,
		CStep:             0.001,
		LinearRangeMoment: 2.05,
		OuterScaleMoment:  1.85,
	}
}

// Arange returns evenly spaced values in the half-open interval
// [start, stop), where value i is start + i*step.
func Arange(start, stop, step float64) []float64 {
	if step == 0 || (stop-start)/step <= 0 {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	o := make([]float64, n)
	for i := range o {
		o[i] = start + float64(i)*step
	}
	return o
}
