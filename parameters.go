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

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// linearRangePasses is the number of times the range of scales used to
// calculate the flux scaling exponents is narrowed.
const linearRangePasses = 4

// linearRangeFraction is the fraction of the scales with a positive
// fitted log-log line that is kept in each narrowing pass.
const linearRangeFraction = 2.0 / 3.0

// Parameters holds the universal multifractal parameters of a field.
type Parameters struct {
	// H is the scaling exponent of the first-order increments.
	H float64

	// Alpha is the multifractality index and C1 is the codimension of
	// the mean of the fitted UM model.
	Alpha, C1 float64

	// OuterScale is the scale at which the flux scaling extrapolates to
	// zero, in units of the region size.
	OuterScale float64

	// FluctuationAmplitude relates the first-order increments to
	// scale: <|Δfield|> = FluctuationAmplitude · scale^H.
	FluctuationAmplitude float64

	// FitError is the mean relative error of the UM fit.
	FitError float64
}

// Vector returns the parameters in the order
// [H, α, C₁, outer scale, fluctuation amplitude, fit error].
func (p *Parameters) Vector() []float64 {
	return []float64{p.H, p.Alpha, p.C1, p.OuterScale, p.FluctuationAmplitude, p.FitError}
}

// ExtractConfig holds the options for UMParameters.
type ExtractConfig struct {
	// LinearRangeMoment is the flux moment order used to find the
	// linear range of the flux scaling curves. The nearest available
	// moment is used.
	LinearRangeMoment float64

	// OuterScaleMoment is the flux moment order used to calculate the
	// outer scale. The nearest available moment is used.
	OuterScaleMoment float64

	// CMin, CMax and CStep define the C1 search grid of the UM fit.
	CMin, CMax, CStep float64

	// Log receives progress information. It can be nil.
	Log logrus.FieldLogger
}

// ExtractConfig returns the default parameter extraction options.
func (d Defaults) ExtractConfig() *ExtractConfig {
	return &ExtractConfig{
		LinearRangeMoment: d.LinearRangeMoment,
		OuterScaleMoment:  d.OuterScaleMoment,
		CMin:              d.CMin,
		CMax:              d.CMax,
		CStep:             d.CStep,
	}
}

// logLogFit returns the least-squares slope and intercept of
// log(values) against log(scales).
func logLogFit(scales, values []float64, what string) (slope, intercept float64, err error) {
	if len(scales) < 2 {
		return math.NaN(), math.NaN(), DegenerateScalingError{What: what, Scales: len(scales)}
	}
	x := make([]float64, len(scales))
	y := make([]float64, len(values))
	for i, s := range scales {
		x[i] = math.Log(s)
		y[i] = math.Log(values[i])
	}
	if stat.Variance(x, nil) == 0 {
		return math.NaN(), math.NaN(), DegenerateScalingError{What: what, Scales: len(scales)}
	}
	intercept, slope = stat.LinearRegression(x, y, nil, false)
	return slope, intercept, nil
}

// linearRange returns the number of leading scales over which the
// log-log flux scaling curve for moment index ref is approximately
// linear. Starting with the first 2/3 of the scales, it fits a line,
// counts the scales where the fitted line is positive over the full
// range of scales, and keeps 2/3 of those. This is repeated a fixed
// number of times; convergence is not checked.
func linearRange(flux *ScalingCurve, ref int) (int, error) {
	values := flux.Column(ref)
	n := int(linearRangeFraction * float64(flux.Len()))
	for pass := 0; pass < linearRangePasses; pass++ {
		if n > flux.Len() {
			n = flux.Len()
		}
		slope, intercept, err := logLogFit(flux.Scales[:n], values[:n], "flux linear range")
		if err != nil {
			return 0, err
		}
		var positive int
		for _, s := range flux.Scales {
			if intercept+slope*math.Log(s) > 0 {
				positive++
			}
		}
		n = int(linearRangeFraction * float64(positive))
	}
	return n, nil
}

// UMParameters calculates the moment scaling function K(q) and the
// universal multifractal parameters from the box scaling of the fluxes
// (flux, calculated with the Moment output) and the increment scaling
// of the field (inc).
//
// H is the log-log slope of the first-order increment scaling, so
// inc.Moments must include 1. K(q) is the negative log-log slope of the
// flux scaling over the range of scales where the scaling is
// approximately linear, and α and C₁ are fitted to K(q) with UMFit.
func UMParameters(flux, inc *ScalingCurve, c *ExtractConfig) ([]float64, *Parameters, error) {
	if flux == nil || flux.Len() < 2 {
		n := 0
		if flux != nil {
			n = flux.Len()
		}
		return nil, nil, DegenerateScalingError{What: "flux scaling", Scales: n}
	}
	if inc == nil || inc.Len() == 0 {
		return nil, nil, InsufficientSamplesError{MinPairs: minIncrementPairs}
	}
	if len(flux.Moments) == 0 {
		return nil, nil, ConfigurationError{Option: "momenta_flux", Reason: "no moments"}
	}
	log := fieldLogger(c.Log)

	first := momentIndex(inc.Moments, 1)
	if first < 0 {
		return nil, nil, ConfigurationError{Option: "momenta_inc",
			Reason: fmt.Sprintf("moment order 1 is required but moments are %v", inc.Moments)}
	}
	p := new(Parameters)
	var aInc float64
	var err error
	p.H, aInc, err = logLogFit(inc.Scales, inc.Column(first), "increment scaling")
	if err != nil {
		return nil, nil, err
	}
	p.FluctuationAmplitude = math.Exp(aInc)

	n, err := linearRange(flux, nearestMoment(flux.Moments, c.LinearRangeMoment))
	if err != nil {
		return nil, nil, err
	}
	linear := flux.truncate(n)
	log.WithFields(logrus.Fields{
		"scales":        flux.Len(),
		"linear_scales": linear.Len(),
	}).Debug("multifractal: flux linear range")

	k := make([]float64, len(flux.Moments))
	aFlux := make([]float64, len(flux.Moments))
	for m := range flux.Moments {
		slope, intercept, err := logLogFit(linear.Scales, linear.Column(m), "flux scaling")
		if err != nil {
			return nil, nil, err
		}
		k[m] = -slope
		aFlux[m] = intercept
	}
	o := nearestMoment(flux.Moments, c.OuterScaleMoment)
	p.OuterScale = math.Exp(aFlux[o] / k[o])

	p.Alpha, p.C1, p.FitError, err = UMFit(k, flux.Moments, c.CMin, c.CMax, c.CStep)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"H":           p.H,
		"alpha":       p.Alpha,
		"C1":          p.C1,
		"outer_scale": p.OuterScale,
		"fit_error":   p.FitError,
	}).Info("multifractal: UM parameters")
	return k, p, nil
}
