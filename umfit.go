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

	"gonum.org/v1/gonum/floats"
)

const (
	// numAlpha is the number of α values in the UM fit search grid.
	numAlpha = 400
	// alphaMin and alphaMax bound the α search grid.
	alphaMin, alphaMax = 0.01, 2.0
	// alphaStart is the α value of the initial UM fit incumbent.
	alphaStart = 0.005
)

// UMFunction returns the universal multifractal moment scaling function
// K(q) = C₁/(α-1) · (q^α - q).
func UMFunction(alpha, c1, q float64) float64 {
	return c1 / (alpha - 1) * (math.Pow(q, alpha) - q)
}

// umError returns the mean relative error between the UM model with
// parameters alpha and c1 and the empirical k at the moments qs.
func umError(alpha, c1 float64, k, qs []float64) float64 {
	var sum float64
	for i, q := range qs {
		sum += math.Abs((UMFunction(alpha, c1, q) - k[i]) / k[i])
	}
	return sum / float64(len(qs))
}

// linspace returns n evenly spaced values from l to u inclusive.
func linspace(l, u float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{l}
	}
	v := floats.Span(make([]float64, n), l, u)
	v[n-1] = u
	return v
}

// UMFit fits the universal multifractal model to the moment scaling
// function k evaluated at moments, by exhaustive search over a grid of
// C₁ from cMin to cMax with ceil((cMax-cMin)/cStep) points and 400 values
// of α from 0.01 to 2.0 (excluding 1). The objective is the mean relative
// error over the moments not equal to 1. The search starts from
// α=0.005, C₁=cMin and only accepts strict improvements, so the result
// is deterministic. It returns the fitted α, C₁ and the fit error.
func UMFit(k, moments []float64, cMin, cMax, cStep float64) (alpha, c1, fitErr float64, err error) {
	if len(k) != len(moments) {
		return math.NaN(), math.NaN(), math.NaN(), ConfigurationError{Option: "moments",
			Reason: fmt.Sprintf("%d moments but K has %d values", len(moments), len(k))}
	}
	if !(cStep > 0) || cMax < cMin {
		return math.NaN(), math.NaN(), math.NaN(), ConfigurationError{Option: "C1 grid",
			Reason: fmt.Sprintf("min=%g, max=%g, step=%g", cMin, cMax, cStep)}
	}
	var qs, ks []float64
	for i, q := range moments {
		if momentIndex([]float64{q}, 1) == 0 {
			continue
		}
		qs = append(qs, q)
		ks = append(ks, k[i])
	}
	if len(qs) == 0 {
		return math.NaN(), math.NaN(), math.NaN(), ConfigurationError{Option: "moments",
			Reason: "no moments other than 1 to fit"}
	}

	cValues := linspace(cMin, cMax, int(math.Ceil((cMax-cMin)/cStep)))
	var alphaValues []float64
	for _, a := range linspace(alphaMin, alphaMax, numAlpha) {
		if a != 1 {
			alphaValues = append(alphaValues, a)
		}
	}

	alpha, c1 = alphaStart, cMin
	fitErr = umError(alpha, c1, ks, qs)
	for _, c := range cValues {
		for _, a := range alphaValues {
			if e := umError(a, c, ks, qs); e < fitErr {
				alpha, c1, fitErr = a, c, e
			}
		}
	}
	return alpha, c1, fitErr, nil
}
