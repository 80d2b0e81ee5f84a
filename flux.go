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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
)

// Fluxes calculates the normalized flux field of field at the scale
// stepSize (in pixels). The flux at each valid pixel is the mean absolute
// difference between the pixel and the valid pixels that lie on the
// discretized circle of radius stepSize around it, where longitudinal
// distances are scaled by the geometric factor. The flux field is then
// divided by its mean so that its valid entries average to one. Pixels
// that are masked, or that have no valid neighbours on the circle,
// are set to mask.
func Fluxes(field, latitudes *sparse.DenseArray, stepSize, mask float64) (*sparse.DenseArray, error) {
	if !(stepSize > 0) {
		return nil, ConfigurationError{Option: "step_size", Reason: fmt.Sprintf("%g is not > 0", stepSize)}
	}
	gf, err := GeometricFactor(field, latitudes, mask)
	if err != nil {
		return nil, err
	}
	if err := checkFactor(gf); err != nil {
		return nil, err
	}
	ny, nx := field.Shape[0], field.Shape[1]

	radius := math.Round(stepSize)
	dLat := int(radius)
	dLon := int(math.Round(stepSize / gf))

	flux := sparse.ZerosDense(ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			flux.Set(mask, j, i)
			v := field.Get(j, i)
			if v == mask {
				continue
			}
			var sum float64
			var n int
			for jj := max(j-dLat, 0); jj < min(ny, j+dLat+1); jj++ {
				for ii := max(i-dLon, 0); ii < min(nx, i+dLon+1); ii++ {
					x := float64(ii-i) * gf
					y := float64(jj - j)
					if math.Round(math.Sqrt(x*x+y*y)) != radius {
						continue
					}
					if w := field.Get(jj, ii); w != mask {
						sum += math.Abs(w - v)
						n++
					}
				}
			}
			if n > 0 {
				flux.Set(sum/float64(n), j, i)
			}
		}
	}

	valid := validValues(flux, mask)
	if len(valid) == 0 {
		return nil, DegenerateInputError{What: "mean flux"}
	}
	mean := stat.Mean(valid, nil)
	if mean == 0 {
		return nil, DegenerateInputError{What: "flux normalization (all fluxes are zero)"}
	}
	for k, v := range flux.Elements {
		if v != mask {
			flux.Elements[k] = v / mean
		}
	}
	return flux, nil
}

// checkFactor makes sure the geometric factor can be used to scale
// pixel distances.
func checkFactor(gf float64) error {
	if !(gf > 0) {
		return ConfigurationError{Option: "latitudes",
			Reason: fmt.Sprintf("mean latitude gives a geometric factor of %g", gf)}
	}
	return nil
}
