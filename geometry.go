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
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
)

// GeometricFactor returns the cosine of the mean latitude of the valid
// pixels in field. It rescales distances in the longitude direction so
// they are comparable to distances in the latitude direction. latitudes
// can be nil, in which case the factor is 1.
func GeometricFactor(field, latitudes *sparse.DenseArray, mask float64) (float64, error) {
	ny, nx, err := dims(field)
	if err != nil {
		return math.NaN(), err
	}
	if err := checkLatitudes(latitudes, ny, nx); err != nil {
		return math.NaN(), err
	}
	var lats []float64
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if field.Get(j, i) != mask {
				lats = append(lats, latitude(latitudes, j, i))
			}
		}
	}
	if len(lats) == 0 {
		return math.NaN(), DegenerateInputError{What: "mean latitude"}
	}
	theta := stat.Mean(lats, nil)
	return math.Cos(math.Pi * theta / 180.0), nil
}
