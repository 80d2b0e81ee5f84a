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

// Package multifractal calculates the multifractal scaling properties of
// two-dimensional geophysical fields, such as satellite-derived sea-surface
// grids with land masked out. It estimates the universal multifractal
// (UM) parameters H, α and C₁, the outer scale of the scaling regime, a
// fluctuation amplitude and the moment scaling function K(q). The fitted
// parameters can be used by a cascade model to extrapolate the field to a
// finer resolution.
//
// Fields and latitude grids are represented as two-dimensional
// *sparse.DenseArray values with Shape [ny, nx], where the first index
// runs along latitude and the second along longitude.
package multifractal

import (
	"fmt"
	"runtime"

	"github.com/ctessum/sparse"
)

// Version gives the version number.
const Version = "1.0.0"

// dims returns the number of rows (latitude) and columns (longitude)
// in field, or an error if field is not a two-dimensional array.
func dims(field *sparse.DenseArray) (ny, nx int, err error) {
	if field == nil {
		return 0, 0, ConfigurationError{Option: "field", Reason: "field is nil"}
	}
	if len(field.Shape) != 2 {
		return 0, 0, ConfigurationError{Option: "field",
			Reason: fmt.Sprintf("field must have 2 dimensions but has %d", len(field.Shape))}
	}
	return field.Shape[0], field.Shape[1], nil
}

// checkLatitudes makes sure latitudes is either nil or the same shape as
// the field.
func checkLatitudes(latitudes *sparse.DenseArray, ny, nx int) error {
	if latitudes == nil {
		return nil
	}
	if len(latitudes.Shape) != 2 || latitudes.Shape[0] != ny || latitudes.Shape[1] != nx {
		return ConfigurationError{Option: "latitudes",
			Reason: fmt.Sprintf("shape %v does not match field shape [%d %d]", latitudes.Shape, ny, nx)}
	}
	return nil
}

// latitude returns the latitude of pixel (j, i), which is zero
// if no latitudes were supplied.
func latitude(latitudes *sparse.DenseArray, j, i int) float64 {
	if latitudes == nil {
		return 0
	}
	return latitudes.Get(j, i)
}

// validValues returns the values in field that do not equal mask.
func validValues(field *sparse.DenseArray, mask float64) []float64 {
	var o []float64
	for _, v := range field.Elements {
		if v != mask {
			o = append(o, v)
		}
	}
	return o
}

// ZeroLatitudes returns a latitude grid of zeros matching the shape of
// field, which results in no geometric correction.
func ZeroLatitudes(field *sparse.DenseArray) *sparse.DenseArray {
	return sparse.ZerosDense(field.Shape...)
}

// workerLimit returns the number of scales to evaluate concurrently.
func workerLimit(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
