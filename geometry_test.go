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
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ctessum/sparse"
)

const testTolerance = 1.e-10

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// uniformField returns an ny × nx field where every pixel equals v.
func uniformField(ny, nx int, v float64) *sparse.DenseArray {
	f := sparse.ZerosDense(ny, nx)
	for i := range f.Elements {
		f.Elements[i] = v
	}
	return f
}

// randomField returns an ny × nx field of positive random values.
func randomField(ny, nx int, seed int64) *sparse.DenseArray {
	r := rand.New(rand.NewSource(seed))
	f := sparse.ZerosDense(ny, nx)
	for i := range f.Elements {
		f.Elements[i] = 1 + r.Float64()
	}
	return f
}

func TestGeometricFactor(t *testing.T) {
	field := uniformField(4, 6, 2)
	field.Set(0, 0, 0) // masked
	lat := uniformField(4, 6, 60)
	lat.Set(0, 0, 0) // latitude of the masked pixel is ignored.

	tests := []struct {
		name      string
		latitudes *sparse.DenseArray
		want      float64
	}{
		{name: "nil", latitudes: nil, want: 1},
		{name: "zero", latitudes: ZeroLatitudes(field), want: 1},
		{name: "60 degrees", latitudes: lat, want: 0.5},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gf, err := GeometricFactor(field, test.latitudes, 0)
			if err != nil {
				t.Fatal(err)
			}
			if different(gf, test.want, testTolerance) {
				t.Errorf("want %g but have %g", test.want, gf)
			}
		})
	}
}

func TestGeometricFactorAllMasked(t *testing.T) {
	_, err := GeometricFactor(uniformField(5, 5, -1), nil, -1)
	var e DegenerateInputError
	if !errors.As(err, &e) {
		t.Errorf("want DegenerateInputError but have %v", err)
	}
}

func TestGeometricFactorShape(t *testing.T) {
	_, err := GeometricFactor(uniformField(5, 5, 1), uniformField(5, 4, 0), 0)
	var e ConfigurationError
	if !errors.As(err, &e) {
		t.Errorf("want ConfigurationError but have %v", err)
	}
	_, err = GeometricFactor(sparse.ZerosDense(5), nil, 0)
	if !errors.As(err, &e) {
		t.Errorf("one-dimensional field: want ConfigurationError but have %v", err)
	}
}
