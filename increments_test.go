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
	"testing"

	"github.com/ctessum/sparse"
)

// row returns a 1 × n field where pixel i equals i² + 1.
func row(n int) *sparse.DenseArray {
	f := sparse.ZerosDense(1, n)
	for i := 0; i < n; i++ {
		f.Set(float64(i*i+1), 0, i)
	}
	return f
}

func TestIncrementScalingRow(t *testing.T) {
	// With a single row, only the horizontal ends of the radius-3 circle
	// are in the field, so the increments are v[i+3] - v[i] = 6i + 9 for
	// i = 0...4, each visited 4 times.
	curve, err := IncrementScaling(row(8), &IncrementConfig{
		Moments:    []float64{1, 2},
		MinScale:   3,
		MaxScale:   3.2,
		ScaleCoeff: 1.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if curve.Len() != 1 || curve.Scales[0] != 3 {
		t.Fatalf("want scales [3] but have %v", curve.Scales)
	}
	want := []float64{21, 513}
	for k, w := range want {
		if different(curve.Values[0][k], w, testTolerance) {
			t.Errorf("moment %g: want %g but have %g", curve.Moments[k], w, curve.Values[0][k])
		}
	}
}

func TestIncrementScalingLatitude(t *testing.T) {
	// At 60° the horizontal offsets double, which leaves too few pairs.
	c := &IncrementConfig{
		Moments:    []float64{1},
		MinScale:   3,
		MaxScale:   3.2,
		ScaleCoeff: 1.1,
		Latitudes:  uniformField(1, 8, 60),
	}
	_, err := IncrementScaling(row(8), c)
	var e InsufficientSamplesError
	if !errors.As(err, &e) {
		t.Errorf("want InsufficientSamplesError but have %v", err)
	}
	c.Latitudes = ZeroLatitudes(row(8))
	if _, err := IncrementScaling(row(8), c); err != nil {
		t.Errorf("zero latitudes: %v", err)
	}
}

func TestIncrementScalingScales(t *testing.T) {
	d := DefaultValues()
	field := randomField(50, 50, 7)
	field.Set(0, 10, 10)
	curve, err := IncrementScaling(field, &IncrementConfig{
		Moments:    d.IncMomenta,
		MinScale:   d.MinScale,
		MaxScale:   d.MaxScale,
		ScaleCoeff: d.ScaleCoeff,
	})
	if err != nil {
		t.Fatal(err)
	}
	if curve.Len() < 2 {
		t.Fatalf("want at least 2 scales but have %v", curve.Scales)
	}
	for i, s := range curve.Scales {
		if s < d.MinScale || s >= d.MaxScale {
			t.Errorf("scale %g not in [%g, %g)", s, d.MinScale, d.MaxScale)
		}
		if i > 0 && s <= curve.Scales[i-1] {
			t.Errorf("scales not increasing: %v", curve.Scales)
		}
	}
	for si, r := range curve.Values {
		if len(r) != len(d.IncMomenta) {
			t.Fatalf("scale %d: want %d moments but have %d", si, len(d.IncMomenta), len(r))
		}
		for k, v := range r {
			if !(v > 0) {
				t.Errorf("scale %g, moment %g: want positive value but have %g", curve.Scales[si], d.IncMomenta[k], v)
			}
		}
	}
}

func TestIncrementScalingUniform(t *testing.T) {
	curve, err := IncrementScaling(uniformField(20, 20, 3), &IncrementConfig{
		Moments:    []float64{0.5, 1, 2},
		MinScale:   3,
		MaxScale:   10,
		ScaleCoeff: 1.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range curve.Values {
		for _, v := range r {
			if v != 0 {
				t.Errorf("want zero increments but have %g", v)
			}
		}
	}
}

func TestIncrementScalingTooSmall(t *testing.T) {
	_, err := IncrementScaling(randomField(2, 2, 8), &IncrementConfig{
		Moments:    []float64{1},
		MinScale:   3,
		MaxScale:   90,
		ScaleCoeff: 1.1,
	})
	var e InsufficientSamplesError
	if !errors.As(err, &e) {
		t.Errorf("want InsufficientSamplesError but have %v", err)
	}
}
