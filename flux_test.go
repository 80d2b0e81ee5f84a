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
	"gonum.org/v1/gonum/stat"
)

func TestFluxesRamp(t *testing.T) {
	// Each pixel equals its column index, so differences with the
	// 8 neighbours on the unit circle are -1, 0 or 1.
	field := sparse.ZerosDense(3, 5)
	for j := 0; j < 3; j++ {
		for i := 0; i < 5; i++ {
			field.Set(float64(i)+1, j, i)
		}
	}
	flux, err := Fluxes(field, nil, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	interior := flux.Get(1, 2) // 6 / 8
	edge := flux.Get(1, 0)     // 3 / 5
	corner := flux.Get(0, 0)   // 2 / 3
	if different(interior/edge, 0.75/0.6, testTolerance) {
		t.Errorf("interior/edge: want %g but have %g", 0.75/0.6, interior/edge)
	}
	if different(corner/interior, (2./3.)/0.75, testTolerance) {
		t.Errorf("corner/interior: want %g but have %g", (2./3.)/0.75, corner/interior)
	}
}

func TestFluxesMask(t *testing.T) {
	const mask = -999.
	field := randomField(20, 30, 1)
	for j := 5; j < 10; j++ {
		for i := 0; i < 8; i++ {
			field.Set(mask, j, i)
		}
	}
	// An isolated pixel has no valid neighbours and so no flux.
	for j := 14; j < 17; j++ {
		for i := 14; i < 17; i++ {
			field.Set(mask, j, i)
		}
	}
	field.Set(3, 15, 15)

	flux, err := Fluxes(field, nil, 1, mask)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range field.Elements {
		if v == mask && flux.Elements[i] != mask {
			t.Errorf("masked pixel %v has flux %g", flux.IndexNd(i), flux.Elements[i])
		}
	}
	if v := flux.Get(15, 15); v != mask {
		t.Errorf("isolated pixel should be masked but has flux %g", v)
	}
	mean := stat.Mean(validValues(flux, mask), nil)
	if different(mean, 1, testTolerance) {
		t.Errorf("mean flux should be 1 but is %g", mean)
	}
}

func TestFluxesUniform(t *testing.T) {
	_, err := Fluxes(uniformField(10, 10, 4), nil, 1, 0)
	var e DegenerateInputError
	if !errors.As(err, &e) {
		t.Errorf("want DegenerateInputError but have %v", err)
	}
}

func TestFluxesStepSize(t *testing.T) {
	_, err := Fluxes(randomField(10, 10, 2), nil, 0, 0)
	var e ConfigurationError
	if !errors.As(err, &e) {
		t.Errorf("want ConfigurationError but have %v", err)
	}
}
