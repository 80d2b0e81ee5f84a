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
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

func TestWriteNetCDF(t *testing.T) {
	a := testAnalysis()
	a.latitudes = uniformField(6, 5, 45)
	a.geometricFactor = 0.7
	a.fluxScaling = &ScalingCurve{
		Moments: []float64{1, 2, 3},
		Scales:  []float64{0.2, 0.4},
		Values:  [][]float64{{1, 1.2, 1.5}, {1, 1.1, 1.3}},
	}
	a.incScaling = &ScalingCurve{
		Moments: []float64{1},
		Scales:  []float64{3, 3.3, 3.63},
		Values:  [][]float64{{0.1}, {0.2}, {0.3}},
	}
	a.k = []float64{0, 0.1, 0.3}

	f, err := os.Create(filepath.Join(t.TempDir(), "analysis.ncf"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := a.WriteNetCDF(f); err != nil {
		t.Fatal(err)
	}

	for name, want := range map[string][]float64{
		"field":     a.field.Elements,
		"fluxes":    a.flux.Elements,
		"latitudes": a.latitudes.Elements,
	} {
		have, err := ReadField(f, name)
		if err != nil {
			t.Fatal(err)
		}
		if have.Shape[0] != 6 || have.Shape[1] != 5 {
			t.Errorf("%s: want shape [6 5] but have %v", name, have.Shape)
		}
		for i, v := range want {
			if have.Elements[i] != v {
				t.Errorf("%s[%d]: want %g but have %g", name, i, v, have.Elements[i])
			}
		}
	}

	cf, err := cdf.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	if h := cf.Header.GetAttribute("", "H").([]float64)[0]; h != a.params.H {
		t.Errorf("H attribute: want %g but have %g", a.params.H, h)
	}
	if l := cf.Header.Lengths("flux_scaling"); len(l) != 2 || l[0] != 2 || l[1] != 3 {
		t.Errorf("flux_scaling dimensions: %v", l)
	}
	r := cf.Reader("flux_scaling", nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 1.2, 1.5, 1, 1.1, 1.3}
	for i, v := range buf.([]float64) {
		if v != want[i] {
			t.Errorf("flux_scaling[%d]: want %g but have %g", i, want[i], v)
		}
	}

	if _, err := ReadField(f, "K"); err == nil {
		t.Error("want error for one-dimensional variable")
	}
	if _, err := ReadField(f, "not_a_variable"); err == nil {
		t.Error("want error for missing variable")
	}
}
