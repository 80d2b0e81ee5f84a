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

package mfutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/cdf"
)

// splitMix is a SplitMix64 pseudo-random number generator.
type splitMix uint64

func (s *splitMix) float64() float64 {
	*s += 0x9e3779b97f4a7c15
	z := uint64(*s)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}

// writeTestInput writes a 128 × 128 Weierstrass–Mandelbrot surface with
// Hurst exponent 0.5 to the variable "field" and zero latitudes to the
// variable "lat".
func writeTestInput(path string) error {
	const (
		n          = 128
		h          = 0.5
		levels     = 15
		directions = 32
		lambda     = 1.4
	)
	type wave struct{ a, kx, ky, phase float64 }
	r := splitMix(9)
	var waves []wave
	for l := 0; l < levels; l++ {
		k := 2 * math.Pi / 256 * math.Pow(lambda, float64(l))
		for d := 0; d < directions; d++ {
			theta := math.Pi * r.float64()
			phase := 2 * math.Pi * r.float64()
			waves = append(waves, wave{
				a:     math.Pow(lambda, -float64(l)*h) / math.Sqrt(directions),
				kx:    k * math.Cos(theta),
				ky:    k * math.Sin(theta),
				phase: phase,
			})
		}
	}
	field := make([]float64, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v := 100.
			for _, w := range waves {
				v += w.a * math.Cos(w.kx*float64(i)+w.ky*float64(j)+w.phase)
			}
			field[j*n+i] = v
		}
	}

	h2 := cdf.NewHeader([]string{"y", "x"}, []int{n, n})
	h2.AddVariable("field", []string{"y", "x"}, []float64{0})
	h2.AddVariable("lat", []string{"y", "x"}, []float32{0})
	h2.Define()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	cf, err := cdf.Create(f, h2)
	if err != nil {
		return err
	}
	for _, v := range []struct {
		name string
		data interface{}
	}{{"field", field}, {"lat", make([]float32, n*n)}} {
		end := cf.Header.Lengths(v.name)
		if _, err := cf.Writer(v.name, make([]int, len(end)), end).Write(v.data); err != nil {
			return err
		}
	}
	return cdf.UpdateNumRecs(f)
}

func TestAnalyzeCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full analysis in short mode")
	}
	dir := t.TempDir()
	input := filepath.Join(dir, "field.ncf")
	if err := writeTestInput(input); err != nil {
		t.Fatal(err)
	}
	Cfg.Set("InputFile", input)
	Cfg.Set("LatitudeVariable", "lat")
	Cfg.Set("MaxScale", 40.0)
	Cfg.Set("OutputFile", filepath.Join(dir, "out.ncf"))
	Cfg.Set("PlotDir", filepath.Join(dir, "plots"))
	Root.SetArgs([]string{"analyze"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	for _, f := range []string{"out.ncf", "out.toml", "out.log",
		"plots/flux_scaling.png", "plots/increment_scaling.png", "plots/k.png"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}

	var r Report
	if _, err := toml.DecodeFile(filepath.Join(dir, "out.toml"), &r); err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Parameters.H-0.5) > 0.1 {
		t.Errorf("want H=0.5±0.1 but have %g", r.Parameters.H)
	}
	if len(r.Parameters.K) != len(r.Parameters.Moments) || len(r.Parameters.K) == 0 {
		t.Errorf("report has %d K values for %d moments", len(r.Parameters.K), len(r.Parameters.Moments))
	}
	if r.Increments.Retained != len(r.Increments.Scales) || r.Increments.Retained > r.Increments.Requested {
		t.Errorf("increment scales: %+v", r.Increments)
	}
	if r.GeometricFactor != 1 {
		t.Errorf("geometric factor: want 1 but have %g", r.GeometricFactor)
	}
}

func TestVersionCommand(t *testing.T) {
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
}
