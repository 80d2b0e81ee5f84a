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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ReadField reads the two-dimensional variable from the NetCDF file rw.
// Variables with three dimensions are assumed to have a leading time
// (record) dimension, and the first record is read. The returned array
// has Shape [ny, nx].
func ReadField(rw cdf.ReaderWriterAt, variable string) (*sparse.DenseArray, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("multifractal: opening netcdf file: %w", err)
	}
	return readField(f, variable)
}

func readField(f *cdf.File, variable string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(variable)
	var start, end []int
	switch len(dims) {
	case 0:
		return nil, fmt.Errorf("multifractal: read netcdf: variable %v not in file", variable)
	case 2:
	case 3:
		dims = dims[1:]
		start, end = make([]int, 3), make([]int, 3)
		end[0] = 1
	default:
		return nil, fmt.Errorf("multifractal: read netcdf: variable %s has %d dimensions; "+
			"it should have 2 or 3", variable, len(dims))
	}
	n := dims[0] * dims[1]
	r := f.Reader(variable, start, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("multifractal: read netcdf variable %s: %w", variable, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []float64:
		copy(data.Elements, b)
	case []int32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("multifractal: read netcdf variable %s: unsupported type %T", variable, buf)
	}
	return data, nil
}

// WriteNetCDF writes the analyzed field, the fluxes, the scaling curves,
// the moment scaling function and the UM parameters to w.
// The UM parameters and analysis settings are stored as global attributes.
func (a *Analysis) WriteNetCDF(w *os.File) error {
	ny, nx := a.field.Shape[0], a.field.Shape[1]
	fs, is := a.fluxScaling, a.incScaling
	h := cdf.NewHeader(
		[]string{"y", "x", "flux_scale", "flux_moment", "inc_scale", "inc_moment"},
		[]int{ny, nx, fs.Len(), len(fs.Moments), is.Len(), len(is.Moments)})
	h.AddAttribute("", "comment", "Multifractal scaling analysis results")
	h.AddAttribute("", "version", Version)
	h.AddAttribute("", "mask", []float64{a.mask})
	h.AddAttribute("", "geometric_factor", []float64{a.geometricFactor})
	p := a.params
	for _, att := range []struct {
		name string
		val  float64
	}{
		{"H", p.H}, {"alpha", p.Alpha}, {"C1", p.C1}, {"outer_scale", p.OuterScale},
		{"fluctuation_amplitude", p.FluctuationAmplitude}, {"fit_error", p.FitError},
	} {
		h.AddAttribute("", att.name, []float64{att.val})
	}

	type variable struct {
		name, description, units string
		dims                     []string
		data                     []float64
	}
	vars := []variable{
		{"field", "Analyzed field", "field units", []string{"y", "x"}, a.field.Elements},
		{"fluxes", "Normalized fluxes", "1", []string{"y", "x"}, a.flux.Elements},
		{"flux_scales", "Flux box scales", "region size", []string{"flux_scale"}, fs.Scales},
		{"flux_moments", "Flux moment orders", "1", []string{"flux_moment"}, fs.Moments},
		{"flux_scaling", "Flux moment scaling", "1", []string{"flux_scale", "flux_moment"}, flatten(fs.Values)},
		{"K", "Moment scaling function", "1", []string{"flux_moment"}, a.k},
		{"inc_scales", "Increment scales", "pixels", []string{"inc_scale"}, is.Scales},
		{"inc_moments", "Increment moment orders", "1", []string{"inc_moment"}, is.Moments},
		{"inc_scaling", "Increment moment scaling", "field units^q", []string{"inc_scale", "inc_moment"}, flatten(is.Values)},
	}
	if a.latitudes != nil {
		vars = append(vars, variable{"latitudes", "Pixel latitudes", "degrees", []string{"y", "x"}, a.latitudes.Elements})
	}
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, []float64{0})
		h.AddAttribute(v.name, "description", v.description)
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("multifractal: creating netcdf file: %w", err)
	}
	for _, v := range vars {
		if err := writeVariable(f, v.name, v.data); err != nil {
			return err
		}
	}
	return cdf.UpdateNumRecs(w)
}

// writeVariable writes data to the whole of variable name. The writer's
// end is set past the last element so that completing the write does
// not report io.EOF.
func writeVariable(f *cdf.File, name string, data []float64) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	n, err := f.Writer(name, start, end).Write(data)
	if err != nil {
		return fmt.Errorf("multifractal: writing variable %s to netcdf file: %w", name, err)
	}
	if n != len(data) {
		return fmt.Errorf("multifractal: wrote %d of %d values of variable %s to netcdf file", n, len(data), name)
	}
	return nil
}

// flatten returns the rows of v concatenated.
func flatten(v [][]float64) []float64 {
	var o []float64
	for _, row := range v {
		o = append(o, row...)
	}
	return o
}
