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
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/multifractal"
	"github.com/spatialmodel/multifractal/internal/hash"
)

// Report summarizes the results of an analysis.
type Report struct {
	Version  string `toml:"version"`
	Input    string `toml:"input"`
	Variable string `toml:"variable"`

	// SettingsKey identifies the analysis settings, so that results
	// calculated with the same settings can be compared.
	SettingsKey string `toml:"settings_key"`

	GeometricFactor float64 `toml:"geometric_factor"`

	Parameters ReportParameters `toml:"parameters"`
	Flux       ReportScaling    `toml:"flux_scaling"`
	Increments ReportScaling    `toml:"increment_scaling"`
}

// ReportParameters holds the universal multifractal parameters.
type ReportParameters struct {
	H                    float64   `toml:"H"`
	Alpha                float64   `toml:"alpha"`
	C1                   float64   `toml:"C1"`
	OuterScale           float64   `toml:"outer_scale"`
	FluctuationAmplitude float64   `toml:"fluctuation_amplitude"`
	FitError             float64   `toml:"fit_error"`
	Moments              []float64 `toml:"moments"`
	K                    []float64 `toml:"K"`
}

// ReportScaling describes a scaling curve.
type ReportScaling struct {
	Requested int       `toml:"requested_scales"`
	Retained  int       `toml:"retained_scales"`
	Scales    []float64 `toml:"scales"`
}

// NewReport creates a report of analysis a, which was run with options o.
func NewReport(a *multifractal.Analysis, o *AnalyzeOptions) *Report {
	p := a.Parameters()
	scaling := func(c *multifractal.ScalingCurve) ReportScaling {
		return ReportScaling{Requested: c.Requested, Retained: c.Len(), Scales: c.Scales}
	}
	return &Report{
		Version:         multifractal.Version,
		Input:           o.InputFile,
		Variable:        o.Variable,
		SettingsKey:     SettingsKey(o.Analysis),
		GeometricFactor: a.GeometricFactor(),
		Parameters: ReportParameters{
			H:                    p.H,
			Alpha:                p.Alpha,
			C1:                   p.C1,
			OuterScale:           p.OuterScale,
			FluctuationAmplitude: p.FluctuationAmplitude,
			FitError:             p.FitError,
			Moments:              a.Moments(),
			K:                    a.K(),
		},
		Flux:       scaling(a.FluxScaling()),
		Increments: scaling(a.IncrementScaling()),
	}
}

// settings holds the analysis settings that affect the results.
type settings struct {
	MomentaFlux, MomentaInc             []float64
	MaxScale, MinScale, ScaleCoeff      float64
	Mask, StepSize                      float64
	LinearRangeMoment, OuterScaleMoment float64
	CMin, CMax, CStep                   float64
}

// SettingsKey returns a key that identifies the numerical settings in c.
// The latitudes and logger are not included.
func SettingsKey(c *multifractal.Config) string {
	return hash.Key(settings{
		MomentaFlux:       c.MomentaFlux,
		MomentaInc:        c.MomentaInc,
		MaxScale:          c.MaxScale,
		MinScale:          c.MinScale,
		ScaleCoeff:        c.ScaleCoeff,
		Mask:              c.Mask,
		StepSize:          c.StepSize,
		LinearRangeMoment: c.LinearRangeMoment,
		OuterScaleMoment:  c.OuterScaleMoment,
		CMin:              c.CMin,
		CMax:              c.CMax,
		CStep:             c.CStep,
	})
}

// WriteReport writes r to w in TOML format.
func WriteReport(w io.Writer, r *Report) error {
	if err := toml.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("multifractal: writing report: %v", err)
	}
	return nil
}
