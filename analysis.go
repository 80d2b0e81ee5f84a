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

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Config holds the options for a multifractal analysis. Use
// DefaultConfig to get a Config with every option set to its default
// value and then change the options of interest.
type Config struct {
	// Latitudes holds the latitude in degrees of each pixel, and is used
	// to convert longitudinal pixel distances to physical distances. It
	// can also be used to account for pixels whose native spacing
	// differs in the two directions. If it is nil, no correction is made.
	Latitudes *sparse.DenseArray

	// MomentaFlux are the moment orders for the flux box scaling.
	MomentaFlux []float64

	// MomentaInc are the moment orders for the increment scaling.
	// They must include 1.
	MomentaInc []float64

	// MaxScale, MinScale and ScaleCoeff define the geometric progression
	// of scales in pixels.
	MaxScale, MinScale, ScaleCoeff float64

	// Mask is the value of invalid (e.g. land) pixels. It must not be
	// a legitimate data value.
	Mask float64

	// StepSize is the radius in pixels at which fluxes are calculated.
	StepSize float64

	// LinearRangeMoment and OuterScaleMoment select the flux moments used
	// for finding the linear scaling range and calculating the outer scale.
	LinearRangeMoment, OuterScaleMoment float64

	// CMin, CMax and CStep define the C1 search grid of the UM fit.
	CMin, CMax, CStep float64

	// Workers is the maximum number of scales evaluated at the same
	// time. If it is zero, GOMAXPROCS is used.
	Workers int

	// Log receives progress information. If it is nil, logging
	// is discarded.
	Log logrus.FieldLogger
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	d := DefaultValues()
	return &Config{
		MomentaFlux:       d.FluxMomenta,
		MomentaInc:        d.IncMomenta,
		MaxScale:          d.MaxScale,
		MinScale:          d.MinScale,
		ScaleCoeff:        d.ScaleCoeff,
		Mask:              d.Mask,
		StepSize:          d.StepSize,
		LinearRangeMoment: d.LinearRangeMoment,
		OuterScaleMoment:  d.OuterScaleMoment,
		CMin:              d.CMin,
		CMax:              d.CMax,
		CStep:             d.CStep,
		Log:               logrus.StandardLogger(),
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.MomentaFlux) == 0 {
		return ConfigurationError{Option: "momenta_flux", Reason: "no moments specified"}
	}
	if momentIndex(c.MomentaInc, 1) < 0 {
		return ConfigurationError{Option: "momenta_inc",
			Reason: fmt.Sprintf("moment order 1 is required but moments are %v", c.MomentaInc)}
	}
	if !(c.MaxScale > c.MinScale) {
		return ConfigurationError{Option: "max_scale",
			Reason: fmt.Sprintf("max_scale (%g) must be greater than min_scale (%g)", c.MaxScale, c.MinScale)}
	}
	if _, err := scaleProgression(c.MinScale, c.MaxScale, c.ScaleCoeff); err != nil {
		return err
	}
	if !(c.StepSize > 0) {
		return ConfigurationError{Option: "step_size", Reason: fmt.Sprintf("%g is not > 0", c.StepSize)}
	}
	if !(c.CStep > 0) || c.CMax < c.CMin {
		return ConfigurationError{Option: "C1 grid",
			Reason: fmt.Sprintf("min=%g, max=%g, step=%g", c.CMin, c.CMax, c.CStep)}
	}
	if c.Workers < 0 {
		return ConfigurationError{Option: "workers", Reason: fmt.Sprintf("%d is negative", c.Workers)}
	}
	return nil
}

// Analysis holds the results of the multifractal analysis of a field.
// It is not modified after it is created: accessors other than Field
// and Latitudes, which return the caller's own inputs, return copies.
type Analysis struct {
	field     *sparse.DenseArray
	latitudes *sparse.DenseArray
	mask      float64

	geometricFactor float64
	flux            *sparse.DenseArray
	fluxScaling     *ScalingCurve
	incScaling      *ScalingCurve
	k               []float64
	params          *Parameters
}

// NewAnalysis calculates the multifractal scaling of field using the
// given configuration. If c is nil, DefaultConfig is used. An error is
// returned if any step of the analysis fails; there are no partial
// results.
func NewAnalysis(field *sparse.DenseArray, c *Config) (*Analysis, error) {
	if c == nil {
		c = DefaultConfig()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log := fieldLogger(c.Log)
	a := &Analysis{field: field, latitudes: c.Latitudes, mask: c.Mask}

	var err error
	a.geometricFactor, err = GeometricFactor(field, c.Latitudes, c.Mask)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"shape":            field.Shape,
		"geometric_factor": a.geometricFactor,
	}).Info("multifractal: starting analysis")

	a.incScaling, err = IncrementScaling(field, &IncrementConfig{
		Moments:    c.MomentaInc,
		MaxScale:   c.MaxScale,
		MinScale:   c.MinScale,
		ScaleCoeff: c.ScaleCoeff,
		Latitudes:  c.Latitudes,
		Mask:       c.Mask,
		Workers:    c.Workers,
		Log:        c.Log,
	})
	if err != nil {
		return nil, err
	}

	a.flux, err = Fluxes(field, c.Latitudes, c.StepSize, c.Mask)
	if err != nil {
		return nil, err
	}

	a.fluxScaling, err = BoxScaling(a.flux, &BoxConfig{
		Moments:    c.MomentaFlux,
		MaxScale:   c.MaxScale,
		MinScale:   c.MinScale,
		ScaleCoeff: c.ScaleCoeff,
		Anisotropy: 1.0,
		Output:     Moment,
		Latitudes:  c.Latitudes,
		Mask:       c.Mask,
		Workers:    c.Workers,
		Log:        c.Log,
	})
	if err != nil {
		return nil, err
	}

	a.k, a.params, err = UMParameters(a.fluxScaling, a.incScaling, &ExtractConfig{
		LinearRangeMoment: c.LinearRangeMoment,
		OuterScaleMoment:  c.OuterScaleMoment,
		CMin:              c.CMin,
		CMax:              c.CMax,
		CStep:             c.CStep,
		Log:               c.Log,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Field returns the analyzed field.
func (a *Analysis) Field() *sparse.DenseArray { return a.field }

// Latitudes returns the latitude grid used in the analysis, which may be nil.
func (a *Analysis) Latitudes() *sparse.DenseArray { return a.latitudes }

// Mask returns the value of invalid pixels.
func (a *Analysis) Mask() float64 { return a.mask }

// GeometricFactor returns the cosine of the mean latitude of the valid pixels.
func (a *Analysis) GeometricFactor() float64 { return a.geometricFactor }

// Fluxes returns a copy of the normalized flux field.
func (a *Analysis) Fluxes() *sparse.DenseArray { return a.flux.Copy() }

// FluxScaling returns a copy of the box moment scaling of the fluxes.
// Its scales are in units of the region size.
func (a *Analysis) FluxScaling() *ScalingCurve { return a.fluxScaling.Copy() }

// IncrementScaling returns a copy of the moment scaling of the field
// increments. Its scales are in pixels.
func (a *Analysis) IncrementScaling() *ScalingCurve { return a.incScaling.Copy() }

// K returns the moment scaling function, evaluated at the flux moments.
func (a *Analysis) K() []float64 { return append([]float64(nil), a.k...) }

// Parameters returns the universal multifractal parameters.
func (a *Analysis) Parameters() *Parameters {
	p := *a.params
	return &p
}

// Moments returns the flux moment orders at which K is evaluated.
func (a *Analysis) Moments() []float64 { return append([]float64(nil), a.fluxScaling.Moments...) }
