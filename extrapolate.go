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
	"math"

	"github.com/ctessum/sparse"
)

// smoothingAnisotropy is the anisotropy used when smoothing the
// downscaled field.
const smoothingAnisotropy = 2.0

// Cascade holds the cascade-synthesis operations that Extrapolate uses to
// generate a field at a finer resolution from the fitted UM parameters.
type Cascade interface {
	// ExtrapolateFluxes returns a flux field with 2^nIterations times
	// the resolution of flux in each direction that is statistically
	// consistent with the α, C₁ and outer scale in p.
	ExtrapolateFluxes(flux *sparse.DenseArray, nIterations int, p *Parameters, mask float64) (*sparse.DenseArray, error)

	// DownscaleAndSmooth returns field resampled to factorLat times as
	// many rows and factorLon times as many columns and smoothed.
	DownscaleAndSmooth(field *sparse.DenseArray, factorLat, factorLon int, anisotropy, mask float64) (*sparse.DenseArray, error)

	// DistributeFluctuations adds fluctuations proportional to fineFlux,
	// scaled by proportionality, to smoothed. ratioBound limits the
	// fractional deviation of each pixel from its smoothed value.
	DistributeFluctuations(smoothed, fineFlux *sparse.DenseArray, proportionality, ratioBound, mask float64) (*sparse.DenseArray, error)
}

// Extrapolate uses the cascade c and the results of analysis a to
// generate a version of the analyzed field with 2^nIterations times the
// resolution in each direction. The fluctuations at the fine scale are
// related to the fluxes by the factor A·(2^-nIterations)^H, where A is the
// fluctuation amplitude. ratioBound limits the fractional deviation of
// the redistributed fluctuations from the smoothed field.
func Extrapolate(a *Analysis, c Cascade, nIterations int, ratioBound float64) (*sparse.DenseArray, error) {
	if nIterations < 1 {
		return nil, ConfigurationError{Option: "n_iterations", Reason: fmt.Sprintf("%d is not >= 1", nIterations)}
	}
	if !(ratioBound > 0 && ratioBound <= 1) {
		return nil, ConfigurationError{Option: "ratio_bound", Reason: fmt.Sprintf("%g is not in (0, 1]", ratioBound)}
	}
	p := a.Parameters()
	zoom := 1 << uint(nIterations)
	factor := p.FluctuationAmplitude * math.Pow(1/float64(zoom), p.H)

	fineFlux, err := c.ExtrapolateFluxes(a.Fluxes(), nIterations, p, a.Mask())
	if err != nil {
		return nil, fmt.Errorf("multifractal: extrapolating fluxes: %w", err)
	}
	smoothed, err := c.DownscaleAndSmooth(a.Field(), zoom, zoom, smoothingAnisotropy, a.Mask())
	if err != nil {
		return nil, fmt.Errorf("multifractal: smoothing field: %w", err)
	}
	ny, nx := a.Field().Shape[0]*zoom, a.Field().Shape[1]*zoom
	for name, d := range map[string]*sparse.DenseArray{"extrapolated fluxes": fineFlux, "smoothed field": smoothed} {
		if d == nil || len(d.Shape) != 2 || d.Shape[0] != ny || d.Shape[1] != nx {
			return nil, fmt.Errorf("multifractal: %s should have shape [%d %d]", name, ny, nx)
		}
	}
	out, err := c.DistributeFluctuations(smoothed, fineFlux, factor, ratioBound, a.Mask())
	if err != nil {
		return nil, fmt.Errorf("multifractal: distributing fluctuations: %w", err)
	}
	return out, nil
}
