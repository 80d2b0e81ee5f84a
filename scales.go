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
)

// ScalingCurve holds a scaling statistic for each retained scale and
// each moment order.
type ScalingCurve struct {
	// Moments are the moment orders, one per column of Values.
	Moments []float64

	// Scales are the retained scales in increasing order, one per row
	// of Values.
	Scales []float64

	// Values[i][j] is the statistic at Scales[i] for Moments[j].
	Values [][]float64

	// Requested is the number of scales in the geometric progression
	// before invalid scales were dropped.
	Requested int
}

// Len returns the number of retained scales.
func (c *ScalingCurve) Len() int { return len(c.Scales) }

// Dropped returns the number of scales that were generated but not
// retained.
func (c *ScalingCurve) Dropped() int { return c.Requested - len(c.Scales) }

// Column returns the statistic for moment index j at each retained scale.
func (c *ScalingCurve) Column(j int) []float64 {
	o := make([]float64, len(c.Values))
	for i, row := range c.Values {
		o[i] = row[j]
	}
	return o
}

// Copy returns a deep copy of c.
func (c *ScalingCurve) Copy() *ScalingCurve {
	o := &ScalingCurve{
		Moments:   append([]float64(nil), c.Moments...),
		Scales:    append([]float64(nil), c.Scales...),
		Values:    make([][]float64, len(c.Values)),
		Requested: c.Requested,
	}
	for i, row := range c.Values {
		o.Values[i] = append([]float64(nil), row...)
	}
	return o
}

// truncate returns a copy of c that only includes the first n scales.
func (c *ScalingCurve) truncate(n int) *ScalingCurve {
	if n > len(c.Scales) {
		n = len(c.Scales)
	}
	return &ScalingCurve{
		Moments:   c.Moments,
		Scales:    c.Scales[:n],
		Values:    c.Values[:n],
		Requested: c.Requested,
	}
}

// scaleProgression returns the geometric progression of scales starting
// at min, where scale i is min*coeff^i, up to but not including max.
func scaleProgression(min, max, coeff float64) ([]float64, error) {
	if !(min > 0) {
		return nil, ConfigurationError{Option: "min_scale", Reason: fmt.Sprintf("%g is not > 0", min)}
	}
	if !(coeff > 1) {
		return nil, ConfigurationError{Option: "scale_coeff", Reason: fmt.Sprintf("%g is not > 1", coeff)}
	}
	var o []float64
	length := min
	for step := 1.0; length < max; step++ {
		o = append(o, length)
		length = min * math.Pow(coeff, step)
	}
	return o, nil
}

// nearestMoment returns the index of the moment in momenta closest to v.
func nearestMoment(momenta []float64, v float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, m := range momenta {
		if d := math.Abs(m - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// momentIndex returns the index of the moment in momenta equal to v
// within a small tolerance, or -1 if there isn't one.
func momentIndex(momenta []float64, v float64) int {
	const tolerance = 1.e-9
	i := nearestMoment(momenta, v)
	if i < 0 || math.Abs(momenta[i]-v) > tolerance {
		return -1
	}
	return i
}
