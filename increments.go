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
	"math"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// minIncrementPairs is the number of valid pixel pairs that a scale must
// exceed to be retained by IncrementScaling.
const minIncrementPairs = 10

// IncrementConfig holds the options for IncrementScaling.
type IncrementConfig struct {
	// Moments are the moment orders to calculate.
	Moments []float64

	// MaxScale, MinScale and ScaleCoeff define the geometric progression
	// of increment radii in pixels.
	MaxScale, MinScale, ScaleCoeff float64

	// Latitudes holds the latitude of each pixel. It can be nil.
	Latitudes *sparse.DenseArray

	// Mask is the value of invalid pixels.
	Mask float64

	// Workers limits the number of scales evaluated at the same time.
	// Zero means GOMAXPROCS.
	Workers int

	// Log receives progress information. It can be nil.
	Log logrus.FieldLogger
}

// circlePairs calls yield with the values of every pair of valid pixels
// (p, q) where q lies on the discretized circle of the given radius
// around p. Longitudinal offsets are stretched by 1/cos(latitude of p).
// Each horizontal offset is visited once for each vertical direction,
// so pairs on the horizontal axis of the circle are visited twice.
func circlePairs(field, latitudes *sparse.DenseArray, radius, mask float64, yield func(p, q float64)) {
	height, width := field.Shape[0], field.Shape[1]
	r := int(radius)
	for lon := 0; lon < width; lon++ {
		for lat := 0; lat < height; lat++ {
			p := field.Get(lat, lon)
			if p == mask {
				continue
			}
			stretch := math.Cos(math.Pi * latitude(latitudes, lat, lon) / 180.0)
			for nx := -r; nx <= r; nx++ {
				dy := math.RoundToEven(math.Sqrt(radius*radius - float64(nx*nx)))
				qLon := float64(lon) + float64(nx)/stretch
				if !(qLon >= 0 && qLon < float64(width)) {
					continue
				}
				for _, sign := range [2]float64{-1, 1} {
					qLat := float64(lat) + sign*dy
					if !(qLat >= 0 && qLat < float64(height)) {
						continue
					}
					q := field.Get(int(qLat), int(qLon))
					if q == mask {
						continue
					}
					yield(p, q)
				}
			}
		}
	}
}

// IncrementScaling calculates the scaling of the moments of the absolute
// field increments |field(p) - field(q)| between pixels separated by
// each radius in the geometric progression of scales. A scale is
// retained only if it has more than 10 valid pixel pairs. The returned
// scales are in pixels. If no scale is retained, an
// InsufficientSamplesError is returned.
func IncrementScaling(field *sparse.DenseArray, c *IncrementConfig) (*ScalingCurve, error) {
	ny, nx, err := dims(field)
	if err != nil {
		return nil, err
	}
	if err := checkLatitudes(c.Latitudes, ny, nx); err != nil {
		return nil, err
	}
	lengths, err := scaleProgression(c.MinScale, c.MaxScale, c.ScaleCoeff)
	if err != nil {
		return nil, err
	}
	log := fieldLogger(c.Log)

	type result struct {
		delta []float64
		pairs int
	}
	results := make([]result, len(lengths))
	var g errgroup.Group
	g.SetLimit(workerLimit(c.Workers))
	for si, length := range lengths {
		si, length := si, length
		g.Go(func() error {
			delta := make([]float64, len(c.Moments))
			var pairs int
			circlePairs(field, c.Latitudes, length, c.Mask, func(p, q float64) {
				d := math.Abs(p - q)
				for k, m := range c.Moments {
					delta[k] += math.Pow(d, m)
				}
				pairs++
			})
			results[si] = result{delta: delta, pairs: pairs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curve := &ScalingCurve{Moments: c.Moments, Requested: len(lengths)}
	for si, r := range results {
		if r.pairs <= minIncrementPairs {
			log.WithFields(logrus.Fields{
				"length": lengths[si],
				"pairs":  r.pairs,
			}).Debug("multifractal: increment scale dropped")
			continue
		}
		for k := range r.delta {
			r.delta[k] /= float64(r.pairs)
		}
		curve.Values = append(curve.Values, r.delta)
		curve.Scales = append(curve.Scales, lengths[si])
	}
	if curve.Len() == 0 {
		return nil, InsufficientSamplesError{Requested: curve.Requested, MinPairs: minIncrementPairs}
	}
	log.WithFields(logrus.Fields{
		"requested": curve.Requested,
		"retained":  curve.Len(),
	}).Info("multifractal: increment scaling complete")
	return curve, nil
}
