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
	"io/ioutil"
	"math"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Output specifies the statistic that BoxScaling calculates in each box.
type Output int

const (
	// Moment is the mean of the box normalized by the regional mean,
	// raised to each moment order.
	Moment Output = iota
	// Variance is the variance within each box.
	Variance
	// StDeviation is the standard deviation within each box normalized
	// by the regional mean.
	StDeviation
)

func (o Output) String() string {
	switch o {
	case Moment:
		return "moment"
	case Variance:
		return "variance"
	case StDeviation:
		return "st_deviation"
	default:
		return fmt.Sprintf("Output(%d)", int(o))
	}
}

// ParseOutput returns the Output matching s, which should be one of
// "moment", "variance" or "st_deviation".
func ParseOutput(s string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "moment":
		return Moment, nil
	case "variance":
		return Variance, nil
	case "st_deviation", "stdeviation", "stdev":
		return StDeviation, nil
	}
	return Moment, ConfigurationError{Option: "output", Reason: fmt.Sprintf("unknown output type %q", s)}
}

// BoxConfig holds the options for BoxScaling.
type BoxConfig struct {
	// Moments are the moment orders to calculate.
	Moments []float64

	// MaxScale, MinScale and ScaleCoeff define the geometric progression
	// of box lengths in pixels: MinScale*ScaleCoeff^i < MaxScale.
	MaxScale, MinScale, ScaleCoeff float64

	// Anisotropy is the ratio of box extent in the longitude direction to
	// box extent in the latitude direction. 1 gives square boxes.
	Anisotropy float64

	// Output is the statistic to calculate.
	Output Output

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

// Corner is a corner of the analysis region from which boxes are tiled.
type Corner int

// The four corners from which the region is tiled. Row 0 is the top.
const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// corners lists the corners in the order their contributions are summed.
var corners = [4]Corner{TopLeft, TopRight, BottomRight, BottomLeft}

func (c Corner) String() string {
	return [...]string{"top-left", "top-right", "bottom-right", "bottom-left"}[c]
}

// fromRight and fromBottom report which edges c tiles from.
func (c Corner) fromRight() bool  { return c == TopRight || c == BottomRight }
func (c Corner) fromBottom() bool { return c == BottomRight || c == BottomLeft }

// tileBounds returns the half-open pixel interval [lo, hi) of box number b
// (starting at 1) of size n along an axis of the given extent, tiled from
// the start of the axis or, if reverse is true, from its end.
func tileBounds(b, n, extent int, reverse bool) (lo, hi int) {
	if reverse {
		return max(extent-b*n, 0), extent - (b-1)*n
	}
	return (b - 1) * n, min(b*n, extent)
}

// bounds returns the pixel bounds of box (boxLon, boxLat) with size
// nLon × nLat when the region is tiled from corner c.
func (c Corner) bounds(boxLon, boxLat, nLon, nLat, width, height int) (lon0, lon1, lat0, lat1 int) {
	lon0, lon1 = tileBounds(boxLon, nLon, width, c.fromRight())
	lat0, lat1 = tileBounds(boxLat, nLat, height, c.fromBottom())
	return
}

// boxResult is the outcome of the box analysis at one scale.
type boxResult struct {
	het        []float64
	effArea    float64
	contribute bool
}

// BoxScaling calculates the scaling of a statistic of field over boxes
// of increasing size. For each box length in the geometric progression,
// the box area in pixels is length²/geometric factor, split between
// the latitude and longitude directions according to the anisotropy and
// the geometric factor. The region is tiled with boxes anchored at each
// of its four corners to remove the bias that tiling from a single
// corner would introduce at the region boundary. Each box contributes
// to the statistic in proportion to its number of valid pixels.
//
// Scales are dropped when the effective box area is smaller than
// MinScale², when fewer than two boxes fit in either direction, when no
// box has enough valid pixels, or when the effective box is the same as
// the one at the previous retained scale. The returned scales are
// normalized: sqrt(effective box area / region area).
func BoxScaling(field *sparse.DenseArray, c *BoxConfig) (*ScalingCurve, error) {
	if c.Output < Moment || c.Output > StDeviation {
		return nil, ConfigurationError{Option: "output", Reason: c.Output.String()}
	}
	if !(c.Anisotropy > 0) {
		return nil, ConfigurationError{Option: "anisotropy", Reason: fmt.Sprintf("%g is not > 0", c.Anisotropy)}
	}
	gf, err := GeometricFactor(field, c.Latitudes, c.Mask)
	if err != nil {
		return nil, err
	}
	if err := checkFactor(gf); err != nil {
		return nil, err
	}
	lengths, err := scaleProgression(c.MinScale, c.MaxScale, c.ScaleCoeff)
	if err != nil {
		return nil, err
	}
	log := fieldLogger(c.Log)

	height, width := field.Shape[0], field.Shape[1]
	nPixels := float64(width * height)
	valid := validValues(field, c.Mask)
	totalValid := float64(len(valid))
	regionMean := stat.Mean(valid, nil)
	if c.Output != Variance && regionMean == 0 {
		return nil, DegenerateInputError{What: "regional mean (mean is zero)"}
	}

	results := make([]boxResult, len(lengths))
	var g errgroup.Group
	g.SetLimit(workerLimit(c.Workers))
	for si, length := range lengths {
		si, length := si, length
		g.Go(func() error {
			results[si] = boxScale(field, c, length, gf, regionMean, totalValid)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curve := &ScalingCurve{Moments: c.Moments, Requested: len(lengths)}
	lastArea := 0.0
	for si, r := range results {
		if !r.contribute || r.effArea <= lastArea {
			log.WithFields(logrus.Fields{
				"length":   lengths[si],
				"eff_area": r.effArea,
			}).Debug("multifractal: box scale dropped")
			continue
		}
		lastArea = r.effArea
		curve.Values = append(curve.Values, r.het)
		curve.Scales = append(curve.Scales, math.Sqrt(r.effArea/nPixels))
	}
	log.WithFields(logrus.Fields{
		"output":    c.Output.String(),
		"requested": curve.Requested,
		"retained":  curve.Len(),
	}).Info("multifractal: box scaling complete")
	return curve, nil
}

// boxScale calculates the box statistic for a single box length.
func boxScale(field *sparse.DenseArray, c *BoxConfig, length, gf, regionMean, totalValid float64) boxResult {
	height, width := field.Shape[0], field.Shape[1]

	nBoxPixels := math.RoundToEven(length * length / gf)
	nLat := int(math.RoundToEven(math.Sqrt(nBoxPixels * gf / c.Anisotropy)))
	nLon := int(math.RoundToEven(math.Sqrt(nBoxPixels * c.Anisotropy / gf)))
	r := boxResult{effArea: float64(nLat * nLon)}

	if r.effArea < c.MinScale*c.MinScale || nLat == 0 || nLon == 0 {
		return r
	}
	nBoxesLon := (width + nLon - 1) / nLon
	nBoxesLat := (height + nLat - 1) / nLat
	if nBoxesLon <= 1 || nBoxesLat <= 1 {
		return r
	}

	var perCorner [4][]float64
	box := make([]float64, 0, nLat*nLon)
	for ci, corner := range corners {
		het := make([]float64, len(c.Moments))
		for bLon := 1; bLon <= nBoxesLon; bLon++ {
			for bLat := 1; bLat <= nBoxesLat; bLat++ {
				lon0, lon1, lat0, lat1 := corner.bounds(bLon, bLat, nLon, nLat, width, height)
				box = box[:0]
				for j := lat0; j < lat1; j++ {
					for i := lon0; i < lon1; i++ {
						if v := field.Get(j, i); v != c.Mask {
							box = append(box, v)
						}
					}
				}
				if addBox(het, box, c, regionMean, totalValid) {
					r.contribute = true
				}
			}
		}
		perCorner[ci] = het
	}
	r.het = make([]float64, len(c.Moments))
	for _, het := range perCorner {
		for k, v := range het {
			r.het[k] += v
		}
	}
	return r
}

// addBox adds the contribution of the valid pixel values in one box
// to het and reports whether the box contributed.
func addBox(het, box []float64, c *BoxConfig, regionMean, totalValid float64) bool {
	n := float64(len(box))
	importance := n / (4 * totalValid)
	switch c.Output {
	case Moment:
		if n == 0 {
			return false
		}
		ratio := stat.Mean(box, nil) / regionMean
		for k, q := range c.Moments {
			het[k] += importance * math.Pow(ratio, q)
		}
	case Variance:
		if n <= 1 {
			return false
		}
		v := popVariance(box)
		for k := range het {
			het[k] += importance * v
		}
	case StDeviation:
		if n <= 1 {
			return false
		}
		v := math.Sqrt(popVariance(box)) / regionMean
		for k := range het {
			het[k] += importance * v
		}
	}
	return true
}

// popVariance returns the population (biased) variance of x.
func popVariance(x []float64) float64 {
	n := float64(len(x))
	_, v := stat.MeanVariance(x, nil)
	return v * (n - 1) / n
}

// fieldLogger returns l, or a logger that discards its output if l
// is nil.
func fieldLogger(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	discard := logrus.New()
	discard.Out = ioutil.Discard
	return discard
}
