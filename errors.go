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

import "fmt"

// DegenerateInputError is returned when a field has no valid
// (unmasked) data from which a required mean or variance can be
// calculated.
type DegenerateInputError struct {
	// What describes the quantity that could not be calculated.
	What string
}

func (e DegenerateInputError) Error() string {
	return fmt.Sprintf("multifractal: no valid data to calculate %s", e.What)
}

// DegenerateScalingError is returned when a log-log regression cannot be
// performed because there are fewer than two retained scales or the
// variance of the log-scales is zero.
type DegenerateScalingError struct {
	What   string
	Scales int
}

func (e DegenerateScalingError) Error() string {
	return fmt.Sprintf("multifractal: cannot regress %s over %d retained scale(s)", e.What, e.Scales)
}

// InsufficientSamplesError is returned when increment scaling does not
// retain any scale because no scale reached the minimum pair count.
type InsufficientSamplesError struct {
	Requested int
	MinPairs  int
}

func (e InsufficientSamplesError) Error() string {
	return fmt.Sprintf("multifractal: none of %d scales had more than %d valid increment pairs",
		e.Requested, e.MinPairs)
}

// ConfigurationError is returned when an analysis option is invalid,
// for example when a required moment order is missing from a moment set.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("multifractal: invalid %s: %s", e.Option, e.Reason)
}
