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

	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
)

// GridSpec describes a regular grid in a projected coordinate system.
type GridSpec struct {
	// X0 and Y0 are the coordinates of the lower-left corner of the grid.
	X0, Y0 float64

	// Dx and Dy are the grid cell edge lengths.
	Dx, Dy float64

	// Nx and Ny are the number of columns and rows.
	Nx, Ny int

	// Proj is the grid spatial reference in Proj4 or WKT format.
	Proj string
}

// GridLatitudes returns the geographic latitude in degrees of the center
// of each cell in the grid g, with Shape [Ny, Nx]. Row 0 is the row
// starting at Y0.
func GridLatitudes(g *GridSpec) (*sparse.DenseArray, error) {
	if g.Nx <= 0 || g.Ny <= 0 {
		return nil, ConfigurationError{Option: "grid", Reason: fmt.Sprintf("invalid size %d×%d", g.Ny, g.Nx)}
	}
	if g.Proj == "" {
		return nil, ConfigurationError{Option: "grid", Reason: "no grid projection specified"}
	}
	gridSR, err := proj.Parse(g.Proj)
	if err != nil {
		return nil, fmt.Errorf("multifractal: parsing grid projection: %w", err)
	}
	geoSR, err := proj.Parse("+proj=longlat")
	if err != nil {
		return nil, err
	}
	trans, err := gridSR.NewTransform(geoSR)
	if err != nil {
		return nil, fmt.Errorf("multifractal: creating grid transform: %w", err)
	}
	lat := sparse.ZerosDense(g.Ny, g.Nx)
	for j := 0; j < g.Ny; j++ {
		y := g.Y0 + (float64(j)+0.5)*g.Dy
		for i := 0; i < g.Nx; i++ {
			x := g.X0 + (float64(i)+0.5)*g.Dx
			_, la, err := trans(x, y)
			if err != nil {
				return nil, fmt.Errorf("multifractal: transforming grid cell (%d, %d): %w", j, i, err)
			}
			lat.Set(la, j, i)
		}
	}
	return lat, nil
}
