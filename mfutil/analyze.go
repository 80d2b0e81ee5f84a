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
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/multifractal"
	"github.com/spatialmodel/multifractal/mfplot"
)

// Analyze runs the analysis described by o. It reads the field, writes
// the results to o.OutputFile and the parameter report to o.ReportFile,
// and saves plots in o.PlotDir if it is specified. Log messages are
// written to standard error and to o.LogFile.
func Analyze(o *AnalyzeOptions) (*multifractal.Analysis, error) {
	logfile, err := os.Create(o.LogFile)
	if err != nil {
		return nil, fmt.Errorf("multifractal: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := logrus.New()
	log.Out = io.MultiWriter(os.Stderr, logfile)
	log.Level = o.LogLevel
	logEntry := log.WithField("input", o.InputFile)

	f, err := os.Open(o.InputFile)
	if err != nil {
		return nil, fmt.Errorf("multifractal: problem opening input file: %v", err)
	}
	defer f.Close()
	field, err := multifractal.ReadField(f, o.Variable)
	if err != nil {
		return nil, err
	}
	logEntry.WithFields(logrus.Fields{
		"variable": o.Variable,
		"shape":    field.Shape,
	}).Info("multifractal: read field")

	c := *o.Analysis
	c.Log = logEntry
	switch {
	case o.LatitudeVariable != "":
		if c.Latitudes, err = multifractal.ReadField(f, o.LatitudeVariable); err != nil {
			return nil, err
		}
	case o.Grid != nil:
		g := *o.Grid
		g.Ny, g.Nx = field.Shape[0], field.Shape[1]
		if c.Latitudes, err = multifractal.GridLatitudes(&g); err != nil {
			return nil, err
		}
	}

	a, err := multifractal.NewAnalysis(field, &c)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(o.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("multifractal: problem creating output file: %v", err)
	}
	defer out.Close()
	if err := a.WriteNetCDF(out); err != nil {
		return nil, err
	}

	r, err := os.Create(o.ReportFile)
	if err != nil {
		return nil, fmt.Errorf("multifractal: problem creating report file: %v", err)
	}
	defer r.Close()
	if err := WriteReport(r, NewReport(a, o)); err != nil {
		return nil, err
	}
	logEntry.WithFields(logrus.Fields{
		"output": o.OutputFile,
		"report": o.ReportFile,
	}).Info("multifractal: saved results")

	if o.PlotDir != "" {
		if err := savePlots(a, o.PlotDir); err != nil {
			return nil, err
		}
		logEntry.WithField("dir", o.PlotDir).Info("multifractal: saved plots")
	}
	return a, nil
}

// savePlots saves plots of the flux and increment scaling and of the
// moment scaling function to dir.
func savePlots(a *multifractal.Analysis, dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	flux, err := mfplot.ScalingPlot(a.FluxScaling(), "Flux box scaling")
	if err != nil {
		return err
	}
	if err := mfplot.Save(flux, filepath.Join(dir, "flux_scaling.png")); err != nil {
		return err
	}
	inc, err := mfplot.ScalingPlot(a.IncrementScaling(), "Increment scaling")
	if err != nil {
		return err
	}
	if err := mfplot.Save(inc, filepath.Join(dir, "increment_scaling.png")); err != nil {
		return err
	}
	p := a.Parameters()
	k, err := mfplot.KPlot(a.Moments(), a.K(), p.Alpha, p.C1)
	if err != nil {
		return err
	}
	return mfplot.Save(k, filepath.Join(dir, "k.png"))
}
