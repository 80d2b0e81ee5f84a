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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/multifractal"
	"github.com/spf13/cast"
)

// AnalyzeOptions holds the settings for the analyze command.
type AnalyzeOptions struct {
	// InputFile is the NetCDF file holding Variable, and optionally
	// LatitudeVariable.
	InputFile, Variable, LatitudeVariable string

	// Grid is used to calculate pixel latitudes when it is not nil.
	// Its size is set from the shape of the field.
	Grid *multifractal.GridSpec

	// Analysis holds the analysis settings. Its Latitudes and Log
	// fields are set by Analyze.
	Analysis *multifractal.Config

	OutputFile, ReportFile, LogFile string

	// PlotDir is where plots are saved. No plots are made if it is empty.
	PlotDir string

	LogLevel logrus.Level
}

// AnalyzeConfig unmarshals a viper configuration for the analyze command.
func AnalyzeConfig(cfg *viper.Viper) (*AnalyzeOptions, error) {
	input := os.ExpandEnv(cfg.GetString("InputFile"))
	if input == "" {
		return nil, fmt.Errorf("you need to specify an input file configuration variable (for example: InputFile=\"field.ncf\")")
	}
	momentaFlux, err := toFloat64SliceE(cfg.Get("MomentaFlux"))
	if err != nil {
		return nil, fmt.Errorf("mfutil: parsing config variable MomentaFlux: %v", err)
	}
	momentaInc, err := toFloat64SliceE(cfg.Get("MomentaInc"))
	if err != nil {
		return nil, fmt.Errorf("mfutil: parsing config variable MomentaInc: %v", err)
	}
	outputFile, err := checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return nil, err
	}
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return nil, fmt.Errorf("mfutil: parsing config variable LogLevel: %v", err)
	}

	c := multifractal.DefaultConfig()
	c.MomentaFlux = momentaFlux
	c.MomentaInc = momentaInc
	c.MaxScale = cfg.GetFloat64("MaxScale")
	c.MinScale = cfg.GetFloat64("MinScale")
	c.ScaleCoeff = cfg.GetFloat64("ScaleCoeff")
	c.Mask = cfg.GetFloat64("Mask")
	c.StepSize = cfg.GetFloat64("StepSize")
	c.LinearRangeMoment = cfg.GetFloat64("LinearRangeMoment")
	c.OuterScaleMoment = cfg.GetFloat64("OuterScaleMoment")
	c.CMin = cfg.GetFloat64("C1.Min")
	c.CMax = cfg.GetFloat64("C1.Max")
	c.CStep = cfg.GetFloat64("C1.Step")
	c.Workers = cfg.GetInt("Workers")
	if err := c.Validate(); err != nil {
		return nil, err
	}

	o := &AnalyzeOptions{
		InputFile:        input,
		Variable:         cfg.GetString("Variable"),
		LatitudeVariable: cfg.GetString("LatitudeVariable"),
		Analysis:         c,
		OutputFile:       outputFile,
		ReportFile:       checkReportFile(os.ExpandEnv(cfg.GetString("ReportFile")), outputFile),
		LogFile:          checkLogFile(os.ExpandEnv(cfg.GetString("LogFile")), outputFile),
		PlotDir:          os.ExpandEnv(cfg.GetString("PlotDir")),
		LogLevel:         level,
	}
	if gridProj := os.ExpandEnv(cfg.GetString("Grid.Proj")); gridProj != "" {
		if o.LatitudeVariable != "" {
			return nil, fmt.Errorf("mfutil: only one of LatitudeVariable and Grid.Proj can be specified")
		}
		o.Grid = &multifractal.GridSpec{
			X0:   cfg.GetFloat64("Grid.Xo"),
			Y0:   cfg.GetFloat64("Grid.Yo"),
			Dx:   cfg.GetFloat64("Grid.Dx"),
			Dy:   cfg.GetFloat64("Grid.Dy"),
			Proj: gridProj,
		}
		vars := []float64{o.Grid.Dx, o.Grid.Dy}
		varNames := []string{"Grid.Dx", "Grid.Dy"}
		for i, v := range vars {
			if !(v > 0) {
				return nil, fmt.Errorf("parsing grid configuration: %s=%g but should be >0", varNames[i], v)
			}
		}
	}
	return o, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.ncf"`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("multifractal: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// checkReportFile fills in a default value for the report file path if
// one isn't specified.
func checkReportFile(reportFile, outputFile string) string {
	if reportFile == "" {
		reportFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".toml"
	}
	return reportFile
}

// toFloat64SliceE converts a moment set option to a slice of moment
// orders. The option can be a list from a configuration file, a
// JSON array, a comma-separated list, or a string in the form
// start:stop:step giving an evenly spaced sequence that excludes stop.
func toFloat64SliceE(s interface{}) ([]float64, error) {
	switch v := s.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case string:
		v = strings.TrimSpace(v)
		switch {
		case v == "":
			return nil, fmt.Errorf("no values specified")
		case strings.HasPrefix(v, "["):
			var o []float64
			if err := json.Unmarshal([]byte(v), &o); err != nil {
				return nil, err
			}
			return o, nil
		case strings.Contains(v, ":"):
			parts := strings.Split(v, ":")
			if len(parts) != 3 {
				return nil, fmt.Errorf("invalid range %q; it should be in the form start:stop:step", v)
			}
			var r [3]float64
			for i, p := range parts {
				f, err := cast.ToFloat64E(strings.TrimSpace(p))
				if err != nil {
					return nil, err
				}
				r[i] = f
			}
			if !(r[2] > 0) || r[1] <= r[0] {
				return nil, fmt.Errorf("invalid range %q", v)
			}
			return multifractal.Arange(r[0], r[1], r[2]), nil
		default:
			parts := strings.Split(v, ",")
			o := make([]float64, len(parts))
			for i, p := range parts {
				f, err := cast.ToFloat64E(strings.TrimSpace(p))
				if err != nil {
					return nil, err
				}
				o[i] = f
			}
			return o, nil
		}
	default:
		return nil, fmt.Errorf("invalid type %T", s)
	}
}
