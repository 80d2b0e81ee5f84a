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

// Package mfutil contains the command-line interface for multifractal
// scaling analysis.
package mfutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/multifractal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	d := multifractal.DefaultValues()

	// Options are the configuration options available to the analysis.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the NetCDF file holding the field to
              be analyzed. It can include environment variables.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Variable",
			usage: `
              Variable is the name of the two-dimensional variable in InputFile
              to analyze. Three-dimensional variables are assumed to have a
              leading time dimension, and the first time step is analyzed.`,
			defaultVal: "field",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "LatitudeVariable",
			usage: `
              LatitudeVariable is the name of the variable in InputFile holding
              the latitude in degrees of each pixel. If it and Grid.Proj are both
              empty, no latitude correction is made.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Grid.Xo",
			usage: `
              Grid.Xo specifies the X coordinate of the lower-left corner of the
              field grid. It is only used when Grid.Proj is specified.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Grid.Yo",
			usage: `
              Grid.Yo specifies the Y coordinate of the lower-left corner of the
              field grid. It is only used when Grid.Proj is specified.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Grid.Dx",
			usage: `
              Grid.Dx specifies the X edge length of the field grid cells, in
              the units of the grid spatial projection.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Grid.Dy",
			usage: `
              Grid.Dy specifies the Y edge length of the field grid cells, in
              the units of the grid spatial projection.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Grid.Proj",
			usage: `
              Grid.Proj gives projection info for the field grid in Proj4 or WKT
              format. If it is specified, pixel latitudes are calculated from the
              grid definition.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "MomentaFlux",
			usage: `
              MomentaFlux are the moment orders for the box scaling of the fluxes,
              either as start:stop:step (stop excluded) or as a list of values.`,
			defaultVal: "0.05:3.25:0.2",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "MomentaInc",
			usage: `
              MomentaInc are the moment orders for the increment scaling, either
              as start:stop:step (stop excluded) or as a list of values. They
              must include 1.`,
			defaultVal: "0.2:3.2:0.2",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "MaxScale",
			usage: `
              MaxScale is the largest analysis scale in pixels (excluded).`,
			defaultVal: d.MaxScale,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "MinScale",
			usage: `
              MinScale is the smallest analysis scale in pixels.`,
			defaultVal: d.MinScale,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "ScaleCoeff",
			usage: `
              ScaleCoeff is the ratio between consecutive analysis scales.`,
			defaultVal: d.ScaleCoeff,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Mask",
			usage: `
              Mask is the value of invalid (for example land) pixels. It must not
              be a legitimate data value.`,
			defaultVal: d.Mask,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "StepSize",
			usage: `
              StepSize is the radius in pixels at which fluxes are calculated.`,
			defaultVal: d.StepSize,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "LinearRangeMoment",
			usage: `
              LinearRangeMoment is the flux moment order used to find the range
              of scales where the flux scaling is linear. The nearest moment in
              MomentaFlux is used.`,
			defaultVal: d.LinearRangeMoment,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "OuterScaleMoment",
			usage: `
              OuterScaleMoment is the flux moment order used to calculate the
              outer scale. The nearest moment in MomentaFlux is used.`,
			defaultVal: d.OuterScaleMoment,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "C1.Min",
			usage: `
              C1.Min is the smallest C₁ value in the UM fit search grid.`,
			defaultVal: d.CMin,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "C1.Max",
			usage: `
              C1.Max is the largest C₁ value in the UM fit search grid.`,
			defaultVal: d.CMax,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "C1.Step",
			usage: `
              C1.Step is the approximate C₁ spacing of the UM fit search grid.`,
			defaultVal: d.CStep,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the maximum number of scales that are analyzed at the
              same time. If it is 0, the number of available processors is used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired NetCDF output file location.
              It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "multifractal_output.ncf",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "ReportFile",
			usage: `
              ReportFile is the path to the desired TOML parameter report location.
              If it is left blank, the report is saved in the same location as the
              OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to record. Valid
              options are "debug", "info", "warning" and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
		{
			name: "PlotDir",
			usage: `
              PlotDir is the directory where plots of the scaling curves and the
              moment scaling function are saved. If it is left blank, no plots
              are made.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{analyzeCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MULTIFRACTAL")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(analyzeCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("multifractal: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "multifractal",
	Short: "Multifractal scaling analysis of gridded fields.",
	Long: `multifractal calculates the scaling properties of two-dimensional gridded
fields and fits the universal multifractal model to them.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MULTIFRACTAL_var' where 'var' is the
name of the variable to be set. Paths are additionally allowed to contain
environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of multifractal.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("multifractal v%s\n", multifractal.Version)
	},
	DisableAutoGenTag: true,
}

// analyzeCmd is a command that runs a scaling analysis.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the scaling of a field.",
	Long: `analyze reads a field from a NetCDF file, calculates its flux and
increment scaling and universal multifractal parameters, and saves the
results to a NetCDF file and a TOML report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := AnalyzeConfig(Cfg)
		if err != nil {
			return err
		}
		_, err = Analyze(c)
		return err
	},
	DisableAutoGenTag: true,
}
