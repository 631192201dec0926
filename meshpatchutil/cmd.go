/*
Copyright © 2019 the MeshPatch authors.
This file is part of MeshPatch.

MeshPatch is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MeshPatch is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MeshPatch.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package meshpatchutil wires the meshpatch library to its command-line
// interface.
package meshpatchutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmesh/meshpatch"
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
	// Options are the configuration options available to MeshPatch.
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
			name: "output",
			usage: `
              output specifies the location and name of the patch file.
              The default is a name derived from the mesh identity, for
              example "10242.patches".`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{buildCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "force",
			usage: `
              force overwrites an existing patch file instead of
              refusing to touch it.`,
			shorthand:  "f",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{buildCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "nThreads",
			usage: `
              nThreads is accepted for compatibility with older
              workflows but has no effect: patches are always built
              sequentially, in cell order.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{buildCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "hashkey",
			usage: `
              hashkey derives the default patch file name from a hash of
              the mesh connectivity and coordinates instead of the cell
              count, so that different meshes with equal cell counts get
              distinct files. It is ignored when output is set.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{buildCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "geojson",
			usage: `
              geojson specifies where the export command writes its
              GeoJSON output. The default is standard output.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MESHPATCH")

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
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
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
	Root.AddCommand(buildCmd)
	Root.AddCommand(exportCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("meshpatch: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "meshpatch",
	Short: "Build render-ready polygons from unstructured meshes.",
	Long: `MeshPatch converts each cell of an unstructured geodesic mesh into a
closed polygon in degrees latitude and longitude and saves the resulting
collection to a patch file, so that later visualizations of the same mesh
can skip the conversion.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format
'MESHPATCH_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of MeshPatch.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("MeshPatch v%s\n", meshpatch.Version)
	},
	DisableAutoGenTag: true,
}

// buildCmd creates the patch file for a mesh.
var buildCmd = &cobra.Command{
	Use:   "build [mesh file]",
	Short: "Build the patch collection for a mesh.",
	Long: `build converts each cell of the given mesh file into a closed polygon,
corrects longitudes in cells that straddle the antimeridian, and saves the
collection to the patch file. If the patch file already exists, build
refuses to overwrite it unless --force is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := BuildPatches(args[0],
			Cfg.GetString("output"),
			Cfg.GetBool("force"),
			Cfg.GetBool("hashkey"),
			Cfg.GetInt("nThreads"))
		return err
	},
	DisableAutoGenTag: true,
}

// exportCmd writes the patch collection for a mesh as GeoJSON.
var exportCmd = &cobra.Command{
	Use:   "export [mesh file]",
	Short: "Export the patch collection for a mesh as GeoJSON.",
	Long: `export loads the patch collection for the given mesh file (building and
saving it first if no patch file exists) and writes it as a GeoJSON
FeatureCollection for consumption by renderers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ExportGeoJSON(args[0],
			Cfg.GetString("output"),
			Cfg.GetBool("force"),
			Cfg.GetBool("hashkey"),
			Cfg.GetString("geojson"))
	},
	DisableAutoGenTag: true,
}
