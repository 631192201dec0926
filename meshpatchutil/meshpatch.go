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

package meshpatchutil

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmesh/meshpatch"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

// msgChan returns a channel that logs the messages sent to it.
func msgChan() chan string {
	c := make(chan string)
	go func() {
		for msg := range c {
			logger.Info(msg)
		}
	}()
	return c
}

// openMesh checks that the mesh file exists and satisfies the mesh
// contract. The returned closer owns the underlying file handle.
func openMesh(meshPath string) (*meshpatch.File, *os.File, error) {
	if _, err := os.Stat(meshPath); err != nil {
		return nil, nil, fmt.Errorf("meshpatch: the mesh file doesn't exist: %v", err)
	}
	f, err := os.Open(meshPath)
	if err != nil {
		return nil, nil, fmt.Errorf("meshpatch: opening mesh file: %v", err)
	}
	mesh, err := meshpatch.OpenMesh(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return mesh, f, nil
}

// patchPath resolves the patch file location for mesh: the explicit
// output path when given, otherwise a name derived from the mesh
// identity.
func patchPath(mesh meshpatch.Mesh, output string, hashKey bool) string {
	if output != "" {
		return output
	}
	if hashKey {
		return meshpatch.HashKey(mesh)
	}
	return meshpatch.DefaultKey(mesh)
}

// BuildPatches implements the build command: it converts the mesh at
// meshPath into a patch collection and saves it, returning the patch
// file location. An existing patch file is only overwritten when force
// is set. nThreads is accepted but has no effect.
func BuildPatches(meshPath, output string, force, hashKey bool, nThreads int) (string, error) {
	msgLog := msgChan()

	mesh, f, err := openMesh(meshPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := patchPath(mesh, output, hashKey)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("meshpatch: patch file %s already exists; "+
				"set force to overwrite it", path)
		}
	}
	if nThreads > 1 {
		msgLog <- fmt.Sprintf("%d threads requested, but patches are built sequentially", nThreads)
	}

	msgLog <- fmt.Sprintf("Creating patch file %s; this may take a while for a large mesh", path)
	c := &meshpatch.Cache{Progress: &meshpatch.TerminalProgress{W: os.Stdout}}
	if _, err := c.Get(mesh, path, force); err != nil {
		return "", err
	}
	msgLog <- fmt.Sprintf("Created a patch file for mesh: %s", path)
	return path, nil
}

// ExportGeoJSON implements the export command: it loads the patch
// collection for the mesh at meshPath, building and saving it first if
// there is no patch file yet, and writes it as GeoJSON to geojsonPath
// (standard output if empty).
func ExportGeoJSON(meshPath, output string, force, hashKey bool, geojsonPath string) error {
	msgLog := msgChan()

	mesh, f, err := openMesh(meshPath)
	if err != nil {
		return err
	}
	defer f.Close()

	path := patchPath(mesh, output, hashKey)
	c := &meshpatch.Cache{Progress: &meshpatch.TerminalProgress{W: os.Stdout}}
	pc, err := c.Get(mesh, path, force)
	if err != nil {
		return err
	}

	w := os.Stdout
	if geojsonPath != "" {
		w, err = os.Create(geojsonPath)
		if err != nil {
			return fmt.Errorf("meshpatch: creating GeoJSON file: %v", err)
		}
		defer w.Close()
		msgLog <- fmt.Sprintf("Writing GeoJSON to %s", geojsonPath)
	}
	return meshpatch.WriteGeoJSON(w, pc)
}
