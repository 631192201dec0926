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

package meshpatch

import (
	"fmt"

	"github.com/ctessum/cdf"
)

// Variable names expected in an unstructured mesh file.
const (
	varVerticesOnCell = "verticesOnCell"
	varNEdgesOnCell   = "nEdgesOnCell"
	varLatVertex      = "latVertex"
	varLonVertex      = "lonVertex"
)

// File provides access to a NetCDF-formatted unstructured mesh, such as
// an MPAS grid file. It satisfies the Mesh interface; the connectivity
// and coordinate variables are read once when the file is opened.
type File struct {
	cdf.File

	nCells, nVertices, maxEdges  int
	verticesOnCell, nEdgesOnCell []int32
	latVertex, lonVertex         []float64
}

// OpenMesh reads mesh connectivity and vertex coordinates from the
// NetCDF storage rw.
func OpenMesh(rw cdf.ReaderWriterAt) (*File, error) {
	cf, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("meshpatch: not a valid NetCDF mesh: %v", err)
	}
	f := &File{File: *cf}

	for _, v := range []string{varVerticesOnCell, varNEdgesOnCell, varLatVertex, varLonVertex} {
		if f.Header.Lengths(v) == nil {
			return nil, fmt.Errorf("meshpatch: mesh file is missing variable %s", v)
		}
	}

	// Dimension sizes come from the variable shapes.
	voc := f.Header.Lengths(varVerticesOnCell)
	if len(voc) != 2 {
		return nil, fmt.Errorf("meshpatch: variable %s should have 2 dimensions but has %d",
			varVerticesOnCell, len(voc))
	}
	f.nCells, f.maxEdges = voc[0], voc[1]
	f.nVertices = f.Header.Lengths(varLatVertex)[0]

	if n := f.Header.Lengths(varNEdgesOnCell)[0]; n != f.nCells {
		return nil, fmt.Errorf("meshpatch: variable %s has %d cells but %s has %d",
			varNEdgesOnCell, n, varVerticesOnCell, f.nCells)
	}

	if f.verticesOnCell, err = f.readInt32(varVerticesOnCell); err != nil {
		return nil, err
	}
	if f.nEdgesOnCell, err = f.readInt32(varNEdgesOnCell); err != nil {
		return nil, err
	}
	if f.latVertex, err = f.readFloat64(varLatVertex); err != nil {
		return nil, err
	}
	if f.lonVertex, err = f.readFloat64(varLonVertex); err != nil {
		return nil, err
	}
	return f, nil
}

// readInt32 reads a full integer variable.
func (f *File) readInt32(varName string) ([]int32, error) {
	buf, err := f.readFullVar(varName)
	if err != nil {
		return nil, err
	}
	d, ok := buf.([]int32)
	if !ok {
		return nil, fmt.Errorf("meshpatch: variable %s should be an integer array but is %T",
			varName, buf)
	}
	return d, nil
}

// readFloat64 reads a full floating-point variable.
func (f *File) readFloat64(varName string) ([]float64, error) {
	buf, err := f.readFullVar(varName)
	if err != nil {
		return nil, err
	}
	d, ok := buf.([]float64)
	if !ok {
		return nil, fmt.Errorf("meshpatch: variable %s should be a float64 array but is %T",
			varName, buf)
	}
	return d, nil
}

func (f *File) readFullVar(varName string) (interface{}, error) {
	r := f.File.Reader(varName, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("meshpatch: reading variable %s: %v", varName, err)
	}
	return buf, nil
}

func (f *File) NCells() int             { return f.nCells }
func (f *File) MaxEdges() int           { return f.maxEdges }
func (f *File) NVertices() int          { return f.nVertices }
func (f *File) VerticesOnCell() []int32 { return f.verticesOnCell }
func (f *File) NEdgesOnCell() []int32   { return f.nEdgesOnCell }
func (f *File) LatVertex() []float64    { return f.latVertex }
func (f *File) LonVertex() []float64    { return f.lonVertex }
