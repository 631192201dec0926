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

// Package meshpatch converts unstructured geodesic meshes into
// collections of closed planar polygons suitable for rendering, and
// caches the collections on disk so that repeated visualizations of the
// same mesh avoid recomputation.
package meshpatch

// Mesh is the contract that a mesh source must satisfy for patch
// construction. Coordinates are in radians; cell connectivity uses
// 1-based vertex indices, following the unstructured-mesh file
// convention. Any reader exposing these accessors may be substituted
// for the NetCDF implementation in this package.
type Mesh interface {
	// NCells returns the number of cells in the mesh.
	NCells() int

	// MaxEdges returns the maximum number of vertices that a single
	// cell may have.
	MaxEdges() int

	// NVertices returns the number of vertices in the mesh.
	NVertices() int

	// VerticesOnCell returns the 1-based vertex indices for each cell
	// as an NCells×MaxEdges row-major array. Entries beyond a cell's
	// vertex count are undefined.
	VerticesOnCell() []int32

	// NEdgesOnCell returns the number of valid vertices for each cell.
	// Each count is at most MaxEdges.
	NEdgesOnCell() []int32

	// LatVertex returns the latitude of each vertex [radians].
	LatVertex() []float64

	// LonVertex returns the longitude of each vertex [radians].
	LonVertex() []float64
}

// MeshData is an in-memory Mesh. It is useful for testing and for
// feeding patch construction from sources other than NetCDF files.
type MeshData struct {
	// NumCells and NumVertices are the mesh dimension sizes.
	NumCells, NumVertices int

	// MaxEdge is the maximum number of vertices per cell.
	MaxEdge int

	// CellVertices holds the 1-based vertex indices for each cell,
	// NumCells×MaxEdge row-major.
	CellVertices []int32

	// EdgesPerCell holds the number of valid vertices for each cell.
	EdgesPerCell []int32

	// Lat and Lon hold per-vertex coordinates [radians].
	Lat, Lon []float64
}

func (m *MeshData) NCells() int              { return m.NumCells }
func (m *MeshData) MaxEdges() int            { return m.MaxEdge }
func (m *MeshData) NVertices() int           { return m.NumVertices }
func (m *MeshData) VerticesOnCell() []int32  { return m.CellVertices }
func (m *MeshData) NEdgesOnCell() []int32    { return m.EdgesPerCell }
func (m *MeshData) LatVertex() []float64     { return m.Lat }
func (m *MeshData) LonVertex() []float64     { return m.Lon }
