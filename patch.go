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
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// Version gives the version number.
const Version = "1.1.0"

// progressInterval is the number of cells between progress reports.
const progressInterval = 250

// PatchCollection holds one closed polygon per mesh cell, in degrees
// latitude and longitude, index-aligned with the mesh cell order.
type PatchCollection []geom.Polygon

// Len returns the number of patches in the collection.
func (pc PatchCollection) Len() int { return len(pc) }

// Bounds returns the bounding box of all patches in the collection.
func (pc PatchCollection) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for _, p := range pc {
		b.Extend(p.Bounds())
	}
	return b
}

// VertexRangeError is returned when a cell references a vertex that
// does not exist in the mesh.
type VertexRangeError struct {
	// Cell and Slot locate the offending reference in the cell
	// connectivity array.
	Cell, Slot int

	// Index is the 1-based vertex index that was out of range.
	Index int32

	// NVertices is the number of vertices in the mesh.
	NVertices int
}

func (e VertexRangeError) Error() string {
	return fmt.Sprintf("meshpatch: cell %d (vertex slot %d) references vertex %d, "+
		"but the mesh has %d vertices", e.Cell, e.Slot, e.Index, e.NVertices)
}

// EdgeCountError is returned when a cell claims a vertex count outside
// the range the mesh dimensions allow.
type EdgeCountError struct {
	// Cell is the offending cell.
	Cell int

	// Count is the claimed number of vertices.
	Count int32

	// MaxEdges is the maximum number of vertices per cell in the mesh.
	MaxEdges int
}

func (e EdgeCountError) Error() string {
	return fmt.Sprintf("meshpatch: cell %d claims %d vertices, but valid counts are 1 to %d",
		e.Cell, e.Count, e.MaxEdges)
}

// Build creates one closed polygon for each cell in mesh, in cell order.
// Coordinates are converted from radians to degrees, and longitudes
// within each cell are shifted by ±360° where they differ from the
// cell's first vertex by more than 180°, so that cells straddling the
// antimeridian do not span the whole map. Progress is periodically
// reported through progress, which may be nil.
//
// Build is deterministic: repeated calls with the same mesh produce
// structurally identical collections.
func Build(mesh Mesh, progress ProgressReporter) (PatchCollection, error) {
	nCells := mesh.NCells()
	if nCells <= 0 {
		return nil, fmt.Errorf("meshpatch: mesh has %d cells", nCells)
	}
	maxEdges := mesh.MaxEdges()
	nVertices := mesh.NVertices()
	verticesOnCell := mesh.VerticesOnCell()
	nEdgesOnCell := mesh.NEdgesOnCell()
	latVertex := mesh.LatVertex()
	lonVertex := mesh.LonVertex()

	// Gather per-cell vertex coordinates. The buffers are scoped to
	// this build and released when it returns.
	lon := sparse.ZerosDense(nCells, maxEdges)
	lat := sparse.ZerosDense(nCells, maxEdges)
	for i := 0; i < nCells; i++ {
		if n := nEdgesOnCell[i]; n < 1 || int(n) > maxEdges {
			return nil, EdgeCountError{Cell: i, Count: n, MaxEdges: maxEdges}
		}
		for j := 0; j < int(nEdgesOnCell[i]); j++ {
			v := verticesOnCell[i*maxEdges+j]
			if v < 1 || int(v) > nVertices {
				return nil, VertexRangeError{Cell: i, Slot: j, Index: v, NVertices: nVertices}
			}
			lon.Set(lonVertex[v-1], i, j)
			lat.Set(latVertex[v-1], i, j)
		}
	}

	floats.Scale(180/math.Pi, lon.Elements)
	floats.Scale(180/math.Pi, lat.Elements)

	pc := make(PatchCollection, nCells)
	for i := 0; i < nCells; i++ {
		n := int(nEdgesOnCell[i])
		ref := lon.Get(i, 0)
		ring := make([]geom.Point, n+1)
		for j := 0; j < n; j++ {
			ring[j] = geom.Point{
				X: unwrapLon(lon.Get(i, j), ref),
				Y: lat.Get(i, j),
			}
		}
		ring[n] = ring[0] // Repeat the first vertex to close the ring.
		pc[i] = geom.Polygon{ring}

		if i%progressInterval == 0 {
			reportProgress(progress, "Creating patches", float64(i)/float64(nCells))
		}
	}
	reportProgress(progress, "Creating patches", 1)
	return pc, nil
}

// unwrapLon shifts the longitude x [degrees] by ±360° when it differs
// from the reference longitude by more than 180°. A difference of
// exactly ±180° is left alone.
func unwrapLon(x, ref float64) float64 {
	if diff := x - ref; diff > 180 {
		return x - 360
	} else if diff < -180 {
		return x + 360
	}
	return x
}
