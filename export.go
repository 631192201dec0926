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
	"encoding/json"
	"fmt"
	"io"

	"github.com/ctessum/geom/encoding/geojson"
)

// geoJSONFeature is one cell polygon in a GeoJSON FeatureCollection.
type geoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]int    `json:"properties"`
}

type geoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// WriteGeoJSON writes pc to w as a GeoJSON FeatureCollection with one
// polygon feature per mesh cell, in cell order. Each feature carries
// the cell index in its "cell" property so renderers can join patch
// geometry back to per-cell data.
func WriteGeoJSON(w io.Writer, pc PatchCollection) error {
	fc := geoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geoJSONFeature, len(pc)),
	}
	for i, p := range pc {
		g, err := geojson.ToGeoJSON(p)
		if err != nil {
			return fmt.Errorf("meshpatch: encoding cell %d to GeoJSON: %v", i, err)
		}
		fc.Features[i] = geoJSONFeature{
			Type:       "Feature",
			Geometry:   g,
			Properties: map[string]int{"cell": i},
		}
	}
	e := json.NewEncoder(w)
	if err := e.Encode(fc); err != nil {
		return fmt.Errorf("meshpatch: writing GeoJSON: %v", err)
	}
	return nil
}
