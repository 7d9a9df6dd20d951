//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"

	"github.com/e-gun/BiotopeGoServer/internal/mm"
)

var (
	Msg = mm.NewMessageMakerFor("regions.go")

	// ErrSpatialData - missing or mismatched coordinate reference systems; always fatal, since a
	// silent misalignment would corrupt every downstream region assignment
	ErrSpatialData = errors.New("spatial data error")
)

// Region - a stable code plus polygon geometry; read-only reference data during a run.
// The embedded Polygonal doubles as the rtree.Spatial implementation.
type Region struct {
	Code string
	geom.Polygonal
}

// RegionSet - the reference polygons and the CRS they are declared in
type RegionSet struct {
	Regions []Region
	SR      *proj.SR
}

// LoadRegions - read region polygons from an ESRI shapefile or a GeoJSON feature collection.
// codefield names the attribute holding the region code; crsoverride is a proj4 string used
// when the file declares no CRS of its own.
func LoadRegions(path string, codefield string, crsoverride string) (*RegionSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return loadShapefile(path, codefield, crsoverride)
	case ".json", ".geojson":
		return loadGeoJSON(path, codefield, crsoverride)
	default:
		return nil, fmt.Errorf("%w: unrecognized region file format '%s'", ErrSpatialData, path)
	}
}

func loadShapefile(path string, codefield string, crsoverride string) (*RegionSet, error) {
	const (
		FYI1 = "loadShapefile(): %d regions from '%s'"
		WARN = "loadShapefile(): row %d of '%s' is not polygonal; skipping it"
	)

	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open '%s': %v", ErrSpatialData, path, err)
	}
	defer dec.Close()

	sr, err := dec.SR()
	if err != nil {
		if crsoverride == "" {
			return nil, fmt.Errorf("%w: '%s' declares no CRS and no override was given", ErrSpatialData, path)
		}
		sr, err = proj.Parse(crsoverride)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot parse CRS override '%s': %v", ErrSpatialData, crsoverride, err)
		}
	}

	rs := &RegionSet{SR: sr}
	row := 0
	for {
		g, fields, more := dec.DecodeRowFields(codefield)
		if !more {
			break
		}
		row++
		poly, ok := g.(geom.Polygonal)
		if !ok {
			Msg.WARN(fmt.Sprintf(WARN, row, path))
			continue
		}
		rs.Regions = append(rs.Regions, Region{Code: fields[codefield], Polygonal: poly})
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("%w: while reading '%s': %v", ErrSpatialData, path, err)
	}

	Msg.FYI(fmt.Sprintf(FYI1, len(rs.Regions), path))
	return rs, nil
}

// geojson decoding is done by hand: RFC 7946 fixes the CRS to WGS84 lat-lon and the
// subset we need (Polygon/MultiPolygon features with a code property) is tiny

type geoJSONFile struct {
	Type     string `json:"type"`
	Features []struct {
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func loadGeoJSON(path string, codefield string, crsoverride string) (*RegionSet, error) {
	const (
		FYI1 = "loadGeoJSON(): %d regions from '%s'"
		WARN = "loadGeoJSON(): feature %d of '%s' has no '%s' property; skipping it"
	)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open '%s': %v", ErrSpatialData, path, err)
	}

	var fc geoJSONFile
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("%w: cannot parse '%s': %v", ErrSpatialData, path, err)
	}

	crs := "+proj=longlat +datum=WGS84 +no_defs"
	if crsoverride != "" {
		crs = crsoverride
	}
	sr, err := proj.Parse(crs)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse CRS '%s': %v", ErrSpatialData, crs, err)
	}

	rs := &RegionSet{SR: sr}
	for i, f := range fc.Features {
		code, ok := f.Properties[codefield].(string)
		if !ok {
			Msg.WARN(fmt.Sprintf(WARN, i, path, codefield))
			continue
		}
		var poly geom.Polygonal
		switch f.Geometry.Type {
		case "Polygon":
			var rings [][][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				return nil, fmt.Errorf("%w: bad Polygon in feature %d of '%s': %v", ErrSpatialData, i, path, err)
			}
			poly = ringsToPolygon(rings)
		case "MultiPolygon":
			var polys [][][][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
				return nil, fmt.Errorf("%w: bad MultiPolygon in feature %d of '%s': %v", ErrSpatialData, i, path, err)
			}
			mp := make(geom.MultiPolygon, len(polys))
			for j, rings := range polys {
				mp[j] = ringsToPolygon(rings)
			}
			poly = mp
		default:
			return nil, fmt.Errorf("%w: feature %d of '%s' is a %s, not a polygon", ErrSpatialData, i, path, f.Geometry.Type)
		}
		rs.Regions = append(rs.Regions, Region{Code: code, Polygonal: poly})
	}

	Msg.FYI(fmt.Sprintf(FYI1, len(rs.Regions), path))
	return rs, nil
}

func ringsToPolygon(rings [][][2]float64) geom.Polygon {
	p := make(geom.Polygon, len(rings))
	for i, ring := range rings {
		p[i] = make([]geom.Point, len(ring))
		for j, pt := range ring {
			p[i][j] = geom.Point{X: pt[0], Y: pt[1]}
		}
	}
	return p
}
