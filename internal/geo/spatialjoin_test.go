//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geo

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/BiotopeGoServer/internal/str"
	"github.com/e-gun/BiotopeGoServer/internal/vv"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	}}
}

// two unit squares side by side near the origin, in plain lat-lon
func testregions(t *testing.T) *RegionSet {
	t.Helper()
	sr, err := proj.Parse(vv.POINTCRSDEFAULT)
	require.NoError(t, err)
	return &RegionSet{
		Regions: []Region{
			{Code: "WEST", Polygonal: square(0, 0, 1, 1)},
			{Code: "EAST", Polygonal: square(1, 0, 2, 1)},
		},
		SR: sr,
	}
}

func testassigner(t *testing.T) *Assigner {
	t.Helper()
	a, err := NewAssigner(testregions(t), vv.POINTCRSDEFAULT, vv.POINTCRSDEFAULT)
	require.NoError(t, err)
	return a
}

func occ(id string, lat, lon float64) str.OccurrenceRecord {
	return str.OccurrenceRecord{ID: id, Lat: lat, Lon: lon, Family: "fagaceae", Species: "quercus robur"}
}

func TestAssignInsideAndOutside(t *testing.T) {
	a := testassigner(t)

	recs := []str.OccurrenceRecord{
		occ("in-west", 0.5, 0.5),
		occ("in-east", 0.5, 1.5),
		occ("far-away", 40.0, 40.0),
	}

	points, stats := a.Assign(recs, 1)
	require.Len(t, points, 3)

	assert.True(t, points[0].Assigned)
	assert.Equal(t, "WEST", points[0].Region)
	assert.True(t, points[1].Assigned)
	assert.Equal(t, "EAST", points[1].Region)
	assert.False(t, points[2].Assigned)

	assert.Equal(t, 2, stats.Assigned)
	assert.Equal(t, 1, stats.Unassigned)
	assert.Equal(t, 0, stats.MultiMatch)
}

func TestAssignPreservesInputOrder(t *testing.T) {
	a := testassigner(t)

	var recs []str.OccurrenceRecord
	for i := 0; i < 50; i++ {
		// alternate west, east, nowhere
		switch i % 3 {
		case 0:
			recs = append(recs, occ("w", 0.5, 0.25))
		case 1:
			recs = append(recs, occ("e", 0.5, 1.75))
		default:
			recs = append(recs, occ("n", 30, 30))
		}
	}

	points, stats := a.Assign(recs, 4)
	require.Len(t, points, 50)
	for i, p := range points {
		switch i % 3 {
		case 0:
			assert.Equal(t, "WEST", p.Region, "index %d", i)
		case 1:
			assert.Equal(t, "EAST", p.Region, "index %d", i)
		default:
			assert.False(t, p.Assigned, "index %d", i)
		}
	}
	assert.Equal(t, 50, stats.Assigned+stats.Unassigned)
}

func TestAssignOverlapFirstMatchWins(t *testing.T) {
	sr, err := proj.Parse(vv.POINTCRSDEFAULT)
	require.NoError(t, err)

	// deliberately overlapping squares
	rs := &RegionSet{
		Regions: []Region{
			{Code: "FIRST", Polygonal: square(0, 0, 2, 2)},
			{Code: "SECOND", Polygonal: square(1, 1, 3, 3)},
		},
		SR: sr,
	}
	a, err := NewAssigner(rs, vv.POINTCRSDEFAULT, vv.POINTCRSDEFAULT)
	require.NoError(t, err)

	points, stats := a.Assign([]str.OccurrenceRecord{occ("both", 1.5, 1.5)}, 1)
	require.Len(t, points, 1)
	assert.True(t, points[0].Assigned)
	assert.Equal(t, 1, stats.Assigned)
	assert.Equal(t, 1, stats.MultiMatch)
	// the point stays with whichever region matched first; it is never double-counted
	assert.Contains(t, []string{"FIRST", "SECOND"}, points[0].Region)
}

func TestNewAssignerRejectsBadInput(t *testing.T) {
	_, err := NewAssigner(nil, vv.POINTCRSDEFAULT, vv.POINTCRSDEFAULT)
	assert.ErrorIs(t, err, ErrSpatialData)

	sr, perr := proj.Parse(vv.POINTCRSDEFAULT)
	require.NoError(t, perr)

	empty := &RegionSet{SR: sr}
	_, err = NewAssigner(empty, vv.POINTCRSDEFAULT, vv.POINTCRSDEFAULT)
	assert.ErrorIs(t, err, ErrSpatialData)

	rs := testregions(t)
	_, err = NewAssigner(rs, "not a crs", vv.POINTCRSDEFAULT)
	assert.ErrorIs(t, err, ErrSpatialData)
}

func TestAssignReprojection(t *testing.T) {
	// same squares, but the containment test runs in a projected CRS
	a, err := NewAssigner(testregions(t), vv.POINTCRSDEFAULT, vv.JOINCRSDEFAULT)
	require.NoError(t, err)

	points, stats := a.Assign([]str.OccurrenceRecord{
		occ("inside", 0.5, 0.5),
		occ("outside", 10, 10),
	}, 2)
	require.Len(t, points, 2)
	assert.Equal(t, "WEST", points[0].Region)
	assert.False(t, points[1].Assigned)
	assert.Equal(t, 1, stats.Assigned)
	assert.Equal(t, 1, stats.Unassigned)
}
