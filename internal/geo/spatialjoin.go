//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package geo

import (
	"fmt"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"

	"github.com/e-gun/BiotopeGoServer/internal/str"
)

//
// THE SPATIAL JOIN
//
// points and regions are reprojected into one common projected CRS before any containment
// test; the regions go into an R-tree so a point only has to test the polygons whose
// bounding boxes it hits
//

// JoinStats - diagnostics for one join pass; unassigned points are counted, never raised as errors
type JoinStats struct {
	Assigned   int
	Unassigned int
	MultiMatch int
}

func (js JoinStats) Merge(other JoinStats) JoinStats {
	js.Assigned += other.Assigned
	js.Unassigned += other.Unassigned
	js.MultiMatch += other.MultiMatch
	return js
}

// Assigner - holds the reprojected regions, their index, and the point transform
type Assigner struct {
	regions []Region
	tree    *rtree.Rtree
	ptTrans proj.Transformer
}

// NewAssigner - reproject the regions into the join CRS and index them; build the transform
// that Assign will apply to every point
func NewAssigner(rs *RegionSet, pointCRS string, joinCRS string) (*Assigner, error) {
	if rs == nil || len(rs.Regions) == 0 {
		return nil, fmt.Errorf("%w: no region polygons to join against", ErrSpatialData)
	}
	if rs.SR == nil {
		return nil, fmt.Errorf("%w: region set declares no CRS", ErrSpatialData)
	}

	ptSR, err := proj.Parse(pointCRS)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse point CRS '%s': %v", ErrSpatialData, pointCRS, err)
	}
	joinSR, err := proj.Parse(joinCRS)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse join CRS '%s': %v", ErrSpatialData, joinCRS, err)
	}

	regTrans, err := rs.SR.NewTransform(joinSR)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot build region transform: %v", ErrSpatialData, err)
	}
	ptTrans, err := ptSR.NewTransform(joinSR)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot build point transform: %v", ErrSpatialData, err)
	}

	a := &Assigner{
		regions: make([]Region, len(rs.Regions)),
		tree:    rtree.NewTree(25, 50),
		ptTrans: ptTrans,
	}
	for i, r := range rs.Regions {
		gg, err := r.Polygonal.Transform(regTrans)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot reproject region '%s': %v", ErrSpatialData, r.Code, err)
		}
		a.regions[i] = Region{Code: r.Code, Polygonal: gg.(geom.Polygonal)}
		a.tree.Insert(&a.regions[i])
	}
	return a, nil
}

// assignOne - the containment test for a single point; regions are declared non-overlapping,
// so a second hit is a data-quality problem, not a fatal one: first match wins, logged
func (a *Assigner) assignOne(rec str.OccurrenceRecord, stats *JoinStats) str.AssignedPoint {
	const WARN = "point '%s' sits in more than one region ('%s' and '%s'); keeping '%s'"

	ap := str.AssignedPoint{Occ: rec}

	gg, err := geom.Point{X: rec.Lon, Y: rec.Lat}.Transform(a.ptTrans)
	if err != nil {
		// a point the projection cannot place is treated like one outside every region
		stats.Unassigned++
		return ap
	}
	p := gg.(geom.Point)

	for _, hit := range a.tree.SearchIntersect(p.Bounds()) {
		r := hit.(*Region)
		if p.Within(r.Polygonal) == geom.Outside {
			continue
		}
		if ap.Assigned {
			stats.MultiMatch++
			Msg.WARN(fmt.Sprintf(WARN, rec.ID, ap.Region, r.Code, ap.Region))
			continue
		}
		ap.Region = r.Code
		ap.Assigned = true
	}

	if ap.Assigned {
		stats.Assigned++
	} else {
		stats.Unassigned++
	}
	return ap
}

// Assign - label every occurrence with its enclosing region. The work fans out across
// workers over disjoint index ranges; each worker accumulates private stats that are
// merged at the end rather than sharing counters.
func (a *Assigner) Assign(recs []str.OccurrenceRecord, workers int) ([]str.AssignedPoint, JoinStats) {
	const FYI1 = "spatial join: %d of %d points assigned (%d landed in no region; %d multiply matched)"

	if workers < 1 {
		workers = 1
	}
	if workers > len(recs) {
		workers = len(recs)
	}

	out := make([]str.AssignedPoint, len(recs))
	partial := make([]JoinStats, workers)

	var wg sync.WaitGroup
	chunk := (len(recs) + workers - 1) / max(workers, 1)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(recs))
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = a.assignOne(recs[i], &partial[w])
			}
		}(w, lo, hi)
	}
	wg.Wait()

	var stats JoinStats
	for _, p := range partial {
		stats = stats.Merge(p)
	}

	Msg.FYI(fmt.Sprintf(FYI1, stats.Assigned, len(recs), stats.Unassigned, stats.MultiMatch))
	return out, stats
}
