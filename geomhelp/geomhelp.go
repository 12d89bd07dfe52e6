// Package geomhelp has small geometry helpers that don't belong to a
// specific feature package.
package geomhelp

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
)

// from paulmach/orb
// Original implementation: http://rosettacode.org/wiki/Ray-casting_algorithm#Go
//
//nolint:cyclop,nestif
func RayIntersect(pt, start, end [2]float64) (intersects, on bool) {
	if start[0] > end[0] {
		start, end = end, start
	}

	if pt[0] == start[0] {
		if pt[1] == start[1] {
			// pt == start
			return false, true
		} else if start[0] == end[0] {
			// vertical segment (start -> end)
			// return true if within the line, check to see if start or end is greater.
			if start[1] > end[1] && start[1] >= pt[1] && pt[1] >= end[1] {
				return false, true
			}

			if end[1] > start[1] && end[1] >= pt[1] && pt[1] >= start[1] {
				return false, true
			}
		}

		// Move the y coordinate to deal with degenerate case
		pt[0] = math.Nextafter(pt[0], math.Inf(1))
	} else if pt[0] == end[0] {
		if pt[1] == end[1] {
			// matching the end point
			return false, true
		}

		pt[0] = math.Nextafter(pt[0], math.Inf(1))
	}

	if pt[0] < start[0] || pt[0] > end[0] {
		return false, false
	}

	if start[1] > end[1] {
		if pt[1] > start[1] {
			return false, false
		} else if pt[1] < end[1] {
			return true, false
		}
	} else {
		if pt[1] > end[1] {
			return false, false
		} else if pt[1] < start[1] {
			return true, false
		}
	}

	rs := (pt[1] - start[1]) / (pt[0] - start[0])
	ds := (end[1] - start[1]) / (end[0] - start[0])

	if rs == ds {
		return false, true
	}

	return rs <= ds, false
}

// RingContains reports whether pt lies within the ring (even-odd rule).
// A point exactly on the ring counts as contained.
func RingContains(ring [][2]float64, pt [2]float64) bool {
	if len(ring) < 3 {
		return false
	}

	inside, on := RayIntersect(pt, ring[len(ring)-1], ring[0])
	if on {
		return true
	}
	for i := 0; i < len(ring)-1; i++ {
		intersects, onSegment := RayIntersect(pt, ring[i], ring[i+1])
		if onSegment {
			return true
		}
		if intersects {
			inside = !inside
		}
	}
	return inside
}

// PolygonContains reports whether pt lies within the polygon's exterior ring
// and outside all of its interior rings (holes).
func PolygonContains(p geom.Polygon, pt [2]float64) bool {
	if len(p) == 0 || !RingContains(p[0], pt) {
		return false
	}
	for _, interior := range p[1:] {
		if RingContains(interior, pt) {
			return false
		}
	}
	return true
}

// MultiPolygonContains reports whether pt lies within any of the polygons.
func MultiPolygonContains(mp geom.MultiPolygon, pt [2]float64) bool {
	for _, p := range mp {
		if PolygonContains(p, pt) {
			return true
		}
	}
	return false
}

// GeometryContains dispatches to the polygon containment checks.
// Non-area geometries contain nothing.
func GeometryContains(g geom.Geometry, pt [2]float64) bool {
	switch gg := g.(type) {
	case geom.Polygon:
		return PolygonContains(gg, pt)
	case geom.MultiPolygon:
		return MultiPolygonContains(gg, pt)
	default:
		return false
	}
}

// WktMustEncode renders a geometry as WKT for log lines, truncated to maxLen
// runes. A maxLen of 0 means no truncation.
func WktMustEncode(g geom.Geometry, maxLen uint) string {
	if maxLen == 0 {
		return wkt.MustEncode(g)
	}
	return truncate.StringWithTail(wkt.MustEncode(g), maxLen, "...")
}
