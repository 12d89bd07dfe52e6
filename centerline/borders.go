package centerline

import (
	"math"

	"github.com/go-spatial/geom"
)

// borderRings collects all rings (exteriors and holes) of the input geometry.
// Any other geometry type is an InvalidInputTypeError.
func borderRings(g geom.Geometry) ([][][2]float64, error) {
	switch gg := g.(type) {
	case geom.Polygon:
		return gg, nil
	case geom.MultiPolygon:
		var rings [][][2]float64
		for _, p := range gg {
			rings = append(rings, p...)
		}
		return rings, nil
	default:
		return nil, InvalidInputTypeError{Geometry: g}
	}
}

// minCorner returns the lower-left corner of the rings' bounding box.
// Coordinates are reduced by it before the Voronoi core runs and restored
// after, to keep the numerics well conditioned.
func minCorner(rings [][][2]float64) [2]float64 {
	min := [2]float64{math.Inf(1), math.Inf(1)}
	for _, ring := range rings {
		for _, pt := range ring {
			min[0] = math.Min(min[0], pt[0])
			min[1] = math.Min(min[1], pt[1])
		}
	}
	if math.IsInf(min[0], 1) {
		return [2]float64{0, 0}
	}
	return min
}

// densifyRing walks the closed ring and emits its start point plus a point
// every dist along the perimeter. A non-positive dist yields only the ring's
// own vertices.
func densifyRing(ring [][2]float64, dist float64) [][2]float64 {
	if len(ring) == 0 {
		return nil
	}
	if dist <= 0 {
		out := make([][2]float64, len(ring))
		copy(out, ring)
		return out
	}

	out := [][2]float64{ring[0]}
	next := dist
	traveled := 0.0
	prev := ring[0]
	for i := 1; i <= len(ring); i++ {
		cur := ring[i%len(ring)] // wraps around to close the ring
		seg := math.Hypot(cur[0]-prev[0], cur[1]-prev[1])
		for seg > 0 && next <= traveled+seg {
			t := (next - traveled) / seg
			out = append(out, [2]float64{
				prev[0] + t*(cur[0]-prev[0]),
				prev[1] + t*(cur[1]-prev[1]),
			})
			next += dist
		}
		traveled += seg
		prev = cur
	}
	return out
}

// dedupePoints removes exact duplicates while preserving order.
// Closed rings repeat their first point, which would degenerate the
// triangulation.
func dedupePoints(pts [][2]float64) [][2]float64 {
	seen := make(map[[2]float64]struct{}, len(pts))
	out := make([][2]float64, 0, len(pts))
	for _, pt := range pts {
		if _, ok := seen[pt]; ok {
			continue
		}
		seen[pt] = struct{}{}
		out = append(out, pt)
	}
	return out
}
