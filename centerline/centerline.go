// Package centerline approximates the medial skeleton of polygons: the
// polygon's borders are densified with points at a fixed interval, a Voronoi
// diagram of those points is computed and the Voronoi ridges that lie fully
// within the polygon form the centerline.
package centerline

import (
	"math"

	"github.com/go-spatial/geom"

	"github.com/pdok/centerline/geomhelp"
	"github.com/pdok/centerline/mapslicehelp"
)

// Centerline is a linear approximation of a polygon's medial skeleton, plus
// the attributes of the feature it was computed from.
type Centerline struct {
	Geometry   geom.MultiLineString
	Attributes map[string]any
}

// New computes the centerline of a polygon or multipolygon. Every
// interpolationDistance along the geometry's borders a point is placed; the
// sign of the distance is ignored. The given attributes are republished on
// the result untouched.
//
// Returns InvalidInputTypeError for non-area geometries and
// TooFewRidgesError when the distance is too coarse for the geometry.
func New(inputGeom geom.Geometry, interpolationDistance float64, attributes map[string]any) (*Centerline, error) {
	dist := math.Abs(interpolationDistance)

	rings, err := borderRings(inputGeom)
	if err != nil {
		return nil, err
	}

	min := minCorner(rings)
	var seeds [][2]float64
	for _, ring := range rings {
		reduced := make([][2]float64, len(ring))
		for i, pt := range ring {
			reduced[i] = [2]float64{pt[0] - min[0], pt[1] - min[1]}
		}
		seeds = append(seeds, densifyRing(reduced, dist)...)
	}
	seeds = dedupePoints(seeds)

	diagram := newVoronoiDiagram(seeds)

	var lines geom.MultiLineString
	for _, ridge := range diagram.ridges {
		start := restore(diagram.vertices[ridge[0]], min)
		end := restore(diagram.vertices[ridge[1]], min)
		if geomhelp.GeometryContains(inputGeom, start) && geomhelp.GeometryContains(inputGeom, end) {
			lines = append(lines, [][2]float64{start, end})
		}
	}

	if len(lines) < 2 {
		return nil, TooFewRidgesError{Ridges: len(lines), InterpolationDistance: dist}
	}

	return &Centerline{
		Geometry:   lines,
		Attributes: mapslicehelp.CopyMap(attributes),
	}, nil
}

func restore(pt, min [2]float64) [2]float64 {
	return [2]float64{pt[0] + min[0], pt[1] + min[1]}
}
