package centerline

import (
	"fmt"

	"github.com/go-spatial/geom"
)

// InvalidInputTypeError is returned when the input geometry is not a polygon
// or multipolygon.
type InvalidInputTypeError struct {
	Geometry geom.Geometry
}

func (e InvalidInputTypeError) Error() string {
	return fmt.Sprintf("input geometry must be a polygon or multipolygon, got %T", e.Geometry)
}

// TooFewRidgesError is returned when the interpolation distance yields too
// few Voronoi ridges within the geometry to build a centerline.
type TooFewRidgesError struct {
	Ridges                int
	InterpolationDistance float64
}

func (e TooFewRidgesError) Error() string {
	return fmt.Sprintf(
		"number of produced ridges is too small: %d, this might be caused by too large interpolation distance (%v)",
		e.Ridges, e.InterpolationDistance)
}
