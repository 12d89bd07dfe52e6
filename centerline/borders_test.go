package centerline

import (
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensifyRing(t *testing.T) {
	var tests = []struct {
		ring [][2]float64
		dist float64
		want [][2]float64
	}{
		// Unit square every half unit, wraparound point duplicates the start
		0: {
			ring: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			dist: 0.5,
			want: [][2]float64{
				{0, 0}, {0.5, 0}, {1, 0}, {1, 0.5}, {1, 1}, {0.5, 1}, {0, 1}, {0, 0.5}, {0, 0},
			},
		},
		// Explicitly closed ring gives the same result
		1: {
			ring: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
			dist: 0.5,
			want: [][2]float64{
				{0, 0}, {0.5, 0}, {1, 0}, {1, 0.5}, {1, 1}, {0.5, 1}, {0, 1}, {0, 0.5}, {0, 0},
			},
		},
		// Distance longer than the perimeter leaves only the start point
		2: {
			ring: [][2]float64{{0, 0}, {1, 0}, {0, 1}},
			dist: 10,
			want: [][2]float64{{0, 0}},
		},
		// Non-positive distance yields the ring vertices as-is
		3: {
			ring: [][2]float64{{0, 0}, {1, 0}, {0, 1}},
			dist: 0,
			want: [][2]float64{{0, 0}, {1, 0}, {0, 1}},
		},
		// Empty ring
		4: {ring: nil, dist: 0.5, want: nil},
	}

	for k, test := range tests {
		got := densifyRing(test.ring, test.dist)
		assert.EqualValues(t, test.want, got, "test: %d", k)
	}
}

func TestDedupePoints(t *testing.T) {
	got := dedupePoints([][2]float64{{0, 0}, {1, 0}, {0, 0}, {1, 0}, {2, 2}})
	assert.EqualValues(t, [][2]float64{{0, 0}, {1, 0}, {2, 2}}, got)
}

func TestBorderRings(t *testing.T) {
	polygon := geom.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	}
	rings, err := borderRings(polygon)
	require.NoError(t, err)
	assert.Len(t, rings, 2)

	multi := geom.MultiPolygon{polygon, {{{20, 20}, {22, 20}, {21, 22}, {20, 20}}}}
	rings, err = borderRings(multi)
	require.NoError(t, err)
	assert.Len(t, rings, 3)

	_, err = borderRings(geom.Point{1, 2})
	var invalidInput InvalidInputTypeError
	require.ErrorAs(t, err, &invalidInput)
}

func TestMinCorner(t *testing.T) {
	rings := [][][2]float64{{{3, 7}, {10, 2}}, {{-1, 8}}}
	assert.Equal(t, [2]float64{-1, 2}, minCorner(rings))
	assert.Equal(t, [2]float64{0, 0}, minCorner(nil))
}
