package centerline

import (
	"math"
)

// voronoiDiagram holds the finite part of a Voronoi diagram: the vertices
// (circumcenters of the Delaunay triangles) and the ridges between vertices
// of edge-adjacent triangles. Ridges of infinite Voronoi regions (triangles
// touching the enclosing super-triangle) are not represented.
type voronoiDiagram struct {
	vertices [][2]float64
	ridges   [][2]int
}

type triangle struct {
	a, b, c int
}

// edges returns the triangle's edges as index pairs with the lower index
// first, so an edge shared by two triangles has one key.
func (t triangle) edges() [3][2]int {
	e := [3][2]int{{t.a, t.b}, {t.b, t.c}, {t.a, t.c}}
	for i := range e {
		if e[i][0] > e[i][1] {
			e[i][0], e[i][1] = e[i][1], e[i][0]
		}
	}
	return e
}

func (t triangle) touches(minIndex int) bool {
	return t.a >= minIndex || t.b >= minIndex || t.c >= minIndex
}

// newVoronoiDiagram computes the Voronoi diagram of the given points via the
// dual of a Bowyer-Watson Delaunay triangulation.
func newVoronoiDiagram(points [][2]float64) voronoiDiagram {
	n := len(points)
	if n < 3 {
		return voronoiDiagram{}
	}

	all := make([][2]float64, n, n+3)
	copy(all, points)
	all = append(all, superTriangle(points)...)

	tris := []triangle{{n, n + 1, n + 2}}
	for i := 0; i < n; i++ {
		var bad, keep []triangle
		for _, t := range tris {
			if inCircumcircle(all[t.a], all[t.b], all[t.c], all[i]) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		edgeCount := make(map[[2]int]int)
		for _, t := range bad {
			for _, e := range t.edges() {
				edgeCount[e]++
			}
		}
		// the cavity boundary is every edge belonging to exactly one
		// removed triangle; retriangulate it against the new point
		for _, t := range bad {
			for _, e := range t.edges() {
				if edgeCount[e] == 1 {
					keep = append(keep, triangle{e[0], e[1], i})
				}
			}
		}
		tris = keep
	}

	var vd voronoiDiagram
	triVertex := make([]int, len(tris))
	for ti, t := range tris {
		triVertex[ti] = -1
		if t.touches(n) {
			continue
		}
		cc, ok := circumcenter(all[t.a], all[t.b], all[t.c])
		if !ok {
			continue
		}
		triVertex[ti] = len(vd.vertices)
		vd.vertices = append(vd.vertices, cc)
	}

	adjacent := make(map[[2]int][2]int) // edge -> up to two triangle indices
	counts := make(map[[2]int]int)
	for ti, t := range tris {
		if triVertex[ti] < 0 {
			continue
		}
		for _, e := range t.edges() {
			pair := adjacent[e]
			if counts[e] < 2 {
				pair[counts[e]] = ti
			}
			adjacent[e] = pair
			counts[e]++
		}
	}
	for ti, t := range tris {
		if triVertex[ti] < 0 {
			continue
		}
		for _, e := range t.edges() {
			if counts[e] == 2 && adjacent[e][0] == ti {
				vd.ridges = append(vd.ridges, [2]int{
					triVertex[adjacent[e][0]],
					triVertex[adjacent[e][1]],
				})
			}
		}
	}
	return vd
}

// superTriangle returns three points enclosing the point set by a wide
// margin, so every input point falls inside the initial triangle.
func superTriangle(points [][2]float64) [][2]float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range points {
		minX = math.Min(minX, pt[0])
		minY = math.Min(minY, pt[1])
		maxX = math.Max(maxX, pt[0])
		maxY = math.Max(maxY, pt[1])
	}
	d := math.Max(maxX-minX, maxY-minY)
	if d == 0 {
		d = 1
	}
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	return [][2]float64{
		{cx - 20*d, cy - d},
		{cx + 20*d, cy - d},
		{cx, cy + 20*d},
	}
}

// circumcenter returns the center of the circle through a, b and c.
// ok is false for (nearly) collinear points.
func circumcenter(a, b, c [2]float64) (center [2]float64, ok bool) {
	d := 2 * (a[0]*(b[1]-c[1]) + b[0]*(c[1]-a[1]) + c[0]*(a[1]-b[1]))
	if math.Abs(d) < 1e-12 {
		return [2]float64{}, false
	}
	aa := a[0]*a[0] + a[1]*a[1]
	bb := b[0]*b[0] + b[1]*b[1]
	cc := c[0]*c[0] + c[1]*c[1]
	return [2]float64{
		(aa*(b[1]-c[1]) + bb*(c[1]-a[1]) + cc*(a[1]-b[1])) / d,
		(aa*(c[0]-b[0]) + bb*(a[0]-c[0]) + cc*(b[0]-a[0])) / d,
	}, true
}

// inCircumcircle reports whether p lies inside or on the circumcircle of
// triangle abc. On-circle points must count as inside, otherwise exactly
// cocircular border points (axis-aligned rings densified at a uniform
// interval produce many) leave the cavity inconsistent.
func inCircumcircle(a, b, c, p [2]float64) bool {
	center, ok := circumcenter(a, b, c)
	if !ok {
		return false
	}
	r2 := sqDist(a, center)
	d2 := sqDist(p, center)
	return d2 <= r2+1e-12*(r2+1)
}

func sqDist(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
