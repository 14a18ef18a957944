package blendspace

import (
	stdmath "math"
	"sort"
)

// circleEpsilon is the determinant magnitude treated as "on the circumcircle".
const circleEpsilon = 1e-9

// TriPoint is a sample position in normalized grid space ([0,1] per axis).
type TriPoint struct {
	X, Y   float64
	Sample int
}

// Triangle holds three indices into the triangulated point list, counter-clockwise.
// A segment (collinear input) repeats its second vertex; a lone point repeats the first.
type Triangle [3]int

// IsDegenerate reports whether the triangle is a segment or a point.
func (t Triangle) IsDegenerate() bool {
	return t[0] == t[1] || t[1] == t[2] || t[0] == t[2]
}

// Triangulation is the Delaunay triangulation of a blend space's samples.
type Triangulation struct {
	Points    []TriPoint
	Triangles []Triangle
}

// Triangulate builds the Delaunay triangulation of the samples' X/Y coordinates.
// Coordinates are normalized by the parameter ranges so both axes weigh equally.
// Coincident samples are collapsed onto the first of them.
func Triangulate(params [2]BlendParameter, samples []BlendSample) *Triangulation {
	tr := &Triangulation{Points: normalizedPoints(params, samples)}

	switch n := len(tr.Points); {
	case n == 0:
		return tr
	case n == 1:
		tr.Triangles = []Triangle{{0, 0, 0}}
		return tr
	case n == 2:
		tr.Triangles = []Triangle{{0, 1, 1}}
		return tr
	}

	tr.Triangles = bowyerWatson(tr.Points)
	if len(tr.Triangles) == 0 {
		// All points collinear: chain them in sorted order.
		for i := 0; i+1 < len(tr.Points); i++ {
			tr.Triangles = append(tr.Triangles, Triangle{i, i + 1, i + 1})
		}
	}
	return tr
}

func normalizedPoints(params [2]BlendParameter, samples []BlendSample) []TriPoint {
	pts := make([]TriPoint, 0, len(samples))
	for i, s := range samples {
		if !s.Valid {
			continue
		}
		p := TriPoint{
			X:      float64((s.Value.X - params[0].Min) / params[0].Range()),
			Y:      float64((s.Value.Y - params[1].Min) / params[1].Range()),
			Sample: i,
		}
		dup := false
		for _, q := range pts {
			if q.X == p.X && q.Y == p.Y {
				dup = true
				break
			}
		}
		if !dup {
			pts = append(pts, p)
		}
	}
	sort.SliceStable(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	return pts
}

// bowyerWatson returns the Delaunay triangles of pts, or nil if they are all collinear.
func bowyerWatson(pts []TriPoint) []Triangle {
	n := len(pts)
	all := make([]TriPoint, n, n+3)
	copy(all, pts)
	// Super triangle enclosing the unit square with a wide margin.
	all = append(all,
		TriPoint{X: -1000, Y: -1000, Sample: -1},
		TriPoint{X: 1000, Y: -1000, Sample: -1},
		TriPoint{X: 0, Y: 1000, Sample: -1},
	)

	tris := []Triangle{{n, n + 1, n + 2}}
	for p := 0; p < n; p++ {
		var bad []Triangle
		kept := tris[:0]
		for _, t := range tris {
			if inCircumcircle(all, t, all[p]) {
				bad = append(bad, t)
			} else {
				kept = append(kept, t)
			}
		}
		tris = kept

		for _, e := range boundaryEdges(bad) {
			if orient(all[e[0]], all[e[1]], all[p]) == 0 {
				continue
			}
			tris = append(tris, ccw(all, e[0], e[1], p))
		}
	}

	out := make([]Triangle, 0, len(tris))
	for _, t := range tris {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			continue
		}
		out = append(out, t)
	}
	return out
}

// boundaryEdges returns the edges of the cavity formed by tris: edges used by exactly one triangle.
func boundaryEdges(tris []Triangle) [][2]int {
	count := make(map[[2]int]int, len(tris)*3)
	var order [][2]int
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			e := [2]int{t[k], t[(k+1)%3]}
			key := e
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if count[key] == 0 {
				order = append(order, e)
			}
			count[key]++
		}
	}
	var edges [][2]int
	for _, e := range order {
		key := e
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if count[key] == 1 {
			edges = append(edges, e)
		}
	}
	return edges
}

func orient(a, b, c TriPoint) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func ccw(pts []TriPoint, a, b, c int) Triangle {
	if orient(pts[a], pts[b], pts[c]) < 0 {
		return Triangle{a, c, b}
	}
	return Triangle{a, b, c}
}

// inCircumcircle reports whether p lies strictly inside the circumcircle of t (t is CCW).
func inCircumcircle(pts []TriPoint, t Triangle, p TriPoint) bool {
	a, b, c := pts[t[0]], pts[t[1]], pts[t[2]]
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > circleEpsilon
}

// barycentric returns the barycentric coordinates of p in triangle (a, b, c).
func barycentric(p, a, b, c TriPoint) (float64, float64, float64, bool) {
	d := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if d == 0 {
		return 0, 0, 0, false
	}
	u := ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / d
	v := ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / d
	return u, v, 1 - u - v, true
}

func pointDistance(a, b TriPoint) float64 {
	return stdmath.Hypot(a.X-b.X, a.Y-b.Y)
}
