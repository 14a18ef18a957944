package blendspace

import (
	"sort"

	"github.com/Faultbox/blendspace/pkg/math"
)

// baryEpsilon tolerates rounding when testing whether a vertex lies inside a triangle.
const baryEpsilon = 1e-5

// BuildGrid2D resolves every vertex of a 2D grid against the triangulated samples.
// Vertices inside a triangle get its barycentric weights; vertices outside the
// sampled hull fall back to the nearest samples. It returns an empty grid when
// there are no valid samples.
func BuildGrid2D(params [2]BlendParameter, samples []BlendSample) *Grid {
	tr := Triangulate(params, samples)
	if len(tr.Points) == 0 {
		return &Grid{NumX: params[0].GridNum, NumY: params[1].GridNum}
	}

	grid := NewGrid(params[0].GridNum, params[1].GridNum)
	for x := 0; x <= grid.NumX; x++ {
		for y := 0; y <= grid.NumY; y++ {
			p := TriPoint{
				X: float64(x) / float64(grid.NumX),
				Y: float64(y) / float64(grid.NumY),
			}
			grid.Set(x, y, tr.resolve(p))
		}
	}
	return grid
}

// resolve computes the grid element for a point in normalized space.
func (tr *Triangulation) resolve(p TriPoint) GridElement {
	if e, ok := tr.containing(p); ok {
		return e
	}
	if e, ok := tr.nearestSegment(p); ok {
		return e
	}
	return tr.nearestPoints(p)
}

// containing finds the closest proper triangle containing p.
func (tr *Triangulation) containing(p TriPoint) (GridElement, bool) {
	type candidate struct {
		tri  Triangle
		dist float64
	}
	var cands []candidate
	for _, t := range tr.Triangles {
		if t.IsDegenerate() {
			continue
		}
		d := 0.0
		for _, v := range t {
			d += pointDistance(tr.Points[v], p)
		}
		cands = append(cands, candidate{t, d})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	for _, c := range cands {
		a, b, cc := tr.Points[c.tri[0]], tr.Points[c.tri[1]], tr.Points[c.tri[2]]
		u, v, w, ok := barycentric(p, a, b, cc)
		if !ok || u < -baryEpsilon || v < -baryEpsilon || w < -baryEpsilon {
			continue
		}
		weights := [3]float64{clampUnit(u), clampUnit(v), clampUnit(w)}
		return tr.element(c.tri[:], weights[:]), true
	}
	return GridElement{}, false
}

// nearestSegment projects p onto the closest segment of a collinear triangulation.
func (tr *Triangulation) nearestSegment(p TriPoint) (GridElement, bool) {
	best := -1.0
	var out GridElement
	for _, t := range tr.Triangles {
		if t[0] == t[1] || t[1] != t[2] {
			continue
		}
		a, b := tr.Points[t[0]], tr.Points[t[1]]
		dx, dy := b.X-a.X, b.Y-a.Y
		lenSq := dx*dx + dy*dy
		if lenSq == 0 {
			continue
		}
		s := clampUnit(((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq)
		proj := TriPoint{X: a.X + s*dx, Y: a.Y + s*dy}
		d := pointDistance(proj, p)
		if best < 0 || d < best {
			best = d
			out = tr.element([]int{t[0], t[1]}, []float64{1 - s, s})
		}
	}
	return out, best >= 0
}

// nearestPoints weights the up to three closest samples by inverse distance.
func (tr *Triangulation) nearestPoints(p TriPoint) GridElement {
	idx := make([]int, len(tr.Points))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return pointDistance(tr.Points[idx[i]], p) < pointDistance(tr.Points[idx[j]], p)
	})
	if len(idx) > MaxVertices {
		idx = idx[:MaxVertices]
	}

	weights := make([]float64, len(idx))
	total := 0.0
	for i, v := range idx {
		d := pointDistance(tr.Points[v], p)
		if d < baryEpsilon {
			return tr.element([]int{v}, []float64{1})
		}
		weights[i] = 1 / d
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return tr.element(idx, weights)
}

func (tr *Triangulation) element(points []int, weights []float64) GridElement {
	var e GridElement
	for i := 0; i < len(points) && i < MaxVertices; i++ {
		e.Refs[i] = RefTo(tr.Points[points[i]].Sample)
		e.Weights[i] = float32(weights[i])
	}
	return e
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// BuildGrid1D resolves every point of a 1D grid against the two samples that
// bracket it. Points outside the sampled range take the nearest sample.
func BuildGrid1D(param BlendParameter, samples []BlendSample) *Grid {
	type entry struct {
		x     float32
		index int
	}
	var sorted []entry
	for i, s := range samples {
		if s.Valid {
			sorted = append(sorted, entry{s.Value.X, i})
		}
	}
	if len(sorted) == 0 {
		return &Grid{NumX: param.GridNum}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].x < sorted[j].x })

	grid := NewGrid(param.GridNum, 0)
	for gx := 0; gx <= grid.NumX; gx++ {
		x := param.Min + float32(gx)*param.GridSize()
		var e GridElement

		switch last := len(sorted) - 1; {
		case x <= sorted[0].x:
			e.Refs[0], e.Weights[0] = RefTo(sorted[0].index), 1
		case x >= sorted[last].x:
			e.Refs[0], e.Weights[0] = RefTo(sorted[last].index), 1
		default:
			for i := 0; i < last; i++ {
				lo, hi := sorted[i], sorted[i+1]
				if x < lo.x || x > hi.x {
					continue
				}
				span := hi.x - lo.x
				if span <= math.KindaSmallNumber {
					e.Refs[0], e.Weights[0] = RefTo(lo.index), 1
					break
				}
				t := (x - lo.x) / span
				e.Refs[0], e.Weights[0] = RefTo(lo.index), 1-t
				e.Refs[1], e.Weights[1] = RefTo(hi.index), t
				break
			}
		}
		grid.Set(gx, 0, e)
	}
	return grid
}
