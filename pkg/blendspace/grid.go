package blendspace

// MaxVertices is the number of sample slots per grid element.
const MaxVertices = 3

// SampleRef refers to a blend sample from a grid element.
// The zero value refers to no sample.
type SampleRef struct {
	idx int32 // sample index + 1
}

// RefTo returns a reference to sample i.
func RefTo(i int) SampleRef {
	return SampleRef{idx: int32(i) + 1}
}

// Index returns the referenced sample index and whether the reference is set.
func (r SampleRef) Index() (int, bool) {
	if r.idx == 0 {
		return 0, false
	}
	return int(r.idx - 1), true
}

// IsSet reports whether the reference points at a sample.
func (r SampleRef) IsSet() bool {
	return r.idx != 0
}

// GridElement is the resolved answer stored at one grid vertex.
// Unused slots hold an unset ref and weight 0.
type GridElement struct {
	Refs    [MaxVertices]SampleRef
	Weights [MaxVertices]float32
}

// IsEmpty reports whether no slot references a sample.
func (e GridElement) IsEmpty() bool {
	for _, r := range e.Refs {
		if r.IsSet() {
			return false
		}
	}
	return true
}

// Grid is the precomputed lattice of a blend space.
// A 2D grid stores (NumX+1)*(NumY+1) elements indexed x*(NumY+1)+y;
// a 1D grid has NumY == 0 and stores NumX+1 elements.
type Grid struct {
	NumX     int
	NumY     int
	Elements []GridElement
}

// NewGrid allocates an empty grid for the given cell counts.
func NewGrid(numX, numY int) *Grid {
	return &Grid{
		NumX:     numX,
		NumY:     numY,
		Elements: make([]GridElement, (numX+1)*(numY+1)),
	}
}

// IsEmpty reports whether the grid has never been filled.
func (g *Grid) IsEmpty() bool {
	return g == nil || len(g.Elements) == 0
}

// Element returns the element at (x, y). Lookups outside the lattice or into an
// unbuilt grid return an empty element instead of failing.
func (g *Grid) Element(x, y int) GridElement {
	if g.IsEmpty() || x < 0 || y < 0 || x > g.NumX || y > g.NumY {
		return GridElement{}
	}
	i := x*(g.NumY+1) + y
	if i >= len(g.Elements) {
		return GridElement{}
	}
	return g.Elements[i]
}

// Set stores e at (x, y). Out-of-range writes are ignored.
func (g *Grid) Set(x, y int, e GridElement) {
	if g == nil || x < 0 || y < 0 || x > g.NumX || y > g.NumY {
		return
	}
	i := x*(g.NumY+1) + y
	if i < len(g.Elements) {
		g.Elements[i] = e
	}
}
