package blendspace

import "github.com/Faultbox/blendspace/pkg/math"

// GridBlendSample is one grid vertex picked for an input, with its interpolation weight.
type GridBlendSample struct {
	Element     GridElement
	BlendWeight float32
}

// Corner names the four vertices of a 2D cell.
type Corner int

const (
	LeftBottom Corner = iota
	RightBottom
	LeftTop
	RightTop
)

// NormalizeInput converts a blend input into fractional grid coordinates.
func NormalizeInput(params []BlendParameter, input math.Vec3) math.Vec3 {
	var out math.Vec3
	for axis, p := range params {
		if axis >= MaxAxes {
			break
		}
		out = out.WithAxis(axis, (input.Axis(axis)-p.Min)/p.GridSize())
	}
	return out
}

// ClampInput limits each axis of input to its parameter range.
func ClampInput(params []BlendParameter, input math.Vec3) math.Vec3 {
	for axis, p := range params {
		if axis >= MaxAxes {
			break
		}
		input = input.WithAxis(axis, math.Clamp(input.Axis(axis), p.Min, p.Max))
	}
	return input
}

// GetGridSamplesFromInput returns the four vertices of the cell containing
// input, indexed by Corner, with bilinear weights. input must already lie
// inside the parameter range. An input exactly on a grid line belongs to the
// cell above/right of it, so the far corners carry weight 0.
func GetGridSamplesFromInput(grid *Grid, params [2]BlendParameter, input math.Vec3) [4]GridBlendSample {
	n := NormalizeInput(params[:], input)
	gx, gy := math.Floor(n.X), math.Floor(n.Y)
	rx, ry := n.X-gx, n.Y-gy
	x, y := int(gx), int(gy)

	var out [4]GridBlendSample
	out[LeftTop] = GridBlendSample{grid.Element(x, y+1), (1 - rx) * ry}
	out[RightTop] = GridBlendSample{grid.Element(x+1, y+1), rx * ry}
	out[LeftBottom] = GridBlendSample{grid.Element(x, y), (1 - rx) * (1 - ry)}
	out[RightBottom] = GridBlendSample{grid.Element(x+1, y), rx * (1 - ry)}
	return out
}

// GetGridSamplesFromInput1D returns the two grid points straddling input with
// linear weights (1-t, t).
func GetGridSamplesFromInput1D(grid *Grid, param BlendParameter, input float32) [2]GridBlendSample {
	n := (input - param.Min) / param.GridSize()
	g := math.Floor(n)
	t := n - g
	x := int(g)

	return [2]GridBlendSample{
		{grid.Element(x, 0), 1 - t},
		{grid.Element(x+1, 0), t},
	}
}

// rawGridSamples appends the raw grid contributions for input to buf.
func rawGridSamples(kind Kind, grid *Grid, params []BlendParameter, input math.Vec3, buf []GridBlendSample) []GridBlendSample {
	if kind.Dimensions() == 1 {
		s := GetGridSamplesFromInput1D(grid, params[0], input.X)
		return append(buf, s[:]...)
	}
	s := GetGridSamplesFromInput(grid, [2]BlendParameter{params[0], params[1]}, input)
	return append(buf, s[:]...)
}
