package blendspace

import "github.com/Faultbox/blendspace/pkg/math"

// ThresholdFraction is the share of a grid cell below which two sample
// coordinates count as the same point.
const ThresholdFraction = 0.3

// ComputeThreshold returns the per-axis minimum separation between samples.
func ComputeThreshold(params []BlendParameter) []float32 {
	threshold := make([]float32, len(params))
	for i, p := range params {
		threshold[i] = p.GridSize() * ThresholdFraction
	}
	return threshold
}

// SnapToBorder moves any coordinate lying within threshold of its axis bounds
// onto the bound, and clamps coordinates outside the range. Applying it twice
// gives the same result as applying it once.
func SnapToBorder(sample *BlendSample, params []BlendParameter, threshold []float32) {
	for axis, p := range params {
		if axis >= len(threshold) || axis >= MaxAxes {
			return
		}
		v := math.Clamp(sample.Value.Axis(axis), p.Min, p.Max)
		switch {
		case v != p.Min && v-p.Min < threshold[axis]:
			v = p.Min
		case v != p.Max && p.Max-v < threshold[axis]:
			v = p.Max
		}
		sample.Value = sample.Value.WithAxis(axis, v)
	}
}

// isWithinThreshold reports whether a and b are closer than threshold on every axis.
func isWithinThreshold(a, b math.Vec3, threshold []float32) bool {
	for axis, t := range threshold {
		if math.Abs(a.Axis(axis)-b.Axis(axis)) >= t {
			return false
		}
	}
	return true
}
