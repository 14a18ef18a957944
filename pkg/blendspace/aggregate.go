package blendspace

// ZeroWeightThreshold is the weight below which a sample is not blended.
const ZeroWeightThreshold = 1e-5

// SampleWeight is the blend weight of one sample.
type SampleWeight struct {
	Index  int
	Weight float32
}

// AggregateGridSamples flattens raw grid contributions into one entry per
// sample, drops negligible weights, merges entries that play the same
// animation and normalizes the result to sum to 1. It returns false when
// nothing is left to blend.
func AggregateGridSamples(raw []GridBlendSample, samples []BlendSample, out []SampleWeight) ([]SampleWeight, bool) {
	out = out[:0]

	for _, gs := range raw {
		if gs.BlendWeight <= 0 {
			continue
		}
		for slot, ref := range gs.Element.Refs {
			idx, ok := ref.Index()
			if !ok {
				continue
			}
			out = addWeight(out, idx, gs.Element.Weights[slot]*gs.BlendWeight)
		}
	}

	n := 0
	for _, sw := range out {
		if sw.Weight >= ZeroWeightThreshold {
			out[n] = sw
			n++
		}
	}
	out = out[:n]

	out = mergeSameAnimation(out, samples)

	if !NormalizeWeights(out) {
		return out[:0], false
	}
	return out, true
}

func addWeight(list []SampleWeight, idx int, w float32) []SampleWeight {
	for i := range list {
		if list[i].Index == idx {
			list[i].Weight += w
			return list
		}
	}
	return append(list, SampleWeight{Index: idx, Weight: w})
}

// mergeSameAnimation folds later entries into the first entry playing the same animation.
func mergeSameAnimation(list []SampleWeight, samples []BlendSample) []SampleWeight {
	for i := 0; i < len(list); i++ {
		anim := animationAt(samples, list[i].Index)
		if anim == nil {
			continue
		}
		for j := i + 1; j < len(list); {
			if sameAnimation(animationAt(samples, list[j].Index), anim) {
				list[i].Weight += list[j].Weight
				list = append(list[:j], list[j+1:]...)
				continue
			}
			j++
		}
	}
	return list
}

func animationAt(samples []BlendSample, idx int) Animation {
	if idx < 0 || idx >= len(samples) {
		return nil
	}
	return samples[idx].Animation
}

// NormalizeWeights scales list so its weights sum to 1.
// It returns false if the total weight is zero.
func NormalizeWeights(list []SampleWeight) bool {
	var total float32
	for _, sw := range list {
		total += sw.Weight
	}
	if total <= ZeroWeightThreshold {
		return false
	}
	for i := range list {
		list[i].Weight /= total
	}
	return true
}
