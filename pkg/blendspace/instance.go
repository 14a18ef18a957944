package blendspace

import "github.com/Faultbox/blendspace/pkg/math"

// SampleData is the per-instance blend state of one contributing sample.
type SampleData struct {
	Index          int
	Weight         float32
	PerBoneWeights []float32 // one per Settings.PerBoneInterpolation entry
	Time           float32   // seconds into the sample's animation
	PreviousTime   float32
}

// TickResult is the outcome of one Instance.Tick. Slices alias instance
// storage and stay valid until the next Tick.
type TickResult struct {
	Generation     uint64
	Input          math.Vec3 // filtered and clamped input that was sampled
	Samples        []SampleData
	AnimLength     float32
	NormalizedTime float32
	Mode           CompositionMode
	// Notifies lists positions in Samples whose animation notifies fire this tick.
	Notifies []int
	// Held is set when the input yielded nothing and the previous samples were kept.
	Held bool
}

// HasSamples reports whether the result contains anything to blend.
func (r TickResult) HasSamples() bool {
	return len(r.Samples) > 0
}

// Instance is the mutable evaluation state of one user of a blend space.
// The blend space may be shared; an Instance must not be.
type Instance struct {
	space  *BlendSpace
	filter *InputFilter

	// PlayRate scales time advance; 1 is normal speed.
	PlayRate float32
	// Looping wraps the normalized time instead of clamping it at the end.
	Looping bool

	generation     uint64
	data           []SampleData
	scratch        []SampleData
	target         []SampleWeight
	notifies       []int
	normalizedTime float32
	animLength     float32

	// Per-bone weights alternate between two buffers, see beginBones.
	boneBuf  [2][]float32
	boneFlip int
}

// NewInstance creates evaluation state for space.
func NewInstance(space *BlendSpace) *Instance {
	return &Instance{
		space:    space,
		filter:   NewInputFilter(space.settings.InputInterpolation),
		PlayRate: 1,
		Looping:  true,
	}
}

// Space returns the blend space this instance evaluates.
func (in *Instance) Space() *BlendSpace { return in.space }

// Reset drops blend history, filter state and play position.
func (in *Instance) Reset() {
	in.filter.Reset()
	in.data = in.data[:0]
	in.normalizedTime = 0
	in.animLength = 0
}

// Tick evaluates the blend space for input after deltaTime seconds.
func (in *Instance) Tick(input math.Vec3, deltaTime float32) TickResult {
	snap := in.space.Snapshot()
	if snap.Generation != in.generation {
		// Sample indices may have changed.
		in.generation = snap.Generation
		in.data = in.data[:0]
	}

	if in.filter.IsActive() {
		input = in.filter.Filter(input, deltaTime)
	}
	input = ClampInput(snap.Params, input)

	res := TickResult{Generation: snap.Generation, Input: input, Mode: snap.Mode}

	var ok bool
	in.target, ok = snap.GetSamplesFromBlendInput(input, in.target)
	switch {
	case !ok:
		res.Held = true
	case snap.Settings.TargetWeightInterpolationSpeed > 0 && len(in.data) > 0:
		in.interpolate(deltaTime, snap.Settings)
	default:
		in.assignTarget(len(snap.Settings.PerBoneInterpolation))
	}
	normalizeSampleData(in.data)

	in.advance(snap, deltaTime)

	res.Samples = in.data
	res.AnimLength = in.animLength
	res.NormalizedTime = in.normalizedTime
	res.Notifies = in.selectNotifies(snap.Settings.NotifyTriggerMode)
	return res
}

func (in *Instance) assignTarget(numBones int) {
	in.beginBones(len(in.target), numBones)
	next := in.scratch[:0]
	for _, t := range in.target {
		next = append(next, SampleData{
			Index:          t.Index,
			Weight:         t.Weight,
			PerBoneWeights: fill(in.bones(numBones), t.Weight),
			Time:           in.timeOf(t.Index),
		})
	}
	in.scratch, in.data = in.data, next
}

// interpolate moves each sample weight toward its target at the configured
// speeds. Samples no longer targeted fade out; new ones fade in.
func (in *Instance) interpolate(dt float32, s Settings) {
	speed := s.TargetWeightInterpolationSpeed
	bones := s.PerBoneInterpolation
	in.beginBones(len(in.data)+len(in.target), len(bones))
	next := in.scratch[:0]

	for _, old := range in.data {
		perBone := in.bones(len(bones))
		if len(old.PerBoneWeights) == len(bones) {
			copy(perBone, old.PerBoneWeights)
		} else {
			fill(perBone, old.Weight)
		}
		old.PerBoneWeights = perBone

		target := float32(0)
		found := false
		for _, t := range in.target {
			if t.Index == old.Index {
				target, found = t.Weight, true
				break
			}
		}

		old.Weight = math.InterpConstantTo(old.Weight, target, dt, speed)
		for i, pb := range bones {
			if pb.InterpolationSpeed > 0 {
				perBone[i] = math.InterpConstantTo(perBone[i], target, dt, pb.InterpolationSpeed)
			} else {
				perBone[i] = target
			}
		}
		if found || old.Weight > ZeroWeightThreshold {
			next = append(next, old)
		}
	}

	for _, t := range in.target {
		exists := false
		for _, n := range next {
			if n.Index == t.Index {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		perBone := in.bones(len(bones))
		for i, pb := range bones {
			perBone[i] = math.InterpConstantTo(0, t.Weight, dt, pb.InterpolationSpeed)
		}
		next = append(next, SampleData{
			Index:          t.Index,
			Weight:         math.InterpConstantTo(0, t.Weight, dt, speed),
			PerBoneWeights: perBone,
			Time:           in.timeOf(t.Index),
		})
	}
	in.scratch, in.data = in.data, next
}

// beginBones switches to the other per-bone buffer and reserves room for
// entries samples. The buffer used by the current data stays untouched, so
// the previous TickResult remains valid while the next one is built.
func (in *Instance) beginBones(entries, numBones int) {
	in.boneFlip ^= 1
	need := entries * numBones
	buf := in.boneBuf[in.boneFlip]
	if cap(buf) < need {
		buf = make([]float32, 0, need)
	}
	in.boneBuf[in.boneFlip] = buf[:0]
}

// bones carves n per-bone weights out of the active buffer.
func (in *Instance) bones(n int) []float32 {
	if n == 0 {
		return nil
	}
	buf := in.boneBuf[in.boneFlip]
	start := len(buf)
	buf = buf[:start+n]
	in.boneBuf[in.boneFlip] = buf
	return buf[start : start+n : start+n]
}

// normalizeSampleData scales weights, and each per-bone channel, to sum to 1.
func normalizeSampleData(data []SampleData) bool {
	var total float32
	for _, d := range data {
		total += d.Weight
	}
	if total <= ZeroWeightThreshold {
		return false
	}
	for i := range data {
		data[i].Weight /= total
	}
	if len(data) == 0 {
		return true
	}
	for b := range data[0].PerBoneWeights {
		var sum float32
		for _, d := range data {
			if b < len(d.PerBoneWeights) {
				sum += d.PerBoneWeights[b]
			}
		}
		if sum <= ZeroWeightThreshold {
			continue
		}
		for i := range data {
			if b < len(data[i].PerBoneWeights) {
				data[i].PerBoneWeights[b] /= sum
			}
		}
	}
	return true
}

// advance moves the shared normalized play position and derives per-sample times.
func (in *Instance) advance(snap *Snapshot, dt float32) {
	weights := in.target[:0]
	for _, d := range in.data {
		weights = append(weights, SampleWeight{Index: d.Index, Weight: d.Weight})
	}
	in.target = weights
	in.animLength = snap.AnimLength(weights)

	prev := in.normalizedTime
	if in.animLength > math.SmallNumber {
		in.normalizedTime += dt * in.PlayRate / in.animLength
		if in.Looping {
			in.normalizedTime -= math.Floor(in.normalizedTime)
		} else {
			in.normalizedTime = math.Clamp(in.normalizedTime, 0, 1)
		}
	}

	for i := range in.data {
		d := &in.data[i]
		dur := float32(0)
		if d.Index >= 0 && d.Index < len(snap.Samples) && snap.Samples[d.Index].Animation != nil {
			dur = snap.Samples[d.Index].Animation.Duration()
		}
		d.PreviousTime = prev * dur
		d.Time = in.normalizedTime * dur
	}
}

func (in *Instance) selectNotifies(mode NotifyTriggerMode) []int {
	in.notifies = in.notifies[:0]
	switch mode {
	case NotifyAll:
		for i, d := range in.data {
			if d.Weight > ZeroWeightThreshold {
				in.notifies = append(in.notifies, i)
			}
		}
	case NotifyHighestWeighted:
		best := -1
		for i, d := range in.data {
			if best < 0 || d.Weight > in.data[best].Weight {
				best = i
			}
		}
		if best >= 0 {
			in.notifies = append(in.notifies, best)
		}
	}
	return in.notifies
}

func (in *Instance) timeOf(index int) float32 {
	for _, d := range in.data {
		if d.Index == index {
			return d.Time
		}
	}
	return 0
}

func fill(buf []float32, v float32) []float32 {
	for i := range buf {
		buf[i] = v
	}
	return buf
}
