package asset

import (
	"github.com/Faultbox/blendspace/pkg/blendspace"
)

// skeletonOf is implemented by animations that know their skeleton, such as Clip.
type skeletonOf interface {
	Skeleton() string
}

// FromSpace captures a blend space as a document. The published grid is
// written only when it matches the current samples.
func FromSpace(space *blendspace.BlendSpace) *Document {
	settings := space.Settings()
	speed := settings.TargetWeightInterpolationSpeed

	d := &Document{
		Kind:                           space.Kind().String(),
		Skeleton:                       settings.Skeleton,
		TargetWeightInterpolationSpeed: &speed,
		NotifyTriggerMode:              settings.NotifyTriggerMode.String(),
		RotationBlendInMeshSpace:       settings.RotationBlendInMeshSpace,
	}
	for _, p := range space.Params() {
		d.Parameters = append(d.Parameters, ParameterDoc{
			Name:    p.DisplayName,
			Min:     p.Min,
			Max:     p.Max,
			GridNum: p.GridNum,
		})
	}

	dims := space.NumDimensions()
	seen := make(map[string]bool)
	for _, s := range space.Samples() {
		anim := s.Animation
		if !seen[anim.Name()] {
			seen[anim.Name()] = true
			ad := AnimationDoc{Name: anim.Name(), Duration: anim.Duration()}
			if t := anim.AdditiveType(); t != blendspace.AdditiveNone {
				ad.Additive = t.String()
			}
			if sk, ok := anim.(skeletonOf); ok {
				ad.Skeleton = sk.Skeleton()
			}
			d.Animations = append(d.Animations, ad)
		}
		value := make([]float32, dims)
		for i := range value {
			value[i] = s.Value.Axis(i)
		}
		d.Samples = append(d.Samples, SampleDoc{Animation: anim.Name(), Value: value})
	}

	for _, pb := range settings.PerBoneInterpolation {
		d.PerBoneInterpolation = append(d.PerBoneInterpolation, PerBoneDoc{
			Bone:  pb.BoneName,
			Speed: pb.InterpolationSpeed,
		})
	}
	last := -1
	for i, ip := range settings.InputInterpolation {
		if ip.Time > 0 {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		ip := settings.InputInterpolation[i]
		d.InputInterpolation = append(d.InputInterpolation, InterpolationDoc{Time: ip.Time, Type: ip.Type.String()})
	}

	if snap := space.Snapshot(); !space.GridDirty() && !snap.Grid.IsEmpty() {
		d.Grid = gridDoc(snap.Grid)
	}
	return d
}

func gridDoc(g *blendspace.Grid) *GridDoc {
	gd := &GridDoc{NumX: g.NumX, NumY: g.NumY, Elements: make([]ElementDoc, len(g.Elements))}
	for i, e := range g.Elements {
		var ed ElementDoc
		for j, r := range e.Refs {
			if idx, ok := r.Index(); ok {
				ed.Samples = append(ed.Samples, idx)
				ed.Weights = append(ed.Weights, e.Weights[j])
			}
		}
		gd.Elements[i] = ed
	}
	return gd
}
