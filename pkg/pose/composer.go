package pose

import (
	"github.com/Faultbox/blendspace/pkg/blendspace"
)

// Source evaluates animations into poses. It stands for the animation runtime
// that owns the actual animation data.
type Source interface {
	// SamplePose evaluates anim at time seconds on skel. Returning false makes
	// the composer fall back to the reference pose.
	SamplePose(anim blendspace.Animation, time float32, skel *Skeleton) (Pose, bool)
}

// Composer turns a blend-space tick result into a final pose. It keeps
// scratch buffers, so each evaluating instance needs its own Composer.
type Composer struct {
	skel    *Skeleton
	boneMap []int
	perBone bool

	poses   []Pose
	weights []float32
	channel [][]float32
}

// NewComposer prepares composition for skel under the blend space's settings.
func NewComposer(skel *Skeleton, settings blendspace.Settings) *Composer {
	names := make([]string, len(settings.PerBoneInterpolation))
	for i, pb := range settings.PerBoneInterpolation {
		names[i] = pb.BoneName
	}
	return &Composer{
		skel:    skel,
		boneMap: PerBoneIndexMap(skel, names),
		perBone: len(names) > 0,
	}
}

// Compose evaluates every sample of res through src and combines the poses.
// Additive spaces blend the deltas and layer them onto base (the reference
// pose when base is nil); absolute spaces return the blended pose itself.
// An empty result yields base.
func (c *Composer) Compose(snap *blendspace.Snapshot, res blendspace.TickResult, src Source, base Pose) Pose {
	if base == nil {
		base = c.skel.RefPose
	}
	out := base.Clone()
	if !res.HasSamples() {
		return out
	}

	c.gather(snap, res, src)

	var blended Pose
	switch {
	case c.perBone && res.Mode == blendspace.ComposeAbsolute && snap.Settings.RotationBlendInMeshSpace:
		blended = BlendPosesPerBoneMeshSpace(c.skel, c.poses, c.weights, c.channel, c.boneMap, nil)
	case c.perBone:
		blended = BlendPosesPerBone(c.poses, c.weights, c.channel, c.boneMap, nil)
	default:
		blended = BlendPoses(c.poses, c.weights, nil)
	}

	switch res.Mode {
	case blendspace.ComposeLocalAdditive:
		ApplyAdditive(out, blended, 1)
		return out
	case blendspace.ComposeMeshSpaceAdditive:
		ApplyMeshSpaceRotationAdditive(c.skel, out, blended, 1)
		return out
	default:
		return blended
	}
}

func (c *Composer) gather(snap *blendspace.Snapshot, res blendspace.TickResult, src Source) {
	c.poses = c.poses[:0]
	c.weights = c.weights[:0]
	c.channel = c.channel[:0]

	additive := res.Mode != blendspace.ComposeAbsolute
	for _, sd := range res.Samples {
		var p Pose
		ok := false
		if sd.Index >= 0 && sd.Index < len(snap.Samples) && src != nil {
			if anim := snap.Samples[sd.Index].Animation; anim != nil {
				p, ok = src.SamplePose(anim, sd.Time, c.skel)
			}
			if ok {
				// Mesh-space blending rewrites poses in place.
				p = p.Clone()
			}
		}
		if !ok || len(p) != c.skel.NumBones() {
			if additive {
				p = zeroAdditive(c.skel.NumBones())
			} else {
				p = c.skel.RefPose.Clone()
			}
		}
		c.poses = append(c.poses, p)
		c.weights = append(c.weights, sd.Weight)
		c.channel = append(c.channel, sd.PerBoneWeights)
	}
}
