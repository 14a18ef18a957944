package pose

import "github.com/go-gl/mathgl/mgl32"

// accumulate adds src scaled by w into dst, flipping the rotation onto dst's hemisphere.
func accumulate(dst *Transform, src Transform, w float32) {
	rot := src.Rotation
	if dst.Rotation.Dot(rot) < 0 {
		rot = rot.Scale(-1)
	}
	dst.Rotation = dst.Rotation.Add(rot.Scale(w))
	dst.Translation = dst.Translation.Add(src.Translation.Mul(w))
	dst.Scale = dst.Scale.Add(src.Scale.Mul(w))
}

func overwrite(src Transform, w float32) Transform {
	return Transform{
		Rotation:    src.Rotation.Scale(w),
		Translation: src.Translation.Mul(w),
		Scale:       src.Scale.Mul(w),
	}
}

// NormalizeRotations normalizes every rotation of p in place.
func NormalizeRotations(p Pose) {
	for i := range p {
		if p[i].Rotation.Len() < 1e-6 {
			p[i].Rotation = mgl32.QuatIdent()
			continue
		}
		p[i].Rotation = p[i].Rotation.Normalize()
	}
}

// BlendPoses returns the weighted sum of poses. Weights are expected to sum to 1.
// Rotations are summed and renormalized rather than slerped, which allows n-way blends.
func BlendPoses(poses []Pose, weights []float32, out Pose) Pose {
	if len(poses) == 0 {
		return out[:0]
	}
	n := len(poses[0])
	out = resize(out, n)
	for b := 0; b < n; b++ {
		out[b] = overwrite(poses[0][b], weights[0])
	}
	for i := 1; i < len(poses); i++ {
		for b := 0; b < n; b++ {
			accumulate(&out[b], poses[i][b], weights[i])
		}
	}
	NormalizeRotations(out)
	return out
}

// BlendPosesPerBone blends like BlendPoses, except bones mapped to a per-bone
// channel by boneMap use perBone[pose][channel] instead of weights[pose].
func BlendPosesPerBone(poses []Pose, weights []float32, perBone [][]float32, boneMap []int, out Pose) Pose {
	if len(poses) == 0 {
		return out[:0]
	}
	n := len(poses[0])
	out = resize(out, n)
	weight := func(pose, bone int) float32 {
		if bone < len(boneMap) {
			if ch := boneMap[bone]; ch >= 0 && pose < len(perBone) && ch < len(perBone[pose]) {
				return clamp01(perBone[pose][ch])
			}
		}
		return weights[pose]
	}
	for b := 0; b < n; b++ {
		out[b] = overwrite(poses[0][b], weight(0, b))
	}
	for i := 1; i < len(poses); i++ {
		for b := 0; b < n; b++ {
			accumulate(&out[b], poses[i][b], weight(i, b))
		}
	}
	NormalizeRotations(out)
	return out
}

// ToMeshSpaceRotations replaces each local rotation with its mesh-space rotation.
func ToMeshSpaceRotations(s *Skeleton, p Pose) {
	for b, bone := range s.Bones {
		if bone.Parent >= 0 {
			p[b].Rotation = p[bone.Parent].Rotation.Mul(p[b].Rotation).Normalize()
		}
	}
}

// ToLocalRotations is the inverse of ToMeshSpaceRotations.
func ToLocalRotations(s *Skeleton, p Pose) {
	for b := len(s.Bones) - 1; b >= 0; b-- {
		if parent := s.Bones[b].Parent; parent >= 0 {
			p[b].Rotation = p[parent].Rotation.Inverse().Mul(p[b].Rotation).Normalize()
		}
	}
}

// BlendPosesPerBoneMeshSpace blends per bone with rotations taken in mesh space.
// The source poses are converted in place.
func BlendPosesPerBoneMeshSpace(s *Skeleton, poses []Pose, weights []float32, perBone [][]float32, boneMap []int, out Pose) Pose {
	for _, p := range poses {
		ToMeshSpaceRotations(s, p)
	}
	out = BlendPosesPerBone(poses, weights, perBone, boneMap, out)
	ToLocalRotations(s, out)
	return out
}

func resize(p Pose, n int) Pose {
	if cap(p) < n {
		return make(Pose, n)
	}
	return p[:n]
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
