package pose

import "github.com/go-gl/mathgl/mgl32"

// MakeAdditive returns the local-space delta that turns base into target.
// Additive scale is stored as an offset from 1.
func MakeAdditive(target, base Pose) Pose {
	out := make(Pose, len(target))
	for b := range target {
		t, r := target[b], base[b]
		out[b] = Transform{
			Rotation:    t.Rotation.Mul(r.Rotation.Inverse()).Normalize(),
			Translation: t.Translation.Sub(r.Translation),
			Scale: mgl32.Vec3{
				safeDiv(t.Scale[0], r.Scale[0]) - 1,
				safeDiv(t.Scale[1], r.Scale[1]) - 1,
				safeDiv(t.Scale[2], r.Scale[2]) - 1,
			},
		}
	}
	return out
}

// ApplyAdditive layers a local-space delta onto base in place, scaled by weight.
func ApplyAdditive(base, delta Pose, weight float32) {
	if weight <= 0 {
		return
	}
	for b := range base {
		if b >= len(delta) {
			return
		}
		d := delta[b]
		rot := d.Rotation
		if weight < 1 {
			rot = mgl32.QuatSlerp(mgl32.QuatIdent(), rot, weight)
		}
		base[b].Rotation = rot.Mul(base[b].Rotation).Normalize()
		base[b].Translation = base[b].Translation.Add(d.Translation.Mul(weight))
		for k := 0; k < 3; k++ {
			base[b].Scale[k] *= 1 + d.Scale[k]*weight
		}
	}
}

// ApplyMeshSpaceRotationAdditive layers mesh-space rotation offsets onto base in place.
func ApplyMeshSpaceRotationAdditive(s *Skeleton, base, delta Pose, weight float32) {
	if weight <= 0 {
		return
	}
	ToMeshSpaceRotations(s, base)
	for b := range base {
		if b >= len(delta) {
			break
		}
		rot := delta[b].Rotation
		if weight < 1 {
			rot = mgl32.QuatSlerp(mgl32.QuatIdent(), rot, weight)
		}
		base[b].Rotation = rot.Mul(base[b].Rotation).Normalize()
		base[b].Translation = base[b].Translation.Add(delta[b].Translation.Mul(weight))
	}
	ToLocalRotations(s, base)
}

// zeroAdditive is the identity delta.
func zeroAdditive(n int) Pose {
	p := make(Pose, n)
	for i := range p {
		p[i] = Transform{Rotation: mgl32.QuatIdent()}
	}
	return p
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 1
	}
	return a / b
}
