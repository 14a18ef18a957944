package blendspace

import "github.com/Faultbox/blendspace/pkg/math"

// BlendSample places an animation at a coordinate in the blend space.
type BlendSample struct {
	Animation Animation
	Value     math.Vec3
	Valid     bool
}

// NewBlendSample returns a valid sample for anim at value.
func NewBlendSample(anim Animation, value math.Vec3) BlendSample {
	return BlendSample{Animation: anim, Value: value, Valid: true}
}

// Equal reports whether both samples reference the same animation at nearly the same coordinate.
func (s BlendSample) Equal(other BlendSample) bool {
	return sameAnimation(s.Animation, other.Animation) && s.Value.NearlyEqual(other.Value, math.KindaSmallNumber)
}
