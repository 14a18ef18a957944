// Package pose combines sampled skeletal poses the way a blend space asks:
// weighted absolute blends, per-bone blends and additive layers.
package pose

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a bone's local transform.
type Transform struct {
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Pose holds one transform per skeleton bone.
type Pose []Transform

// Clone returns a copy of p.
func (p Pose) Clone() Pose {
	return append(Pose(nil), p...)
}

// Bone is one joint of a skeleton. Parent is -1 for a root.
type Bone struct {
	Name   string
	Parent int
}

// Skeleton is a bone hierarchy with its reference pose.
// Parents always precede their children.
type Skeleton struct {
	Name    string
	Bones   []Bone
	RefPose Pose
}

// NewSkeleton validates the hierarchy and fills a missing reference pose with identities.
func NewSkeleton(name string, bones []Bone, ref Pose) (*Skeleton, error) {
	for i, b := range bones {
		if b.Parent >= i || b.Parent < -1 {
			return nil, fmt.Errorf("bone %d (%s): parent %d must precede it", i, b.Name, b.Parent)
		}
	}
	if ref == nil {
		ref = make(Pose, len(bones))
		for i := range ref {
			ref[i] = Identity()
		}
	}
	if len(ref) != len(bones) {
		return nil, fmt.Errorf("reference pose has %d bones, skeleton has %d", len(ref), len(bones))
	}
	return &Skeleton{Name: name, Bones: bones, RefPose: ref}, nil
}

// NumBones returns the bone count.
func (s *Skeleton) NumBones() int { return len(s.Bones) }

// BoneIndex returns the index of the named bone or -1.
func (s *Skeleton) BoneIndex(name string) int {
	for i, b := range s.Bones {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// IsDescendant reports whether bone is ancestor or one of its children.
func (s *Skeleton) IsDescendant(bone, ancestor int) bool {
	for b := bone; b >= 0; b = s.Bones[b].Parent {
		if b == ancestor {
			return true
		}
	}
	return false
}

// PerBoneIndexMap maps every bone to the nearest entry of overrides naming the
// bone itself or one of its ancestors, or -1 when none applies.
func PerBoneIndexMap(s *Skeleton, overrides []string) []int {
	m := make([]int, len(s.Bones))
	for i := range m {
		m[i] = -1
	}
	targets := make([]int, len(overrides))
	for i, name := range overrides {
		targets[i] = s.BoneIndex(name)
	}
	for bone := range s.Bones {
		// Walk up until a listed bone is found.
		for b := bone; b >= 0 && m[bone] < 0; b = s.Bones[b].Parent {
			for i, t := range targets {
				if t == b {
					m[bone] = i
					break
				}
			}
		}
	}
	return m
}
