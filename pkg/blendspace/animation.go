package blendspace

import "reflect"

// AdditiveType is the additive mode reported by an animation.
type AdditiveType int

const (
	// AdditiveNone marks an absolute (non-additive) animation.
	AdditiveNone AdditiveType = iota
	// AdditiveLocalSpace is a local-space delta against a base pose.
	AdditiveLocalSpace
	// AdditiveMeshSpaceRotation is a mesh-space rotation offset, used by aim offsets.
	AdditiveMeshSpaceRotation
)

// String returns the asset-file name of the additive type.
func (t AdditiveType) String() string {
	switch t {
	case AdditiveNone:
		return "none"
	case AdditiveLocalSpace:
		return "local_space"
	case AdditiveMeshSpaceRotation:
		return "mesh_space_rotation"
	default:
		return "unknown"
	}
}

// ParseAdditiveType converts an asset-file name back to an AdditiveType.
func ParseAdditiveType(s string) (AdditiveType, bool) {
	switch s {
	case "", "none":
		return AdditiveNone, true
	case "local_space":
		return AdditiveLocalSpace, true
	case "mesh_space_rotation":
		return AdditiveMeshSpaceRotation, true
	default:
		return AdditiveNone, false
	}
}

// Animation is the read-only view of an externally owned animation asset.
// The blend space never creates, modifies or frees animations.
//
// Two samples play the same animation when their values are equal. Pointer
// implementations compare by identity; non-comparable value types fall back
// to comparing Name.
type Animation interface {
	// Name identifies the animation in logs and asset files.
	Name() string
	// IsAdditive reports whether the animation stores a delta pose.
	IsAdditive() bool
	// AdditiveType returns the additive mode, AdditiveNone for absolute animations.
	AdditiveType() AdditiveType
	// Duration returns the play length in seconds.
	Duration() float32
	// CompatibleWith reports whether the animation can play on the named skeleton.
	CompatibleWith(skeleton string) bool
}

// sameAnimation reports whether a and b refer to the same animation without
// panicking on non-comparable implementations.
func sameAnimation(a, b Animation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return a.Name() == b.Name()
	}
	return a == b
}
