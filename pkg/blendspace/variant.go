package blendspace

import "fmt"

// Kind selects the blend-space variant: axis count and additive policy.
type Kind int

const (
	// KindBlendSpace is a 2D space accepting absolute or uniformly additive samples.
	KindBlendSpace Kind = iota
	// KindBlendSpace1D is the single-axis form of KindBlendSpace.
	KindBlendSpace1D
	// KindAimOffset is a 2D space restricted to mesh-space rotation additives.
	KindAimOffset
	// KindAimOffset1D is the single-axis form of KindAimOffset.
	KindAimOffset1D
)

// Kinds lists every variant.
var Kinds = []Kind{KindBlendSpace, KindBlendSpace1D, KindAimOffset, KindAimOffset1D}

// Dimensions returns the number of meaningful blend parameters.
func (k Kind) Dimensions() int {
	switch k {
	case KindBlendSpace1D, KindAimOffset1D:
		return 1
	default:
		return 2
	}
}

// IsAimOffset reports whether the variant only accepts aim-offset additives.
func (k Kind) IsAimOffset() bool {
	return k == KindAimOffset || k == KindAimOffset1D
}

// AllowsAdditiveType reports whether samples of type t may be placed in the space.
func (k Kind) AllowsAdditiveType(t AdditiveType) bool {
	if k.IsAimOffset() {
		return t == AdditiveMeshSpaceRotation
	}
	return t == AdditiveNone || t == AdditiveLocalSpace || t == AdditiveMeshSpaceRotation
}

// additiveTypes returns the additive types a fully additive space may consist of.
func (k Kind) additiveTypes() []AdditiveType {
	if k.IsAimOffset() {
		return []AdditiveType{AdditiveMeshSpaceRotation}
	}
	return []AdditiveType{AdditiveLocalSpace, AdditiveMeshSpaceRotation}
}

func (k Kind) String() string {
	switch k {
	case KindBlendSpace:
		return "blendspace"
	case KindBlendSpace1D:
		return "blendspace1d"
	case KindAimOffset:
		return "aimoffset"
	case KindAimOffset1D:
		return "aimoffset1d"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts an asset-file name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return KindBlendSpace, fmt.Errorf("unknown blend space kind %q", s)
}
