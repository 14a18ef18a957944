package blendspace

// CompositionMode tells the pose stage how sampled poses are combined.
type CompositionMode int

const (
	// ComposeAbsolute blends full poses by weighted average.
	ComposeAbsolute CompositionMode = iota
	// ComposeLocalAdditive blends local-space deltas and applies them to a base pose.
	ComposeLocalAdditive
	// ComposeMeshSpaceAdditive blends mesh-space rotation offsets onto a base pose.
	ComposeMeshSpaceAdditive
)

func (m CompositionMode) String() string {
	switch m {
	case ComposeLocalAdditive:
		return "local-additive"
	case ComposeMeshSpaceAdditive:
		return "mesh-space-additive"
	default:
		return "absolute"
	}
}

// additiveTypeOf returns the effective additive type of anim.
func additiveTypeOf(anim Animation) AdditiveType {
	if anim == nil || !anim.IsAdditive() {
		return AdditiveNone
	}
	return anim.AdditiveType()
}

// containsMatchingSamples reports whether there is at least one sample and
// every sample has an animation of additive type t.
func containsMatchingSamples(samples []BlendSample, t AdditiveType) bool {
	if len(samples) == 0 {
		return false
	}
	for _, s := range samples {
		if s.Animation == nil || additiveTypeOf(s.Animation) != t {
			return false
		}
	}
	return true
}

// IsValidAdditive reports whether every sample of a space of the given kind
// plays an additive animation of one shared, allowed additive type.
func IsValidAdditive(kind Kind, samples []BlendSample) bool {
	_, ok := validAdditiveType(kind, samples)
	return ok
}

func validAdditiveType(kind Kind, samples []BlendSample) (AdditiveType, bool) {
	for _, t := range kind.additiveTypes() {
		if containsMatchingSamples(samples, t) {
			return t, true
		}
	}
	return AdditiveNone, false
}

// CompositionFor picks how the poses of a space's samples must be combined.
func CompositionFor(kind Kind, samples []BlendSample) CompositionMode {
	t, ok := validAdditiveType(kind, samples)
	if !ok {
		return ComposeAbsolute
	}
	if t == AdditiveMeshSpaceRotation {
		return ComposeMeshSpaceAdditive
	}
	return ComposeLocalAdditive
}

// checkAdditiveConsistency verifies anim agrees with the additive type of every
// existing sample other than skip.
func checkAdditiveConsistency(kind Kind, samples []BlendSample, anim Animation, skip int) error {
	t := additiveTypeOf(anim)
	if !kind.AllowsAdditiveType(t) {
		return ErrInvalidAdditiveType
	}
	for i, s := range samples {
		if i == skip || s.Animation == nil {
			continue
		}
		if additiveTypeOf(s.Animation) != t {
			return ErrAdditiveMismatch
		}
	}
	return nil
}
