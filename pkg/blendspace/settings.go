package blendspace

import "fmt"

// NotifyTriggerMode selects which sampled animations fire their notifies.
type NotifyTriggerMode int

const (
	// NotifyAll fires notifies from every contributing animation.
	NotifyAll NotifyTriggerMode = iota
	// NotifyHighestWeighted fires only the highest weighted animation's notifies.
	NotifyHighestWeighted
	// NotifyNone fires no notifies.
	NotifyNone
)

func (m NotifyTriggerMode) String() string {
	switch m {
	case NotifyAll:
		return "all"
	case NotifyHighestWeighted:
		return "highest_weighted"
	case NotifyNone:
		return "none"
	default:
		return fmt.Sprintf("notify(%d)", int(m))
	}
}

// ParseNotifyTriggerMode converts an asset-file name to a NotifyTriggerMode.
func ParseNotifyTriggerMode(s string) (NotifyTriggerMode, error) {
	switch s {
	case "", "all":
		return NotifyAll, nil
	case "highest_weighted":
		return NotifyHighestWeighted, nil
	case "none":
		return NotifyNone, nil
	default:
		return NotifyAll, fmt.Errorf("unknown notify trigger mode %q", s)
	}
}

// PerBoneInterpolation overrides the weight interpolation speed for a bone and its children.
type PerBoneInterpolation struct {
	BoneName           string
	InterpolationSpeed float32 // per second; 0 follows the target immediately
}

// Settings is the authored runtime configuration of a blend space.
type Settings struct {
	// Skeleton names the target skeleton; empty accepts any animation.
	Skeleton string
	// TargetWeightInterpolationSpeed limits how fast sample weights change, per second.
	// 0 disables weight interpolation.
	TargetWeightInterpolationSpeed float32
	NotifyTriggerMode              NotifyTriggerMode
	PerBoneInterpolation           []PerBoneInterpolation
	// RotationBlendInMeshSpace blends per-bone rotations in mesh space.
	RotationBlendInMeshSpace bool
	// InputInterpolation smooths each input axis before sampling.
	InputInterpolation [MaxAxes]InterpolationParam
}

func (s Settings) clone() Settings {
	s.PerBoneInterpolation = append([]PerBoneInterpolation(nil), s.PerBoneInterpolation...)
	return s
}
