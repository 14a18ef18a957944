package asset

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/blendspace/pkg/blendspace"
	"github.com/Faultbox/blendspace/pkg/math"
)

// Asset is a built blend space together with the clips it references.
type Asset struct {
	Space    *blendspace.BlendSpace
	Clips    map[string]*Clip
	Rejected []Rejection
	// GridRebuilt is set when the stored grid was missing or unusable.
	GridRebuilt bool
}

// Rejection records a document sample the blend space refused.
type Rejection struct {
	Index     int
	Animation string
	Err       error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("sample %d (%s): %v", r.Index, r.Animation, r.Err)
}

// BuildOption adjusts how a document is built.
type BuildOption func(*buildOptions)

type buildOptions struct {
	defaultWeightSpeed float32
	rebuild            bool
}

// WithDefaultWeightSpeed sets the weight interpolation speed used when the
// document does not author one.
func WithDefaultWeightSpeed(speed float32) BuildOption {
	return func(o *buildOptions) { o.defaultWeightSpeed = speed }
}

// WithRebuild ignores any stored grid and triangulates the samples again.
func WithRebuild() BuildOption {
	return func(o *buildOptions) { o.rebuild = true }
}

// Build creates a blend space from the document. Structural problems
// (unknown kind, bad parameters, bad animation declarations) are errors;
// samples the blend space refuses are collected in Asset.Rejected.
func (d *Document) Build(log *zap.Logger, opts ...BuildOption) (*Asset, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	kind, err := blendspace.ParseKind(d.Kind)
	if err != nil {
		return nil, err
	}
	params := make([]blendspace.BlendParameter, len(d.Parameters))
	for i, p := range d.Parameters {
		params[i] = blendspace.BlendParameter{
			DisplayName: p.Name,
			Min:         p.Min,
			Max:         p.Max,
			GridNum:     p.GridNum,
		}
	}
	clips, err := d.clips()
	if err != nil {
		return nil, err
	}
	settings, err := d.settings(o)
	if err != nil {
		return nil, err
	}

	space, err := blendspace.New(kind, params,
		blendspace.WithLogger(log),
		blendspace.WithSettings(settings))
	if err != nil {
		return nil, err
	}

	a := &Asset{Space: space, Clips: clips}
	for i, s := range d.Samples {
		clip, ok := clips[s.Animation]
		if !ok {
			a.reject(log, i, s.Animation, ErrUnknownAnimation)
			continue
		}
		if _, err := space.AddSample(blendspace.NewBlendSample(clip, sampleValue(s.Value))); err != nil {
			a.reject(log, i, s.Animation, err)
		}
	}

	switch {
	case d.Grid == nil || o.rebuild:
		a.rebuild()
	case len(a.Rejected) > 0:
		// Stored indices no longer line up with the accepted samples.
		log.Warn("stored grid discarded after sample rejections", zap.Int("rejected", len(a.Rejected)))
		a.rebuild()
	default:
		grid, err := d.Grid.grid(space)
		if err == nil {
			err = space.SetGrid(grid)
		}
		if err != nil {
			log.Warn("stored grid unusable, rebuilding", zap.Error(err))
			a.rebuild()
		}
	}

	log.Info("blend space loaded",
		zap.Stringer("kind", kind),
		zap.Int("samples", space.NumSamples()),
		zap.Int("rejected", len(a.Rejected)),
		zap.Bool("grid_rebuilt", a.GridRebuilt))
	return a, nil
}

func (a *Asset) reject(log *zap.Logger, index int, anim string, err error) {
	a.Rejected = append(a.Rejected, Rejection{Index: index, Animation: anim, Err: err})
	log.Warn("sample rejected",
		zap.Int("index", index),
		zap.String("animation", anim),
		zap.Error(err))
}

func (a *Asset) rebuild() {
	a.Space.RebuildGrid()
	a.GridRebuilt = true
}

func (d *Document) clips() (map[string]*Clip, error) {
	clips := make(map[string]*Clip, len(d.Animations))
	for _, an := range d.Animations {
		if an.Name == "" {
			return nil, fmt.Errorf("animation without a name")
		}
		if _, dup := clips[an.Name]; dup {
			return nil, fmt.Errorf("animation %q declared twice", an.Name)
		}
		if an.Duration < 0 {
			return nil, fmt.Errorf("animation %q has negative duration", an.Name)
		}
		additive, ok := blendspace.ParseAdditiveType(an.Additive)
		if !ok {
			return nil, fmt.Errorf("animation %q: unknown additive type %q", an.Name, an.Additive)
		}
		clips[an.Name] = NewClip(an.Name, an.Duration, additive, an.Skeleton)
	}
	return clips, nil
}

func (d *Document) settings(o buildOptions) (blendspace.Settings, error) {
	s := blendspace.Settings{
		Skeleton:                       d.Skeleton,
		TargetWeightInterpolationSpeed: o.defaultWeightSpeed,
		RotationBlendInMeshSpace:       d.RotationBlendInMeshSpace,
	}
	if d.TargetWeightInterpolationSpeed != nil {
		s.TargetWeightInterpolationSpeed = *d.TargetWeightInterpolationSpeed
	}
	if s.TargetWeightInterpolationSpeed < 0 {
		return s, fmt.Errorf("target_weight_interpolation_speed must not be negative")
	}

	mode, err := blendspace.ParseNotifyTriggerMode(d.NotifyTriggerMode)
	if err != nil {
		return s, err
	}
	s.NotifyTriggerMode = mode

	for _, pb := range d.PerBoneInterpolation {
		if pb.Bone == "" {
			return s, fmt.Errorf("per_bone_interpolation entry without a bone")
		}
		s.PerBoneInterpolation = append(s.PerBoneInterpolation, blendspace.PerBoneInterpolation{
			BoneName:           pb.Bone,
			InterpolationSpeed: pb.Speed,
		})
	}

	if len(d.InputInterpolation) > blendspace.MaxAxes {
		return s, fmt.Errorf("input_interpolation has %d axes, at most %d allowed",
			len(d.InputInterpolation), blendspace.MaxAxes)
	}
	for i, ip := range d.InputInterpolation {
		t, ok := blendspace.ParseInterpolationType(ip.Type)
		if !ok {
			return s, fmt.Errorf("input_interpolation[%d]: unknown type %q", i, ip.Type)
		}
		s.InputInterpolation[i] = blendspace.InterpolationParam{Time: ip.Time, Type: t}
	}
	return s, nil
}

func sampleValue(v []float32) math.Vec3 {
	var out math.Vec3
	for i := 0; i < len(v) && i < blendspace.MaxAxes; i++ {
		out = out.WithAxis(i, v[i])
	}
	return out
}

// grid converts the stored lattice, refusing dimensions that do not match space
// before anything is allocated.
func (g *GridDoc) grid(space *blendspace.BlendSpace) (*blendspace.Grid, error) {
	numX, numY := space.Param(0).GridNum, 0
	if space.NumDimensions() == 2 {
		numY = space.Param(1).GridNum
	}
	if g.NumX != numX || g.NumY != numY {
		return nil, fmt.Errorf("grid is %dx%d, parameters want %dx%d", g.NumX, g.NumY, numX, numY)
	}
	grid := blendspace.NewGrid(g.NumX, g.NumY)
	if len(g.Elements) == 0 {
		grid.Elements = nil
		return grid, nil
	}
	if len(g.Elements) != len(grid.Elements) {
		return nil, fmt.Errorf("grid has %d elements, want %d", len(g.Elements), len(grid.Elements))
	}
	for i, e := range g.Elements {
		if len(e.Samples) > blendspace.MaxVertices || len(e.Samples) != len(e.Weights) {
			return nil, fmt.Errorf("grid element %d: %d samples with %d weights", i, len(e.Samples), len(e.Weights))
		}
		var el blendspace.GridElement
		for j, idx := range e.Samples {
			if idx < 0 {
				return nil, fmt.Errorf("grid element %d: negative sample index %d", i, idx)
			}
			el.Refs[j] = blendspace.RefTo(idx)
			el.Weights[j] = e.Weights[j]
		}
		grid.Elements[i] = el
	}
	return grid, nil
}
