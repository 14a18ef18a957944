// Package blendspace maps a blend input onto weighted animation samples
// through a precomputed grid over a 1D or 2D parameter space.
package blendspace

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/blendspace/pkg/math"
)

// NewSample is passed as the original index when validating a sample that is not yet in the space.
const NewSample = -1

// Sample rejection reasons.
var (
	ErrNoAnimation         = errors.New("sample has no animation")
	ErrSkeletonMismatch    = errors.New("animation skeleton is not compatible with the blend space skeleton")
	ErrInvalidAdditiveType = errors.New("animation additive type is not allowed in this blend space")
	ErrAdditiveMismatch    = errors.New("cannot mix animations with different additive types")
	ErrTooClose            = errors.New("sample is too close to an existing sample")
	ErrIndexOutOfRange     = errors.New("sample index out of range")
)

// Snapshot is an immutable view of a blend space handed to runtime queries.
// It is safe to share between goroutines.
type Snapshot struct {
	Generation uint64
	Kind       Kind
	Params     []BlendParameter
	Samples    []BlendSample
	Grid       *Grid
	Settings   Settings
	Mode       CompositionMode
}

// BlendSpace owns the parameters, samples and grid of one blend-space asset.
// Sample edits go to the authoring copy and mark the grid dirty; queries read
// the last published Snapshot, so editing never races evaluation.
type BlendSpace struct {
	kind      Kind
	params    []BlendParameter
	threshold []float32
	settings  Settings
	log       *zap.Logger

	mu         sync.Mutex
	samples    []BlendSample
	dirty      bool
	generation uint64

	snapshot atomic.Pointer[Snapshot]
}

// Option configures a BlendSpace.
type Option func(*BlendSpace)

// WithLogger sets the logger used for authoring events.
func WithLogger(l *zap.Logger) Option {
	return func(b *BlendSpace) {
		if l != nil {
			b.log = l
		}
	}
}

// WithSettings sets the authored runtime settings.
func WithSettings(s Settings) Option {
	return func(b *BlendSpace) {
		b.settings = s.clone()
	}
}

// New creates an empty blend space. params must hold at least kind.Dimensions()
// valid parameters; extra parameters are kept but ignored.
func New(kind Kind, params []BlendParameter, opts ...Option) (*BlendSpace, error) {
	dims := kind.Dimensions()
	if len(params) < dims || len(params) > MaxAxes {
		return nil, fmt.Errorf("%s needs %d blend parameters, got %d", kind, dims, len(params))
	}
	for i := 0; i < dims; i++ {
		if err := params[i].Validate(); err != nil {
			return nil, fmt.Errorf("axis %d: %w", i, err)
		}
	}

	b := &BlendSpace{
		kind:   kind,
		params: append([]BlendParameter(nil), params...),
		log:    zap.NewNop(),
	}
	b.threshold = ComputeThreshold(b.params[:dims])
	for _, opt := range opts {
		opt(b)
	}

	b.mu.Lock()
	b.publishLocked(nil)
	b.mu.Unlock()
	return b, nil
}

// Kind returns the variant.
func (b *BlendSpace) Kind() Kind { return b.kind }

// NumDimensions returns the number of meaningful axes.
func (b *BlendSpace) NumDimensions() int { return b.kind.Dimensions() }

// Params returns the meaningful blend parameters.
func (b *BlendSpace) Params() []BlendParameter {
	return append([]BlendParameter(nil), b.params[:b.kind.Dimensions()]...)
}

// Param returns blend parameter i.
func (b *BlendSpace) Param(i int) BlendParameter { return b.params[i] }

// Threshold returns the per-axis minimum sample separation.
func (b *BlendSpace) Threshold() []float32 {
	return append([]float32(nil), b.threshold...)
}

// Settings returns the authored runtime settings.
func (b *BlendSpace) Settings() Settings { return b.settings.clone() }

// Samples returns a copy of the authoring samples.
func (b *BlendSpace) Samples() []BlendSample {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BlendSample(nil), b.samples...)
}

// NumSamples returns the number of authoring samples.
func (b *BlendSpace) NumSamples() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// GridDirty reports whether samples changed since the grid was last published.
func (b *BlendSpace) GridDirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

// Snapshot returns the currently published runtime view.
func (b *BlendSpace) Snapshot() *Snapshot {
	return b.snapshot.Load()
}

// IsValidAdditive reports whether all authoring samples share one allowed additive type.
func (b *BlendSpace) IsValidAdditive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return IsValidAdditive(b.kind, b.samples)
}

// SnapToBorder snaps sample onto the space boundary when it lies within the threshold.
func (b *BlendSpace) SnapToBorder(sample *BlendSample) {
	SnapToBorder(sample, b.params[:b.kind.Dimensions()], b.threshold)
}

// IsTooCloseToExistingSamplePoint reports whether value is within the threshold
// of any sample other than originalIndex.
func (b *BlendSpace) IsTooCloseToExistingSamplePoint(value math.Vec3, originalIndex int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tooCloseLocked(value, originalIndex)
}

func (b *BlendSpace) tooCloseLocked(value math.Vec3, originalIndex int) bool {
	for i, s := range b.samples {
		if i == originalIndex {
			continue
		}
		if isWithinThreshold(value, s.Value, b.threshold) {
			return true
		}
	}
	return false
}

// ValidateSampleInput reports whether sample may be placed in the space,
// replacing the sample at originalIndex (NewSample for an addition).
// The sample's coordinate is snapped to the border in place.
func (b *BlendSpace) ValidateSampleInput(sample *BlendSample, originalIndex int) bool {
	return b.CheckSampleInput(sample, originalIndex) == nil
}

// CheckSampleInput is ValidateSampleInput returning the rejection reason.
func (b *BlendSpace) CheckSampleInput(sample *BlendSample, originalIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checkLocked(sample, originalIndex)
}

func (b *BlendSpace) checkLocked(sample *BlendSample, originalIndex int) error {
	if sample.Animation == nil {
		return ErrNoAnimation
	}
	if b.settings.Skeleton != "" && !sample.Animation.CompatibleWith(b.settings.Skeleton) {
		return ErrSkeletonMismatch
	}
	if err := checkAdditiveConsistency(b.kind, b.samples, sample.Animation, originalIndex); err != nil {
		return err
	}
	b.SnapToBorder(sample)
	if b.tooCloseLocked(sample.Value, originalIndex) {
		return ErrTooClose
	}
	return nil
}

// AddSample validates and appends sample, returning its index.
func (b *BlendSpace) AddSample(sample BlendSample) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLocked(&sample, NewSample); err != nil {
		b.reject("add", sample, err)
		return NewSample, err
	}
	sample.Valid = true
	b.samples = append(b.samples, sample)
	b.dirty = true

	idx := len(b.samples) - 1
	b.log.Debug("sample added",
		zap.Int("index", idx),
		zap.String("animation", sample.Animation.Name()),
		zap.Float32("x", sample.Value.X),
		zap.Float32("y", sample.Value.Y))
	return idx, nil
}

// EditSampleValue moves sample index to value.
func (b *BlendSpace) EditSampleValue(index int, value math.Vec3) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.samples) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	edited := b.samples[index]
	edited.Value = value
	if err := b.checkLocked(&edited, index); err != nil {
		b.reject("edit", edited, err)
		return err
	}
	b.samples[index] = edited
	b.dirty = true
	return nil
}

// ReplaceSampleAnimation swaps the animation played by sample index.
func (b *BlendSpace) ReplaceSampleAnimation(index int, anim Animation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.samples) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	edited := b.samples[index]
	edited.Animation = anim
	if err := b.checkLocked(&edited, index); err != nil {
		b.reject("replace", edited, err)
		return err
	}
	b.samples[index] = edited
	b.dirty = true
	return nil
}

// DeleteSample removes sample index. Later samples shift down by one.
func (b *BlendSpace) DeleteSample(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.samples) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	b.samples = append(b.samples[:index], b.samples[index+1:]...)
	b.dirty = true
	return nil
}

// DeleteMatchingSample removes the first sample equal to sample.
func (b *BlendSpace) DeleteMatchingSample(sample BlendSample) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.samples {
		if s.Equal(sample) {
			b.samples = append(b.samples[:i], b.samples[i+1:]...)
			b.dirty = true
			return true
		}
	}
	return false
}

// ClearAllSamples removes every sample.
func (b *BlendSpace) ClearAllSamples() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
	b.dirty = true
}

// RebuildGrid triangulates the current samples and publishes a new snapshot.
func (b *BlendSpace) RebuildGrid() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	var grid *Grid
	if b.kind.Dimensions() == 1 {
		grid = BuildGrid1D(b.params[0], b.samples)
	} else {
		grid = BuildGrid2D([2]BlendParameter{b.params[0], b.params[1]}, b.samples)
	}
	snap := b.publishLocked(grid)
	b.log.Debug("grid rebuilt",
		zap.Uint64("generation", snap.Generation),
		zap.Int("samples", len(snap.Samples)),
		zap.Int("elements", len(grid.Elements)))
	return snap
}

// SetGrid publishes a grid computed by an external builder for the current samples.
func (b *BlendSpace) SetGrid(grid *Grid) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	numX := b.params[0].GridNum
	numY := 0
	if b.kind.Dimensions() == 2 {
		numY = b.params[1].GridNum
	}
	if grid == nil || grid.NumX != numX || grid.NumY != numY {
		return fmt.Errorf("grid does not match parameters: want %dx%d", numX, numY)
	}
	if !grid.IsEmpty() && len(grid.Elements) != (numX+1)*(numY+1) {
		return fmt.Errorf("grid has %d elements, want %d", len(grid.Elements), (numX+1)*(numY+1))
	}
	for _, e := range grid.Elements {
		for _, r := range e.Refs {
			if i, ok := r.Index(); ok && i >= len(b.samples) {
				return fmt.Errorf("%w: grid references sample %d", ErrIndexOutOfRange, i)
			}
		}
	}
	b.publishLocked(grid)
	return nil
}

func (b *BlendSpace) publishLocked(grid *Grid) *Snapshot {
	b.generation++
	if grid != nil {
		cp := *grid
		cp.Elements = append([]GridElement(nil), grid.Elements...)
		grid = &cp
	}
	samples := append([]BlendSample(nil), b.samples...)
	snap := &Snapshot{
		Generation: b.generation,
		Kind:       b.kind,
		Params:     b.Params(),
		Samples:    samples,
		Grid:       grid,
		Settings:   b.settings.clone(),
		Mode:       CompositionFor(b.kind, samples),
	}
	b.snapshot.Store(snap)
	b.dirty = false
	return snap
}

func (b *BlendSpace) reject(op string, sample BlendSample, err error) {
	name := ""
	if sample.Animation != nil {
		name = sample.Animation.Name()
	}
	b.log.Debug("sample rejected",
		zap.String("op", op),
		zap.String("animation", name),
		zap.Float32("x", sample.Value.X),
		zap.Float32("y", sample.Value.Y),
		zap.Error(err))
}

// GetSamplesFromBlendInput returns the weighted samples for input using the
// published snapshot. See Snapshot.GetSamplesFromBlendInput.
func (b *BlendSpace) GetSamplesFromBlendInput(input math.Vec3, out []SampleWeight) ([]SampleWeight, bool) {
	return b.Snapshot().GetSamplesFromBlendInput(input, out)
}

// GetSamplesFromBlendInput clamps input to the parameter range, samples the
// grid and returns the normalized sample weights, reusing out's storage.
// It returns false, with an empty list, when nothing can be blended.
func (s *Snapshot) GetSamplesFromBlendInput(input math.Vec3, out []SampleWeight) ([]SampleWeight, bool) {
	if s == nil || s.Grid.IsEmpty() {
		return out[:0], false
	}
	var buf [4]GridBlendSample
	raw := rawGridSamples(s.Kind, s.Grid, s.Params, ClampInput(s.Params, input), buf[:0])
	return AggregateGridSamples(raw, s.Samples, out)
}

// AnimLength returns the weighted play length of the given samples.
func (s *Snapshot) AnimLength(weights []SampleWeight) float32 {
	var length float32
	for _, sw := range weights {
		if sw.Index < 0 || sw.Index >= len(s.Samples) {
			continue
		}
		if anim := s.Samples[sw.Index].Animation; anim != nil {
			length += anim.Duration() * sw.Weight
		}
	}
	return length
}
