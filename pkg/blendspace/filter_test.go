package blendspace

import (
	"testing"

	"github.com/Faultbox/blendspace/pkg/math"
)

func axisParams(p InterpolationParam) [MaxAxes]InterpolationParam {
	var out [MaxAxes]InterpolationParam
	out[0] = p
	return out
}

func TestInputFilterInactive(t *testing.T) {
	f := NewInputFilter([MaxAxes]InterpolationParam{})
	if f.IsActive() {
		t.Error("filter without smoothing time should be inactive")
	}
	in := math.Vec3{X: 3, Y: -4, Z: 5}
	if got := f.Filter(in, 0.1); got != in {
		t.Errorf("expected passthrough, got %+v", got)
	}
}

func TestInputFilterAveraged(t *testing.T) {
	f := NewInputFilter(axisParams(InterpolationParam{Time: 1, Type: InterpolationAveraged}))
	if !f.IsActive() {
		t.Fatal("expected active filter")
	}
	for i := 0; i < 4; i++ {
		f.Filter(math.Vec3{}, 0.25)
	}
	got := f.Filter(math.Vec3{X: 4}, 0.25)
	if !approxEqual(got.X, 0.8) {
		t.Errorf("expected the window average 0.8, got %v", got.X)
	}

	// Old entries leave the window.
	for i := 0; i < 8; i++ {
		got = f.Filter(math.Vec3{X: 4}, 0.25)
	}
	if !approxEqual(got.X, 4) {
		t.Errorf("expected 4 once the window is full of new input, got %v", got.X)
	}
}

func TestInputFilterStepResponse(t *testing.T) {
	types := []InterpolationType{
		InterpolationAveraged,
		InterpolationLinear,
		InterpolationCubic,
		InterpolationExponential,
		InterpolationSpring,
	}
	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			f := NewInputFilter(axisParams(InterpolationParam{Time: 0.2, Type: typ}))
			f.Filter(math.Vec3{}, 1.0/60)

			first := f.Filter(math.Vec3{X: 10}, 1.0/60)
			if first.X <= 0 || first.X >= 10 {
				t.Errorf("first step should move part way, got %v", first.X)
			}

			var got math.Vec3
			for i := 0; i < 120; i++ {
				got = f.Filter(math.Vec3{X: 10}, 1.0/60)
			}
			if !math.NearlyEqual(got.X, 10, 0.01) {
				t.Errorf("expected to settle at 10, got %v", got.X)
			}
			if got.Y != 0 || got.Z != 0 {
				t.Errorf("unsmoothed axes should pass through, got %+v", got)
			}
		})
	}
}

func TestInputFilterExponential(t *testing.T) {
	f := NewInputFilter(axisParams(InterpolationParam{Time: 0.5, Type: InterpolationExponential}))
	if got := f.Filter(math.Vec3{X: 0}, 0.5); got.X != 0 {
		t.Errorf("first input should prime the filter, got %v", got.X)
	}
	got := f.Filter(math.Vec3{X: 10}, 0.5)
	want := 10 * (1 - math.Exp(-1))
	if !math.NearlyEqual(got.X, want, 1e-4) {
		t.Errorf("expected %v after one time constant, got %v", want, got.X)
	}
}

func TestInputFilterReset(t *testing.T) {
	f := NewInputFilter(axisParams(InterpolationParam{Time: 1, Type: InterpolationLinear}))
	f.Filter(math.Vec3{X: 100}, 0.1)
	f.Filter(math.Vec3{X: 100}, 0.1)
	f.Reset()
	if got := f.Filter(math.Vec3{X: 0}, 0.1); got.X != 0 {
		t.Errorf("expected no history after reset, got %v", got.X)
	}
}

func TestParseInterpolationType(t *testing.T) {
	for _, typ := range []InterpolationType{
		InterpolationAveraged, InterpolationLinear, InterpolationCubic,
		InterpolationExponential, InterpolationSpring,
	} {
		got, ok := ParseInterpolationType(typ.String())
		if !ok || got != typ {
			t.Errorf("%s: parsed as %v (ok=%v)", typ, got, ok)
		}
	}
	if _, ok := ParseInterpolationType("bouncy"); ok {
		t.Error("expected unknown type to fail")
	}
}
