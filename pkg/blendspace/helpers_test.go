package blendspace

import (
	"testing"

	"github.com/Faultbox/blendspace/pkg/math"
)

type testAnim struct {
	name     string
	duration float32
	additive AdditiveType
	skeleton string
}

func (a *testAnim) Name() string               { return a.name }
func (a *testAnim) IsAdditive() bool           { return a.additive != AdditiveNone }
func (a *testAnim) AdditiveType() AdditiveType { return a.additive }
func (a *testAnim) Duration() float32          { return a.duration }
func (a *testAnim) CompatibleWith(skeleton string) bool {
	return a.skeleton == "" || a.skeleton == skeleton
}

func anim(name string) *testAnim {
	return &testAnim{name: name, duration: 1}
}

func additiveAnim(name string, t AdditiveType) *testAnim {
	return &testAnim{name: name, duration: 1, additive: t}
}

const epsilon = 1e-5

func approxEqual(a, b float32) bool {
	return math.NearlyEqual(a, b, epsilon)
}

func params2D(gridNum int) []BlendParameter {
	return []BlendParameter{
		{DisplayName: "x", Min: 0, Max: 100, GridNum: gridNum},
		{DisplayName: "y", Min: 0, Max: 100, GridNum: gridNum},
	}
}

// cornerSpace is a 2D space with one distinct animation at each corner of [0,100]².
func cornerSpace(t *testing.T, gridNum int) *BlendSpace {
	t.Helper()
	b, err := New(KindBlendSpace, params2D(gridNum))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	corners := []struct {
		name string
		v    math.Vec3
	}{
		{"bl", math.Vec3{X: 0, Y: 0}},
		{"br", math.Vec3{X: 100, Y: 0}},
		{"tl", math.Vec3{X: 0, Y: 100}},
		{"tr", math.Vec3{X: 100, Y: 100}},
	}
	for _, c := range corners {
		if _, err := b.AddSample(NewBlendSample(anim(c.name), c.v)); err != nil {
			t.Fatalf("AddSample(%s) failed: %v", c.name, err)
		}
	}
	b.RebuildGrid()
	return b
}

func weightOf(list []SampleWeight, index int) float32 {
	for _, sw := range list {
		if sw.Index == index {
			return sw.Weight
		}
	}
	return 0
}

func sumWeights(list []SampleWeight) float32 {
	var s float32
	for _, sw := range list {
		s += sw.Weight
	}
	return s
}

func hasDuplicates(list []SampleWeight) bool {
	seen := make(map[int]bool)
	for _, sw := range list {
		if seen[sw.Index] {
			return true
		}
		seen[sw.Index] = true
	}
	return false
}

func vec(x, y float32) math.Vec3 {
	return math.Vec3{X: x, Y: y}
}
