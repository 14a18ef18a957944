package evaluator

import (
	"testing"

	"github.com/Faultbox/blendspace/pkg/blendspace"
	"github.com/Faultbox/blendspace/pkg/math"
)

type clip struct {
	name     string
	duration float32
}

func (c *clip) Name() string                          { return c.name }
func (c *clip) IsAdditive() bool                      { return false }
func (c *clip) AdditiveType() blendspace.AdditiveType { return blendspace.AdditiveNone }
func (c *clip) Duration() float32                     { return c.duration }
func (c *clip) CompatibleWith(string) bool            { return true }

func newSpace(t *testing.T) *blendspace.BlendSpace {
	t.Helper()
	space, err := blendspace.New(blendspace.KindBlendSpace1D, []blendspace.BlendParameter{
		{DisplayName: "speed", Min: 0, Max: 100, GridNum: 4},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, s := range []struct {
		name string
		x    float32
	}{{"idle", 0}, {"walk", 50}, {"run", 100}} {
		if _, err := space.AddSample(blendspace.NewBlendSample(&clip{s.name, 1}, math.Vec3{X: s.x})); err != nil {
			t.Fatalf("AddSample(%s) failed: %v", s.name, err)
		}
	}
	space.RebuildGrid()
	return space
}

func TestTickAllMatchesSerial(t *testing.T) {
	space := newSpace(t)
	ev := New(4, nil)

	const n = 64
	jobs := make([]Job, n)
	serial := make([]*blendspace.Instance, n)
	for i := range jobs {
		jobs[i] = Job{Instance: blendspace.NewInstance(space), Input: math.Vec3{X: float32(i) * 100 / n}}
		serial[i] = blendspace.NewInstance(space)
	}

	for frame := 0; frame < 3; frame++ {
		results := ev.TickAll(jobs, 1.0/60)
		if len(results) != n {
			t.Fatalf("expected %d results, got %d", n, len(results))
		}
		for i, r := range results {
			want := serial[i].Tick(jobs[i].Input, 1.0/60)
			if len(r.Samples) != len(want.Samples) {
				t.Fatalf("job %d: %d samples, serial tick gave %d", i, len(r.Samples), len(want.Samples))
			}
			for k := range r.Samples {
				if r.Samples[k].Index != want.Samples[k].Index || r.Samples[k].Weight != want.Samples[k].Weight {
					t.Errorf("job %d sample %d: got %+v, want %+v", i, k, r.Samples[k], want.Samples[k])
				}
			}
			if r.NormalizedTime != want.NormalizedTime {
				t.Errorf("job %d: normalized time %v, want %v", i, r.NormalizedTime, want.NormalizedTime)
			}
		}
	}
	if ev.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", ev.Frames())
	}
}

func TestTickAllEmpty(t *testing.T) {
	ev := New(0, nil)
	if ev.Workers() != 1 {
		t.Errorf("expected worker count to be raised to 1, got %d", ev.Workers())
	}
	if results := ev.TickAll(nil, 0.016); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestTickAllHeldWithoutGrid(t *testing.T) {
	space, err := blendspace.New(blendspace.KindBlendSpace1D, []blendspace.BlendParameter{
		{DisplayName: "speed", Min: 0, Max: 100, GridNum: 4},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ev := New(2, nil)
	results := ev.TickAll([]Job{{Instance: blendspace.NewInstance(space), Input: math.Vec3{X: 10}}}, 0.016)
	if results[0].HasSamples() {
		t.Error("instance without a grid should have nothing to blend")
	}
}
