package blendspace

import (
	"errors"
	"sync"
	"testing"

	"github.com/Faultbox/blendspace/pkg/math"
)

func TestNewValidatesParameters(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		params []BlendParameter
	}{
		{"missing axis", KindBlendSpace, params2D(2)[:1]},
		{"too many axes", KindBlendSpace1D, append(params2D(2), params2D(2)...)},
		{"empty range", KindBlendSpace1D, []BlendParameter{{Min: 5, Max: 5, GridNum: 2}}},
		{"no grid", KindAimOffset, []BlendParameter{{Min: 0, Max: 1, GridNum: 0}, {Min: 0, Max: 1, GridNum: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.kind, tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := New(KindBlendSpace1D, []BlendParameter{{Min: 1, Max: 0, GridNum: 2}})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestCenterOfSingleCellBlendsFourCorners(t *testing.T) {
	// One cell whose vertices are the four samples.
	b := cornerSpace(t, 1)

	got, ok := b.GetSamplesFromBlendInput(vec(50, 50), nil)
	if !ok {
		t.Fatal("expected samples")
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 samples, got %v", got)
	}
	for i := 0; i < 4; i++ {
		if w := weightOf(got, i); !approxEqual(w, 0.25) {
			t.Errorf("sample %d: expected weight 0.25, got %v", i, w)
		}
	}
}

func TestCenterVertexOnDiagonalBlendsTwoCorners(t *testing.T) {
	// With two cells per axis the center is a grid vertex resolved from the
	// triangulation, so it sits on the diagonal shared by both triangles.
	b := cornerSpace(t, 2)

	got, ok := b.GetSamplesFromBlendInput(vec(50, 50), nil)
	if !ok {
		t.Fatal("expected samples")
	}
	if !approxEqual(sumWeights(got), 1) {
		t.Errorf("weights sum to %v", sumWeights(got))
	}
	if len(got) != 2 {
		t.Fatalf("expected the two diagonal samples, got %v", got)
	}
	for _, sw := range got {
		if !approxEqual(sw.Weight, 0.5) {
			t.Errorf("sample %d: expected weight 0.5, got %v", sw.Index, sw.Weight)
		}
	}
	a, c := got[0].Index, got[1].Index
	if a+c != 3 {
		t.Errorf("expected opposite corners, got samples %d and %d", a, c)
	}
}

func TestExactCornerSelectsOneSample(t *testing.T) {
	for _, gridNum := range []int{1, 2, 5} {
		b := cornerSpace(t, gridNum)
		got, ok := b.GetSamplesFromBlendInput(vec(0, 0), nil)
		if !ok {
			t.Fatalf("grid %d: expected samples", gridNum)
		}
		if len(got) != 1 || got[0].Index != 0 || !approxEqual(got[0].Weight, 1) {
			t.Errorf("grid %d: expected only sample 0 at full weight, got %v", gridNum, got)
		}
		for i := 1; i < 4; i++ {
			if w := weightOf(got, i); w != 0 {
				t.Errorf("grid %d: sample %d should have weight 0, got %v", gridNum, i, w)
			}
		}
	}
}

func TestBlendSpace1DLinearWeights(t *testing.T) {
	b, err := New(KindBlendSpace1D, []BlendParameter{{DisplayName: "speed", Min: 0, Max: 10, GridNum: 1}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	lo, _ := b.AddSample(NewBlendSample(anim("walk"), math.Vec3{X: 0}))
	hi, _ := b.AddSample(NewBlendSample(anim("run"), math.Vec3{X: 10}))
	b.RebuildGrid()

	got, ok := b.GetSamplesFromBlendInput(math.Vec3{X: 2.5}, nil)
	if !ok {
		t.Fatal("expected samples")
	}
	if !approxEqual(weightOf(got, lo), 0.75) || !approxEqual(weightOf(got, hi), 0.25) {
		t.Errorf("expected (0.75, 0.25), got %v", got)
	}
}

func TestAddSampleNearCornerRejected(t *testing.T) {
	b := cornerSpace(t, 2) // threshold 15 per axis
	if th := b.Threshold(); !approxEqual(th[0], 15) || !approxEqual(th[1], 15) {
		t.Fatalf("expected threshold 15, got %v", th)
	}

	s := NewBlendSample(anim("extra"), vec(0.01, 0.01))
	if b.ValidateSampleInput(&s, NewSample) {
		t.Error("expected validation to fail")
	}
	_, err := b.AddSample(NewBlendSample(anim("extra"), vec(0.01, 0.01)))
	if !errors.Is(err, ErrTooClose) {
		t.Errorf("expected ErrTooClose, got %v", err)
	}
	if b.NumSamples() != 4 {
		t.Errorf("expected 4 samples, got %d", b.NumSamples())
	}
}

func TestGetSamplesFromBlendInputNormalized(t *testing.T) {
	b, err := New(KindBlendSpace, []BlendParameter{
		{DisplayName: "direction", Min: -180, Max: 180, GridNum: 8},
		{DisplayName: "speed", Min: 0, Max: 600, GridNum: 6},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	placements := []math.Vec3{
		vec(0, 0), vec(-90, 150), vec(0, 150), vec(90, 150),
		vec(-180, 300), vec(180, 300), vec(0, 450), vec(-45, 600), vec(45, 600),
	}
	for i, v := range placements {
		if _, err := b.AddSample(NewBlendSample(anim(string(rune('a'+i))), v)); err != nil {
			t.Fatalf("AddSample %d failed: %v", i, err)
		}
	}
	b.RebuildGrid()

	var buf []SampleWeight
	for x := float32(-200); x <= 200; x += 13.3 {
		for y := float32(-20); y <= 620; y += 31.7 {
			var ok bool
			buf, ok = b.GetSamplesFromBlendInput(vec(x, y), buf)
			if !ok {
				t.Fatalf("(%v,%v): expected samples", x, y)
			}
			if !approxEqual(sumWeights(buf), 1) {
				t.Errorf("(%v,%v): weights sum to %v", x, y, sumWeights(buf))
			}
			if hasDuplicates(buf) {
				t.Errorf("(%v,%v): duplicate sample indices %v", x, y, buf)
			}
			for _, sw := range buf {
				if sw.Weight < ZeroWeightThreshold {
					t.Errorf("(%v,%v): negligible weight kept %v", x, y, sw)
				}
			}
		}
	}
}

func TestGetSamplesFromBlendInputWithoutGrid(t *testing.T) {
	b, err := New(KindBlendSpace, params2D(2))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, ok := b.GetSamplesFromBlendInput(vec(10, 10), nil)
	if ok || len(got) != 0 {
		t.Errorf("expected no samples before the grid is built, got %v", got)
	}

	b.RebuildGrid() // no samples yet
	if _, ok := b.GetSamplesFromBlendInput(vec(10, 10), nil); ok {
		t.Error("expected no samples from an empty space")
	}
}

func TestEditSampleValue(t *testing.T) {
	b := cornerSpace(t, 2)

	// The edit target is exempt from its own threshold.
	if err := b.EditSampleValue(0, vec(3, 4)); err != nil {
		t.Errorf("small move of sample 0 should succeed: %v", err)
	}
	if got := b.Samples()[0].Value; got != vec(0, 0) {
		t.Errorf("expected move to snap back to the corner, got %+v", got)
	}

	if err := b.EditSampleValue(0, vec(95, 2)); !errors.Is(err, ErrTooClose) {
		t.Errorf("expected ErrTooClose moving onto sample 1, got %v", err)
	}
	if err := b.EditSampleValue(0, vec(50, 50)); err != nil {
		t.Fatalf("move to center failed: %v", err)
	}
	if !b.GridDirty() {
		t.Error("edit should mark the grid dirty")
	}
	if err := b.EditSampleValue(9, vec(1, 1)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestReplaceAndDeleteSamples(t *testing.T) {
	b := cornerSpace(t, 2)

	if err := b.ReplaceSampleAnimation(1, anim("br2")); err != nil {
		t.Fatalf("ReplaceSampleAnimation failed: %v", err)
	}
	if got := b.Samples()[1].Animation.Name(); got != "br2" {
		t.Errorf("expected br2, got %s", got)
	}
	if err := b.ReplaceSampleAnimation(1, nil); !errors.Is(err, ErrNoAnimation) {
		t.Errorf("expected ErrNoAnimation, got %v", err)
	}

	tr := b.Samples()[3]
	if err := b.DeleteSample(0); err != nil {
		t.Fatalf("DeleteSample failed: %v", err)
	}
	if b.NumSamples() != 3 {
		t.Fatalf("expected 3 samples, got %d", b.NumSamples())
	}
	if !b.DeleteMatchingSample(tr) {
		t.Error("expected to delete the matching sample")
	}
	if b.DeleteMatchingSample(tr) {
		t.Error("sample was already deleted")
	}
	if err := b.DeleteSample(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	b.ClearAllSamples()
	if b.NumSamples() != 0 || !b.GridDirty() {
		t.Error("expected an empty, dirty space")
	}
}

func TestSkeletonCompatibility(t *testing.T) {
	b, err := New(KindBlendSpace1D, []BlendParameter{{Min: 0, Max: 1, GridNum: 4}},
		WithSettings(Settings{Skeleton: "humanoid"}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = b.AddSample(NewBlendSample(&testAnim{name: "crawl", duration: 1, skeleton: "quadruped"}, math.Vec3{}))
	if !errors.Is(err, ErrSkeletonMismatch) {
		t.Errorf("expected ErrSkeletonMismatch, got %v", err)
	}
	if _, err := b.AddSample(NewBlendSample(&testAnim{name: "walk", duration: 1, skeleton: "humanoid"}, math.Vec3{})); err != nil {
		t.Errorf("matching skeleton should be accepted: %v", err)
	}
}

func TestSnapshotPublication(t *testing.T) {
	b := cornerSpace(t, 2)
	snap := b.Snapshot()
	gen := snap.Generation

	if _, err := b.AddSample(NewBlendSample(anim("mid"), vec(50, 50))); err != nil {
		t.Fatalf("AddSample failed: %v", err)
	}
	if b.Snapshot() != snap {
		t.Error("edits must not replace the published snapshot")
	}
	if len(snap.Samples) != 4 {
		t.Errorf("published snapshot changed under edit: %d samples", len(snap.Samples))
	}

	next := b.RebuildGrid()
	if next.Generation <= gen {
		t.Errorf("expected generation to advance past %d, got %d", gen, next.Generation)
	}
	if len(next.Samples) != 5 || b.GridDirty() {
		t.Errorf("expected 5 samples and a clean grid, got %d dirty=%v", len(next.Samples), b.GridDirty())
	}
	got, _ := next.GetSamplesFromBlendInput(vec(50, 50), nil)
	if len(got) != 1 || got[0].Index != 4 {
		t.Errorf("expected the new center sample, got %v", got)
	}
}

func TestSetGrid(t *testing.T) {
	b, err := New(KindBlendSpace1D, []BlendParameter{{Min: 0, Max: 10, GridNum: 1}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b.AddSample(NewBlendSample(anim("a"), math.Vec3{X: 0}))
	b.AddSample(NewBlendSample(anim("b"), math.Vec3{X: 10}))

	if err := b.SetGrid(NewGrid(2, 0)); err == nil {
		t.Error("expected dimension mismatch error")
	}
	bad := NewGrid(1, 0)
	bad.Set(0, 0, element([]int{7}, []float32{1}))
	if err := b.SetGrid(bad); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	g := NewGrid(1, 0)
	g.Set(0, 0, element([]int{1}, []float32{1}))
	g.Set(1, 0, element([]int{0}, []float32{1}))
	if err := b.SetGrid(g); err != nil {
		t.Fatalf("SetGrid failed: %v", err)
	}
	// The published grid is a copy.
	g.Set(0, 0, GridElement{})

	got, _ := b.GetSamplesFromBlendInput(math.Vec3{X: 0}, nil)
	if len(got) != 1 || got[0].Index != 1 {
		t.Errorf("expected the externally built grid to be used, got %v", got)
	}
}

func TestAnimLength(t *testing.T) {
	b, err := New(KindBlendSpace1D, []BlendParameter{{Min: 0, Max: 10, GridNum: 1}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b.AddSample(NewBlendSample(&testAnim{name: "walk", duration: 2}, math.Vec3{X: 0}))
	b.AddSample(NewBlendSample(&testAnim{name: "run", duration: 1}, math.Vec3{X: 10}))
	snap := b.RebuildGrid()

	weights, _ := snap.GetSamplesFromBlendInput(math.Vec3{X: 2.5}, nil)
	if got := snap.AnimLength(weights); !approxEqual(got, 0.75*2+0.25*1) {
		t.Errorf("expected length 1.75, got %v", got)
	}
}

func TestConcurrentQueriesDuringEdits(t *testing.T) {
	b := cornerSpace(t, 4)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			var buf []SampleWeight
			for i := 0; i < 500; i++ {
				in := vec(float32((seed*37+i*13)%100), float32((seed*11+i*7)%100))
				var ok bool
				buf, ok = b.GetSamplesFromBlendInput(in, buf)
				if ok && !approxEqual(sumWeights(buf), 1) {
					t.Errorf("weights sum to %v", sumWeights(buf))
					return
				}
			}
		}(g)
	}
	for i := 0; i < 20; i++ {
		idx, err := b.AddSample(NewBlendSample(anim("mid"), vec(50, 50)))
		if err == nil {
			b.RebuildGrid()
			b.DeleteSample(idx)
			b.RebuildGrid()
		}
	}
	wg.Wait()
}
