package main

import (
	"flag"
	"fmt"
	stdmath "math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/blendspace/internal/evaluator"
	"github.com/Faultbox/blendspace/internal/logger"
	"github.com/Faultbox/blendspace/pkg/blendspace"
	"github.com/Faultbox/blendspace/pkg/math"
	"github.com/Faultbox/blendspace/pkg/pose"
)

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	instances := fs.Int("instances", cfg.Bench.Instances, "Number of evaluating instances")
	frames := fs.Int("frames", cfg.Bench.Frames, "Number of frames to tick")
	bones := fs.Int("bones", 0, "Compose poses on a synthetic chain of N bones (0 = weights only)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		usage("bench [-instances N] [-frames N] [-bones N] <asset>")
	}
	a := loadAsset(fs.Arg(0))
	space := a.Space
	if space.Snapshot().Grid.IsEmpty() {
		fail(fmt.Errorf("%s has no grid to sample", fs.Arg(0)))
	}

	ev := evaluator.New(cfg.Runtime.Workers, logger.Named("evaluator"))
	jobs := make([]evaluator.Job, *instances)
	for i := range jobs {
		jobs[i].Instance = blendspace.NewInstance(space)
	}

	var skel *pose.Skeleton
	var composers []*pose.Composer
	if *bones > 0 {
		var err error
		skel, err = chainSkeleton(space.Settings(), *bones)
		if err != nil {
			fail(err)
		}
		composers = make([]*pose.Composer, len(jobs))
		for i := range composers {
			composers[i] = pose.NewComposer(skel, space.Settings())
		}
	}

	params := space.Params()
	dt := 1 / cfg.Bench.FrameRate
	held := 0
	start := time.Now()
	var composeTime time.Duration

	for f := 0; f < *frames; f++ {
		for i := range jobs {
			jobs[i].Input = wander(params, i, f, dt)
		}
		results := ev.TickAll(jobs, dt)
		for _, r := range results {
			if r.Held {
				held++
			}
		}
		if composers != nil {
			t := time.Now()
			snap := space.Snapshot()
			for i, r := range results {
				composers[i].Compose(snap, r, waveSource{}, nil)
			}
			composeTime += time.Since(t)
		}
	}

	elapsed := time.Since(start)
	ticks := *instances * *frames
	perTick := time.Duration(0)
	if ticks > 0 {
		perTick = elapsed / time.Duration(ticks)
	}

	fmt.Printf("Instances: %d\n", *instances)
	fmt.Printf("Frames:    %d at %g fps\n", *frames, cfg.Bench.FrameRate)
	fmt.Printf("Workers:   %d\n", ev.Workers())
	fmt.Printf("Elapsed:   %v (%v per tick)\n", elapsed.Round(time.Microsecond), perTick)
	if composers != nil {
		fmt.Printf("Compose:   %v for %d bones\n", composeTime.Round(time.Microsecond), *bones)
	}
	fmt.Printf("Held:      %d\n", held)

	logger.Info("bench finished",
		zap.Int("instances", *instances),
		zap.Int("frames", *frames),
		zap.Duration("elapsed", elapsed),
		zap.Int("held", held))
}

// wander moves each instance's input around the parameter space on its own phase.
func wander(params []blendspace.BlendParameter, instance, frame int, dt float32) math.Vec3 {
	t := float64(frame) * float64(dt)
	phase := float64(instance) * 0.37
	var v math.Vec3
	for axis, p := range params {
		s := 0.5 + 0.5*stdmath.Sin(t*(0.7+0.3*float64(axis))+phase)
		v = v.WithAxis(axis, p.Min+float32(s)*p.Range())
	}
	return v
}

// chainSkeleton builds a single chain of n bones, naming the per-bone
// interpolation bones along it so per-bone blending is exercised.
func chainSkeleton(settings blendspace.Settings, n int) (*pose.Skeleton, error) {
	bones := make([]pose.Bone, n)
	for i := range bones {
		bones[i] = pose.Bone{Name: fmt.Sprintf("bone_%02d", i), Parent: i - 1}
	}
	for i, pb := range settings.PerBoneInterpolation {
		if slot := (i + 1) * n / (len(settings.PerBoneInterpolation) + 1); slot < n {
			bones[slot].Name = pb.BoneName
		}
	}
	name := settings.Skeleton
	if name == "" {
		name = "chain"
	}
	return pose.NewSkeleton(name, bones, nil)
}

// waveSource evaluates every animation as a rotation wave down the chain.
type waveSource struct{}

func (waveSource) SamplePose(anim blendspace.Animation, t float32, skel *pose.Skeleton) (pose.Pose, bool) {
	dur := anim.Duration()
	if dur <= 0 {
		return nil, false
	}
	phase := 2 * stdmath.Pi * float64(t/dur)
	seed := float64(len(anim.Name()))
	p := skel.RefPose.Clone()
	for i := range p {
		angle := float32(0.2 * stdmath.Sin(phase+seed+float64(i)*0.5))
		p[i].Rotation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1}).Mul(p[i].Rotation)
	}
	if anim.IsAdditive() {
		return pose.MakeAdditive(p, skel.RefPose), true
	}
	return p, true
}
