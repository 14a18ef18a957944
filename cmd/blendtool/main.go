// blendtool is a CLI utility for inspecting, editing and benchmarking blend-space assets.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/blendspace/internal/asset"
	"github.com/Faultbox/blendspace/internal/config"
	"github.com/Faultbox/blendspace/internal/logger"
	"github.com/Faultbox/blendspace/pkg/blendspace"
	"github.com/Faultbox/blendspace/pkg/math"
)

var cfg *config.Config

func main() {
	config.ParseFlags()

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "query", "q":
		cmdQuery(args)
	case "grid":
		cmdGrid(args)
	case "validate":
		cmdValidate(args)
	case "add":
		cmdAdd(args)
	case "remove", "rm":
		cmdRemove(args)
	case "rebuild":
		cmdRebuild(args)
	case "bench":
		cmdBench(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`blendtool - blend-space asset utility

Usage:
  blendtool [--config file] [--debug] [--workers N] [--log-file file] [--rebuild] <command> [options]

Commands:
  info <asset>                             Show parameters, samples and settings
  query <asset> <x> [y]                    Print sample weights for a blend input
  grid <asset>                             Print the precomputed grid
  validate <asset>                         Report rejected samples and additive problems
  add [-o out] [-duration s] [-additive t] <asset> <anim> <x> [y]
                                           Add a sample and rebuild the grid
  remove [-o out] <asset> <index>          Remove a sample and rebuild the grid
  rebuild [-o out] <asset>                 Triangulate the samples again
  bench [-instances N] [-frames N] [-bones N] <asset>
                                           Tick many instances in parallel
  config show                              Print the effective configuration
  config save [-o file]                    Write it to file or the user config dir

Examples:
  blendtool info locomotion.yaml
  blendtool query locomotion.yaml -45 250
  blendtool add -o out.yaml locomotion.yaml jog_fwd 0 300
  blendtool --workers 8 bench -instances 1000 locomotion.yaml`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func usage(line string) {
	fmt.Fprintln(os.Stderr, "Usage: blendtool "+line)
	os.Exit(1)
}

// loadAsset reads and builds an asset with the configured runtime defaults.
func loadAsset(path string) *asset.Asset {
	doc, err := asset.Load(path)
	if err != nil {
		fail(err)
	}
	opts := []asset.BuildOption{asset.WithDefaultWeightSpeed(cfg.Runtime.DefaultWeightSpeed)}
	if cfg.Runtime.RebuildOnLoad {
		opts = append(opts, asset.WithRebuild())
	}
	a, err := doc.Build(logger.Named("asset"), opts...)
	if err != nil {
		fail(fmt.Errorf("%s: %w", path, err))
	}
	return a
}

func saveAsset(a *asset.Asset, path string) {
	if err := asset.FromSpace(a.Space).Save(path); err != nil {
		fail(err)
	}
	logger.Info("asset saved", zap.String("path", path), zap.Int("samples", a.Space.NumSamples()))
	fmt.Printf("Saved %s\n", path)
}

// parseValue reads up to dims coordinates from args.
func parseValue(args []string, dims int) (math.Vec3, error) {
	var v math.Vec3
	if len(args) < dims {
		return v, fmt.Errorf("need %d coordinates, got %d", dims, len(args))
	}
	for i := 0; i < dims; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return v, fmt.Errorf("coordinate %d: %w", i, err)
		}
		v = v.WithAxis(i, float32(f))
	}
	return v, nil
}

func sampleName(snap *blendspace.Snapshot, index int) string {
	if index < 0 || index >= len(snap.Samples) || snap.Samples[index].Animation == nil {
		return "?"
	}
	return snap.Samples[index].Animation.Name()
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		usage("info <asset>")
	}
	a := loadAsset(args[0])
	space := a.Space
	snap := space.Snapshot()
	settings := space.Settings()

	fmt.Printf("Asset:     %s\n", args[0])
	fmt.Printf("Kind:      %s\n", space.Kind())
	fmt.Printf("Skeleton:  %s\n", orNone(settings.Skeleton))
	fmt.Printf("Mode:      %s\n", snap.Mode)
	fmt.Printf("Samples:   %d (%d rejected)\n", space.NumSamples(), len(a.Rejected))
	fmt.Println()

	threshold := space.Threshold()
	fmt.Println("Parameters:")
	for i, p := range space.Params() {
		fmt.Printf("  %-12s [%g, %g]  cells=%d  cell=%g  threshold=%g\n",
			p.DisplayName, p.Min, p.Max, p.GridNum, p.GridSize(), threshold[i])
	}
	fmt.Println()

	fmt.Println("Samples:")
	for i, s := range space.Samples() {
		fmt.Printf("  [%d] %-16s %s  %.2fs", i, s.Animation.Name(), formatValue(s.Value, space.NumDimensions()), s.Animation.Duration())
		if t := s.Animation.AdditiveType(); t != blendspace.AdditiveNone {
			fmt.Printf("  %s", t)
		}
		fmt.Println()
	}
	fmt.Println()

	fmt.Println("Settings:")
	fmt.Printf("  weight speed:   %g\n", settings.TargetWeightInterpolationSpeed)
	fmt.Printf("  notifies:       %s\n", settings.NotifyTriggerMode)
	fmt.Printf("  mesh rotation:  %v\n", settings.RotationBlendInMeshSpace)
	for _, pb := range settings.PerBoneInterpolation {
		fmt.Printf("  bone %-10s speed %g\n", pb.BoneName, pb.InterpolationSpeed)
	}
	for i := 0; i < space.NumDimensions(); i++ {
		if ip := settings.InputInterpolation[i]; ip.Time > 0 {
			fmt.Printf("  axis %d filter:  %s %.3fs\n", i, ip.Type, ip.Time)
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "(any)"
	}
	return s
}

func formatValue(v math.Vec3, dims int) string {
	if dims == 1 {
		return fmt.Sprintf("(%8.2f)", v.X)
	}
	return fmt.Sprintf("(%8.2f, %8.2f)", v.X, v.Y)
}

func cmdQuery(args []string) {
	if len(args) < 2 {
		usage("query <asset> <x> [y]")
	}
	a := loadAsset(args[0])
	input, err := parseValue(args[1:], a.Space.NumDimensions())
	if err != nil {
		fail(err)
	}

	snap := a.Space.Snapshot()
	weights, ok := snap.GetSamplesFromBlendInput(input, nil)
	if !ok {
		fmt.Println("No samples (grid empty or all weights zero)")
		os.Exit(1)
	}

	clamped := blendspace.ClampInput(snap.Params, input)
	fmt.Printf("Input:  %s\n", formatValue(clamped, a.Space.NumDimensions()))
	for _, w := range weights {
		fmt.Printf("  [%d] %-16s %.4f\n", w.Index, sampleName(snap, w.Index), w.Weight)
	}
	fmt.Printf("Length: %.3fs\n", snap.AnimLength(weights))
}

func cmdGrid(args []string) {
	if len(args) < 1 {
		usage("grid <asset>")
	}
	a := loadAsset(args[0])
	snap := a.Space.Snapshot()
	grid := snap.Grid
	if grid.IsEmpty() {
		fmt.Println("Grid is empty")
		return
	}

	fmt.Printf("Grid: %d x %d cells, %d elements\n", grid.NumX, grid.NumY, len(grid.Elements))
	for x := 0; x <= grid.NumX; x++ {
		for y := 0; y <= grid.NumY; y++ {
			e := grid.Element(x, y)
			fmt.Printf("  (%d,%d)", x, y)
			for i, r := range e.Refs {
				if idx, ok := r.Index(); ok {
					fmt.Printf("  %s=%.3f", sampleName(snap, idx), e.Weights[i])
				}
			}
			fmt.Println()
		}
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		usage("validate <asset>")
	}
	a := loadAsset(args[0])

	problems := 0
	for _, r := range a.Rejected {
		fmt.Printf("REJECTED %v\n", r)
		problems++
	}
	if a.Space.NumSamples() > 0 && !a.Space.IsValidAdditive() {
		hasAdditive := false
		for _, s := range a.Space.Samples() {
			if s.Animation.IsAdditive() {
				hasAdditive = true
				break
			}
		}
		if hasAdditive || a.Space.Kind().IsAimOffset() {
			fmt.Println("INVALID  samples do not share an additive type allowed by this kind")
			problems++
		}
	}
	if a.Space.Snapshot().Grid.IsEmpty() {
		fmt.Println("EMPTY    grid has no elements")
		problems++
	}

	if problems > 0 {
		fmt.Printf("%d problem(s)\n", problems)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func cmdAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	out := fs.String("o", "", "Output path (default: overwrite input)")
	duration := fs.Float64("duration", 1, "Duration of a new animation in seconds")
	additive := fs.String("additive", "none", "Additive type of a new animation")
	fs.Parse(args)

	if fs.NArg() < 3 {
		usage("add [-o out] [-duration s] [-additive t] <asset> <anim> <x> [y]")
	}
	path := fs.Arg(0)
	a := loadAsset(path)

	value, err := parseValue(fs.Args()[2:], a.Space.NumDimensions())
	if err != nil {
		fail(err)
	}

	name := fs.Arg(1)
	clip, ok := a.Clips[name]
	if !ok {
		t, ok := blendspace.ParseAdditiveType(*additive)
		if !ok {
			fail(fmt.Errorf("unknown additive type %q", *additive))
		}
		clip = asset.NewClip(name, float32(*duration), t, a.Space.Settings().Skeleton)
	}

	idx, err := a.Space.AddSample(blendspace.NewBlendSample(clip, value))
	if err != nil {
		fail(describeRejection(err))
	}
	a.Space.RebuildGrid()
	fmt.Printf("Added %s as sample %d\n", name, idx)
	saveAsset(a, outputPath(*out, path))
}

func cmdRemove(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	out := fs.String("o", "", "Output path (default: overwrite input)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		usage("remove [-o out] <asset> <index>")
	}
	path := fs.Arg(0)
	a := loadAsset(path)

	idx, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		fail(fmt.Errorf("bad index %q", fs.Arg(1)))
	}
	if err := a.Space.DeleteSample(idx); err != nil {
		fail(err)
	}
	a.Space.RebuildGrid()
	fmt.Printf("Removed sample %d\n", idx)
	saveAsset(a, outputPath(*out, path))
}

func cmdRebuild(args []string) {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	out := fs.String("o", "", "Output path (default: overwrite input)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		usage("rebuild [-o out] <asset>")
	}
	path := fs.Arg(0)
	a := loadAsset(path)
	snap := a.Space.RebuildGrid()
	fmt.Printf("Rebuilt grid %dx%d from %d samples\n", snap.Grid.NumX, snap.Grid.NumY, len(snap.Samples))
	saveAsset(a, outputPath(*out, path))
}

func cmdConfig(args []string) {
	if len(args) < 1 {
		usage("config show|save [-o file]")
	}
	switch args[0] {
	case "show":
		if err := cfg.Write(os.Stdout); err != nil {
			fail(err)
		}
	case "save":
		fs := flag.NewFlagSet("config save", flag.ExitOnError)
		out := fs.String("o", "", "Output path (default: user config dir)")
		fs.Parse(args[1:])

		var err error
		path := *out
		if path == "" {
			path = config.DefaultPath()
			err = cfg.Save()
		} else {
			err = cfg.SaveTo(path)
		}
		if err != nil {
			fail(err)
		}
		logger.Info("config saved", zap.String("path", path))
		fmt.Printf("Saved %s\n", path)
	default:
		usage("config show|save [-o file]")
	}
}

func outputPath(out, in string) string {
	if out != "" {
		return out
	}
	return in
}

func describeRejection(err error) error {
	switch {
	case errors.Is(err, blendspace.ErrTooClose):
		return fmt.Errorf("%w; move it further from existing samples", err)
	case errors.Is(err, blendspace.ErrSkeletonMismatch):
		return fmt.Errorf("%w; pick an animation made for this skeleton", err)
	default:
		return err
	}
}
