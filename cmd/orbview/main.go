// cmd/orbview/main.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// orbview plots the planar geometry of a Keplerian conic trajectory:
// SVG file output by default, an interactive viewer with -view.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orbview/orbview/pkg/log"
	"github.com/orbview/orbview/pkg/orbit"
	"github.com/orbview/orbview/pkg/platform"
	"github.com/orbview/orbview/pkg/renderer"
	"github.com/orbview/orbview/pkg/scope"
	"github.com/orbview/orbview/pkg/util"
)

const lastParamsCache = "lastparams.msgpack"

var (
	logLevel = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "log file directory (default: user config dir)")

	eccentricity = flag.Float64("e", 0, "eccentricity")
	semiLatus    = flag.Float64("p", 0, "semi-latus rectum, km")
	argPeriapsis = flag.Float64("omega", 0, "argument of periapsis, degrees")
	startAnomaly = flag.Float64("nu0", 0, "start true anomaly, degrees")
	endAnomaly   = flag.Float64("nuf", 0, "end true anomaly, degrees")
	sampleCount  = flag.Int("samples", 0, "trajectory sample count")
	focusRange   = flag.Float64("focusrange", 0, "focus range, km")

	outFile  = flag.String("o", "orbit.svg", "output SVG file")
	sizeSpec = flag.String("size", "800x600", "output size, WxH pixels")

	presetName  = flag.String("preset", "", "start from the named preset")
	savePreset  = flag.String("savepreset", "", "save the parameters as a named preset")
	listPresets = flag.Bool("listpresets", false, "list saved presets and exit")
	useLast     = flag.Bool("last", false, "start from the last rendered parameters")

	batchDir     = flag.String("batch", "", "render every parameter JSON file in the directory")
	snapshotFile = flag.String("snapshot", "", "write a scene snapshot instead of rendering")
	replayFile   = flag.String("replay", "", "render a scene snapshot without recomputing")

	view       = flag.Bool("view", false, "open the interactive viewer")
	fixedSweep = flag.Bool("fixedsweeplabel", false,
		"label the sweep arc with the historical fixed \"120°\" string")
)

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	renderer.Init(lg)

	opts := scope.Options{FixedSweepLabel: *fixedSweep}
	width, height, err := parseSize(*sizeSpec)
	if err != nil {
		fatal("%v", err)
	}

	if *listPresets {
		names, err := presetNames()
		if err != nil {
			fatal("presets: %v", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if *replayFile != "" {
		scene, err := scope.ReadScene(*replayFile)
		if err != nil {
			fatal("%v", err)
		}
		if err := renderSceneSVG(scene, *outFile, lg); err != nil {
			fatal("%v", err)
		}
		return
	}

	if *batchDir != "" {
		if err := renderBatch(*batchDir, width, height, opts, lg); err != nil {
			fatal("%v", err)
		}
		return
	}

	params, err := gatherParameters()
	if err != nil {
		fatal("%v", err)
	}
	lg.Infof("parameters: %+v (%s)", params, params.Class())

	if *savePreset != "" {
		if err := storePreset(*savePreset, params); err != nil {
			fatal("saving preset: %v", err)
		}
	}

	if *view {
		if err := platform.RunViewer(params, opts, lg); err != nil {
			fatal("viewer: %v", err)
		}
		return
	}

	scene := scope.BuildScene(params, [2]float32{float32(width), float32(height)}, opts)

	if *snapshotFile != "" {
		if err := scope.WriteScene(*snapshotFile, scene); err != nil {
			fatal("%v", err)
		}
		lg.Infof("wrote snapshot %s", *snapshotFile)
		return
	}

	if err := renderSceneSVG(scene, *outFile, lg); err != nil {
		fatal("%v", err)
	}
	if err := util.CacheStoreObject(lastParamsCache, params); err != nil {
		lg.Warnf("caching parameters: %v", err)
	}
}

// gatherParameters resolves the orbital parameters from, in increasing
// priority: the built-in defaults, the cached last-used set (-last), the
// named preset (-preset), and any explicitly given parameter flags.
func gatherParameters() (orbit.OrbitalParameters, error) {
	params := orbit.DefaultParameters()

	if *useLast {
		if _, err := util.CacheRetrieveObject(lastParamsCache, &params); err != nil {
			return params, fmt.Errorf("no cached parameters: %w", err)
		}
	}
	if *presetName != "" {
		var err error
		if params, err = fetchPreset(*presetName); err != nil {
			return params, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "e":
			params.Eccentricity = float32(*eccentricity)
		case "p":
			params.SemiLatusRectumKm = float32(*semiLatus)
		case "omega":
			params.ArgumentOfPeriapsisDeg = float32(*argPeriapsis)
		case "nu0":
			params.StartAnomalyDeg = float32(*startAnomaly)
		case "nuf":
			params.EndAnomalyDeg = float32(*endAnomaly)
		case "samples":
			params.SampleCount = *sampleCount
		case "focusrange":
			params.FocusRangeKm = float32(*focusRange)
		}
	})
	return params, nil
}

func parseSize(spec string) (int, int, error) {
	var w, h int
	if n, err := fmt.Sscanf(spec, "%dx%d", &w, &h); n != 2 || err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%s: expected size WxH, e.g. 800x600", spec)
	}
	return w, h, nil
}

// renderSceneSVG renders a built scene to the SVG file at path.
func renderSceneSVG(scene *scope.Scene, path string, lg *log.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	r, err := renderer.NewSVGRenderer(f, int(scene.Viewport[0]), int(scene.Viewport[1]))
	if err != nil {
		f.Close()
		return err
	}
	defer r.Dispose()

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	scene.GenerateCommands(cb)

	stats := r.RenderCommandBuffer(cb)
	lg.Infof("rendered %s: %s", path, stats.String())

	return f.Close()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "orbview: "+format+"\n", args...)
	os.Exit(1)
}
