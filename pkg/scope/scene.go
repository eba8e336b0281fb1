// pkg/scope/scene.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scope

import (
	"slices"

	"github.com/orbview/orbview/pkg/orbit"
	"github.com/orbview/orbview/pkg/util"
)

// The scene types hold everything the renderer needs in window
// coordinates; rendering consumes them without further geometry
// computation. Features carry Valid flags and invalid ones are skipped,
// so degenerate parameters degrade to a mostly-empty scene rather than an
// error. All fields are exported for snapshot serialization.

// Marker is a highlighted point.
type Marker struct {
	P     [2]float32
	Valid bool
}

// Vector is a direction indicator drawn as an arrow from P0 to P1.
type Vector struct {
	P0, P1 [2]float32
	Valid  bool
}

// Line is a straight line, optionally dashed.
type Line struct {
	P0, P1 [2]float32
	Dashed bool
	Valid  bool
}

// Arc is a circular arc from window-space angle A0 to A1 (radians,
// measured from +x toward +y, which points down the screen).
type Arc struct {
	Center   [2]float32
	RadiusPx float32
	A0, A1   float32
	Valid    bool
}

// Label is a short numeric annotation; P is the lower-left corner of the
// text.
type Label struct {
	Text  string
	P     [2]float32
	Valid bool
}

// Scene is the complete drawable description of one trajectory plot: the
// trajectory polylines plus the fixed set of annotation features.
type Scene struct {
	Viewport [2]float32
	Segments []Segment

	Perigee  Marker
	ApseLine Line

	StartMarker, EndMarker     Marker
	StartVelocity, EndVelocity Vector

	PeriapsisArc   Arc
	PeriapsisLabel Label
	SweepArc       Arc
	SweepLabel     Label
}

// Options adjusts scene construction.
type Options struct {
	// FixedSweepLabel labels the anomaly-sweep arc with the literal
	// string "120°" instead of the computed sweep angle, matching the
	// historical display.
	FixedSweepLabel bool
}

// BuildScene samples the trajectory, projects it into the viewport,
// partitions it into segments, and computes the annotation features. It
// is a pure function of its arguments: identical inputs yield identical
// scenes.
func BuildScene(op orbit.OrbitalParameters, viewport [2]float32, opts Options) *Scene {
	tf := MakeTransforms(viewport, op.FocusRange())

	pts := util.MapSlice(slices.Collect(op.SamplePoints()),
		func(pt orbit.PolarPoint) [2]float32 { return tf.WindowFromWorld(pt.World()) })

	s := &Scene{
		Viewport: tf.Viewport(),
		Segments: BuildSegments(pts, tf.MaxGapPx()),
	}
	annotate(s, op, &tf, opts)
	return s
}
