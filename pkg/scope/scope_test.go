// pkg/scope/scope_test.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scope

import (
	"bytes"
	"reflect"
	"sync"
	"testing"

	"github.com/orbview/orbview/pkg/math"
	"github.com/orbview/orbview/pkg/orbit"
	"github.com/orbview/orbview/pkg/renderer"
)

func TestTransformsMapping(t *testing.T) {
	tf := MakeTransforms([2]float32{800, 600}, 15000)

	// World origin maps to the viewport center.
	if c := tf.WindowFromWorld([2]float32{0, 0}); c != [2]float32{400, 300} {
		t.Errorf("origin maps to %v, want (400, 300)", c)
	}

	// scale = min(w,h) / (2 * focusRange); +y in the world is up the
	// screen, so window y decreases.
	scale := float32(600) / (2 * 15000)
	p := tf.WindowFromWorld([2]float32{1000, 2000})
	want := [2]float32{400 + 1000*scale, 300 - 2000*scale}
	if math.Distance2f(p, want) > 1e-3 {
		t.Errorf("(1000, 2000) km maps to %v, want %v", p, want)
	}

	// Round trip.
	w := tf.WorldFromWindow(p)
	if math.Distance2f(w, [2]float32{1000, 2000}) > 1e-2 {
		t.Errorf("round trip gave %v", w)
	}
}

func TestTransformsDegenerateViewport(t *testing.T) {
	for _, vp := range [][2]float32{{0, 0}, {-100, 50}, {0, 600}} {
		tf := MakeTransforms(vp, 15000)
		got := tf.Viewport()
		if got[0] < 200 || got[1] < 200 {
			t.Errorf("viewport %v clamped to %v; minimum is 200", vp, got)
		}
		if !math.IsFinite2f(tf.WindowFromWorld([2]float32{1, 1})) {
			t.Errorf("viewport %v: non-finite projection", vp)
		}
	}
}

func TestTransformsNarrowViewport(t *testing.T) {
	// Below 480 px wide the effective focus range shrinks to a quarter,
	// floored at 3000 km.
	tf := MakeTransforms([2]float32{400, 800}, 15000)
	scale := float32(400) / (2 * 3750)
	p := tf.WindowFromWorld([2]float32{1000, 0})
	if want := 200 + 1000*scale; math.Abs(p[0]-want) > 1e-2 {
		t.Errorf("narrow viewport x = %g, want %g", p[0], want)
	}

	// The floor applies for small focus ranges.
	tf = MakeTransforms([2]float32{400, 800}, 5000)
	scale = float32(400) / (2 * 3000)
	p = tf.WindowFromWorld([2]float32{1000, 0})
	if want := 200 + 1000*scale; math.Abs(p[0]-want) > 1e-2 {
		t.Errorf("narrow viewport with small focus range: x = %g, want %g", p[0], want)
	}
}

func TestMaxGap(t *testing.T) {
	tf := MakeTransforms([2]float32{800, 600}, 15000)
	if got := tf.MaxGapPx(); got != 36 {
		t.Errorf("max gap %g, want 36", got)
	}
	// Small viewports hit the floor.
	tf = MakeTransforms([2]float32{200, 200}, 15000)
	if got := tf.MaxGapPx(); got != 20 {
		t.Errorf("max gap %g, want 20", got)
	}
}

func TestBuildSegments(t *testing.T) {
	// Empty input, empty output.
	if segs := BuildSegments(nil, 10); len(segs) != 0 {
		t.Errorf("empty input gave %d segments", len(segs))
	}

	pts := [][2]float32{{0, 0}, {5, 0}, {10, 0}, {100, 0}, {105, 0}}
	segs := BuildSegments(pts, 10)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if len(segs[0]) != 3 || len(segs[1]) != 2 {
		t.Errorf("segment lengths %d, %d; want 3, 2", len(segs[0]), len(segs[1]))
	}

	// Within a segment, consecutive points are within the gap threshold.
	for _, seg := range segs {
		for i := 1; i < len(seg); i++ {
			if math.Distance2f(seg[i-1], seg[i]) > 10 {
				t.Errorf("gap inside a segment")
			}
		}
	}

	// A single far-flung point still yields a one-point segment.
	segs = BuildSegments([][2]float32{{0, 0}, {1000, 0}, {2000, 0}}, 10)
	if len(segs) != 3 {
		t.Errorf("got %d segments, want 3", len(segs))
	}
	for _, seg := range segs {
		if len(seg) == 0 {
			t.Errorf("empty segment")
		}
	}
}

// Scenario: a circular orbit is one continuous segment, and the perigee
// coincides with the nu=0 anomaly point.
func TestSceneCircular(t *testing.T) {
	op := orbit.OrbitalParameters{
		Eccentricity:      0,
		SemiLatusRectumKm: 10000,
		StartAnomalyDeg:   0,
		EndAnomalyDeg:     90,
		FocusRangeKm:      15000,
	}
	s := BuildScene(op, [2]float32{800, 800}, Options{})

	if len(s.Segments) != 1 {
		t.Fatalf("circular orbit built %d segments, want 1", len(s.Segments))
	}

	// Every trajectory point sits at radius p from the center.
	tf := MakeTransforms([2]float32{800, 800}, 15000)
	center := tf.WindowFromWorld([2]float32{0, 0})
	wantR := 10000 * tf.PixelsPerKm()
	for _, p := range s.Segments[0] {
		if r := math.Distance2f(p, center); math.Abs(r-wantR) > 1 {
			t.Fatalf("trajectory point at radius %g px, want %g", r, wantR)
		}
	}

	if !s.Perigee.Valid || !s.StartMarker.Valid {
		t.Fatalf("perigee/start marker invalid")
	}
	if math.Distance2f(s.Perigee.P, s.StartMarker.P) > 1e-2 {
		t.Errorf("perigee %v does not coincide with the nu=0 marker %v",
			s.Perigee.P, s.StartMarker.P)
	}
}

// Scenario: the default hyperbolic flyby renders as two branch arcs, with
// both anomaly points valid.
func TestSceneHyperbolic(t *testing.T) {
	s := BuildScene(orbit.DefaultParameters(), [2]float32{800, 600}, Options{})

	// The gap threshold must split the trajectory: the near branch and
	// the opposite-branch tails sampled past the asymptotes can never be
	// one continuous polyline.
	if len(s.Segments) < 2 {
		t.Fatalf("hyperbola rendered as %d segment(s); branches must be disjoint", len(s.Segments))
	}
	longest := 0
	for _, seg := range s.Segments {
		longest = max(longest, len(seg))
	}
	if longest < 100 {
		t.Errorf("longest segment has %d points; the near branch should dominate", longest)
	}

	// Segment contents respect the gap threshold.
	tf := MakeTransforms([2]float32{800, 600}, 15000)
	for _, seg := range s.Segments {
		for i := 1; i < len(seg); i++ {
			if math.Distance2f(seg[i-1], seg[i]) > tf.MaxGapPx() {
				t.Fatalf("points %g apart inside one segment", math.Distance2f(seg[i-1], seg[i]))
			}
		}
	}

	if !s.StartMarker.Valid || !s.EndMarker.Valid {
		t.Errorf("anomaly markers should both be valid")
	}
	if !s.StartVelocity.Valid || !s.EndVelocity.Valid {
		t.Errorf("velocity vectors should both be valid")
	}
	if !s.SweepArc.Valid {
		t.Errorf("sweep arc should be valid")
	}
	if s.SweepLabel.Text != "120°" {
		// 48.61 - (-71.39) = 120 for the default parameters.
		t.Errorf("sweep label %q, want 120°", s.SweepLabel.Text)
	}
}

// Scenario: extreme eccentricity clips most samples but perigee and apse
// line still come out.
func TestSceneExtreme(t *testing.T) {
	op := orbit.OrbitalParameters{
		Eccentricity:      3,
		SemiLatusRectumKm: 1000,
		StartAnomalyDeg:   0,
		EndAnomalyDeg:     45,
	}
	s := BuildScene(op, [2]float32{800, 600}, Options{})

	if !s.Perigee.Valid {
		t.Errorf("perigee should be valid")
	}
	if !s.ApseLine.Valid {
		t.Errorf("apse line should be valid")
	}
	if len(s.Segments) == 0 {
		t.Errorf("no trajectory segments")
	}
}

// Scenario: two samples yield the two sweep endpoints.
func TestSceneTwoSamples(t *testing.T) {
	op := orbit.OrbitalParameters{
		Eccentricity:      0,
		SemiLatusRectumKm: 10000,
		SampleCount:       2,
	}
	s := BuildScene(op, [2]float32{800, 600}, Options{})

	n := 0
	for _, seg := range s.Segments {
		n += len(seg)
	}
	if n != 2 {
		t.Fatalf("%d trajectory points, want 2", n)
	}
	if len(s.Segments) > 2 {
		t.Errorf("%d segments for two points", len(s.Segments))
	}
}

func TestSceneValidityPropagation(t *testing.T) {
	// Start anomaly at the hyperbolic asymptote: its radius blows up
	// past the clip threshold, so everything that depends on it must be
	// suppressed.
	op := orbit.OrbitalParameters{
		Eccentricity:      3,
		SemiLatusRectumKm: 1000,
		StartAnomalyDeg:   109.47,
		EndAnomalyDeg:     0,
	}
	s := BuildScene(op, [2]float32{800, 600}, Options{})

	if s.StartMarker.Valid {
		t.Errorf("marker at the asymptote should be invalid")
	}
	if s.StartVelocity.Valid {
		t.Errorf("velocity vector for an invalid marker should be invalid")
	}
	if s.SweepArc.Valid || s.SweepLabel.Valid {
		t.Errorf("sweep arc needs both anomaly points")
	}

	// The other anomaly is unaffected.
	if !s.EndMarker.Valid || !s.EndVelocity.Valid {
		t.Errorf("valid anomaly point suppressed")
	}
}

func TestSceneIdempotent(t *testing.T) {
	op := orbit.DefaultParameters()
	a := BuildScene(op, [2]float32{640, 480}, Options{})
	b := BuildScene(op, [2]float32{640, 480}, Options{})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs gave different scenes")
	}
}

func TestFixedSweepLabel(t *testing.T) {
	op := orbit.DefaultParameters()
	op.StartAnomalyDeg, op.EndAnomalyDeg = -10, 35

	s := BuildScene(op, [2]float32{800, 600}, Options{})
	if s.SweepLabel.Text != "45°" {
		t.Errorf("computed sweep label %q, want 45°", s.SweepLabel.Text)
	}

	s = BuildScene(op, [2]float32{800, 600}, Options{FixedSweepLabel: true})
	if s.SweepLabel.Text != "120°" {
		t.Errorf("fixed sweep label %q, want 120°", s.SweepLabel.Text)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := BuildScene(orbit.DefaultParameters(), [2]float32{800, 600}, Options{})

	var buf bytes.Buffer
	if err := EncodeScene(&buf, s); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeScene(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, got) {
		t.Errorf("scene did not survive the snapshot round trip")
	}
}

func TestSnapshotFile(t *testing.T) {
	s := BuildScene(orbit.DefaultParameters(), [2]float32{800, 600}, Options{})

	path := t.TempDir() + "/scene.ovs"
	if err := WriteScene(path, s); err != nil {
		t.Fatal(err)
	}
	got, err := ReadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, got) {
		t.Errorf("scene did not survive the snapshot file round trip")
	}
}

func TestGenerateCommands(t *testing.T) {
	s := BuildScene(orbit.DefaultParameters(), [2]float32{800, 600}, Options{})

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	s.GenerateCommands(cb)
	if len(cb.Buf) == 0 {
		t.Fatalf("no commands generated")
	}

	// The command stream should render cleanly through the SVG backend
	// with both line and triangle content.
	var sb bytes.Buffer
	r, err := renderer.NewSVGRenderer(&sb, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Dispose()

	stats := r.RenderCommandBuffer(cb)
	if s := stats.String(); s == "" {
		t.Errorf("empty stats")
	}
	if !bytes.Contains(sb.Bytes(), []byte("<line")) {
		t.Errorf("no lines in rendered SVG")
	}
	if !bytes.Contains(sb.Bytes(), []byte("<polygon")) {
		t.Errorf("no marker fills in rendered SVG")
	}
}

func TestRenderConcurrent(t *testing.T) {
	// Batch mode builds and renders scenes from multiple goroutines;
	// the whole build-encode-render path must be safe to run in
	// parallel.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := BuildScene(orbit.DefaultParameters(), [2]float32{800, 600}, Options{})

			cb := renderer.GetCommandBuffer()
			defer renderer.ReturnCommandBuffer(cb)
			s.GenerateCommands(cb)

			var sb bytes.Buffer
			r, err := renderer.NewSVGRenderer(&sb, 800, 600)
			if err != nil {
				t.Error(err)
				return
			}
			defer r.Dispose()
			if stats := r.RenderCommandBuffer(cb); sb.Len() == 0 {
				t.Errorf("empty SVG output (%s)", stats.String())
			}
		}()
	}
	wg.Wait()
}
