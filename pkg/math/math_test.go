// pkg/math/math_test.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"sync"
	"testing"
)

func TestWrapDegrees(t *testing.T) {
	cases := []struct {
		in, want float32
	}{
		{0, 0},
		{90, 90},
		{180, -180},
		{-180, -180},
		{270, -90},
		{-270, 90},
		{360, 0},
		{540, -180},
		{-359, 1},
		{719, -1},
	}
	for _, c := range cases {
		if got := WrapDegrees(c.in); Abs(got-c.want) > 1e-4 {
			t.Errorf("WrapDegrees(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) || !IsFinite(0) || !IsFinite(-1e30) {
		t.Errorf("finite values reported as non-finite")
	}
	inf := float32(gomath.Inf(1))
	nan := float32(gomath.NaN())
	if IsFinite(inf) || IsFinite(-inf) || IsFinite(nan) {
		t.Errorf("non-finite values reported as finite")
	}
	if IsFinite2f([2]float32{1, inf}) || IsFinite2f([2]float32{nan, 0}) {
		t.Errorf("IsFinite2f missed a non-finite component")
	}
}

func TestMatrix3Inverse(t *testing.T) {
	m := Identity3x3().
		Ortho(0, 640, 480, 0).
		Scale(2.5, -2.5).
		Translate(-17, 42)
	mi := m.Inverse()

	pts := [][2]float32{{0, 0}, {1, 1}, {-5, 12}, {320, 240}}
	for _, p := range pts {
		q := mi.TransformPoint(m.TransformPoint(p))
		if Abs(q[0]-p[0]) > 1e-2 || Abs(q[1]-p[1]) > 1e-2 {
			t.Errorf("inverse round trip %v -> %v", p, q)
		}
	}
}

func TestMatrix3Ortho(t *testing.T) {
	// Window coordinates with y down map to NDC with y up.
	m := Identity3x3().Ortho(0, 800, 600, 0)
	checks := []struct {
		p, want [2]float32
	}{
		{[2]float32{0, 600}, [2]float32{-1, -1}},
		{[2]float32{800, 0}, [2]float32{1, 1}},
		{[2]float32{400, 300}, [2]float32{0, 0}},
	}
	for _, c := range checks {
		got := m.TransformPoint(c.p)
		if Abs(got[0]-c.want[0]) > 1e-5 || Abs(got[1]-c.want[1]) > 1e-5 {
			t.Errorf("Ortho transform of %v: got %v, want %v", c.p, got, c.want)
		}
	}
}

func TestExtent2D(t *testing.T) {
	e := Extent2DFromPoints([][2]float32{{1, 2}, {-3, 5}, {4, -1}})
	if e.P0 != [2]float32{-3, -1} || e.P1 != [2]float32{4, 5} {
		t.Errorf("Extent2DFromPoints: got %+v", e)
	}
	if e.Width() != 7 || e.Height() != 6 {
		t.Errorf("extent dimensions: %g x %g", e.Width(), e.Height())
	}
	if !e.Inside([2]float32{0, 0}) || e.Inside([2]float32{10, 0}) {
		t.Errorf("Inside misclassified a point")
	}
}

func TestCirclePoints(t *testing.T) {
	pts := CirclePoints(64)
	if len(pts) != 64 {
		t.Fatalf("expected 64 points, got %d", len(pts))
	}
	for _, p := range pts {
		if Abs(Length2f(p)-1) > 1e-5 {
			t.Errorf("circle point %v not on unit circle", p)
		}
	}
}

func TestCirclePointsConcurrent(t *testing.T) {
	// Batch rendering evaluates circles from multiple goroutines at
	// once, so the tessellation cache must tolerate concurrent first
	// use. (Best checked with the race detector enabled.)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, nsegs := range []int{20, 30, 40} {
				if pts := CirclePoints(nsegs); len(pts) != nsegs {
					t.Errorf("expected %d points, got %d", nsegs, len(pts))
				}
			}
		}()
	}
	wg.Wait()
}
