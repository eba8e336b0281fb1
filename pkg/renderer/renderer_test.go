// pkg/renderer/renderer_test.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	gomath "math"
	"strings"
	"testing"

	"github.com/orbview/orbview/pkg/math"
)

func TestCommandBufferBufferOffsets(t *testing.T) {
	var cb CommandBuffer

	p := [][2]float32{{0, 1}, {2, 3}, {4, 5}}
	offset := cb.Float2Buffer(p)
	if offset%4 != 0 {
		t.Errorf("buffer offset %d is not 32-bit aligned", offset)
	}

	// The returned offset should point at the first float of the first
	// vertex.
	idx := offset / 4
	for i, want := range []float32{0, 1, 2, 3, 4, 5} {
		if got := gomath.Float32frombits(cb.Buf[idx+i]); got != want {
			t.Errorf("buffer value %d: got %g, want %g", i, got, want)
		}
	}

	ind := cb.IntBuffer([]int32{0, 1, 2})
	iidx := ind / 4
	for i, want := range []int32{0, 1, 2} {
		if got := int32(cb.Buf[iidx+i]); got != want {
			t.Errorf("index value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestCommandBufferMatrixLayout(t *testing.T) {
	var cb CommandBuffer
	m := math.Identity3x3().Translate(3, 5)
	cb.LoadProjectionMatrix(m)

	if cb.Buf[0] != RendererLoadProjectionMatrix {
		t.Fatalf("expected LoadProjectionMatrix command, got %d", cb.Buf[0])
	}
	f := func(i int) float32 { return gomath.Float32frombits(cb.Buf[1+i]) }

	// Column-major 4x4: the translation lands in the last column.
	if f(12) != 3 || f(13) != 5 {
		t.Errorf("translation stored at (%g, %g), want (3, 5)", f(12), f(13))
	}
	if f(0) != 1 || f(5) != 1 || f(10) != 1 || f(15) != 1 {
		t.Errorf("diagonal not identity")
	}
}

func TestLinesDrawBuilder(t *testing.T) {
	ld := GetLinesDrawBuilder()
	defer ReturnLinesDrawBuilder(ld)

	ld.AddLine([2]float32{0, 0}, [2]float32{1, 0})
	ld.AddLineStrip([][2]float32{{0, 0}, {1, 1}, {2, 0}})
	if n := len(ld.indices); n != 2+4 {
		t.Errorf("got %d indices, expected 6", n)
	}

	b := ld.Bounds()
	if b.P0 != [2]float32{0, 0} || b.P1 != [2]float32{2, 1} {
		t.Errorf("bounds %+v unexpected", b)
	}

	var cb CommandBuffer
	ld.GenerateCommands(&cb)
	if len(cb.Buf) == 0 {
		t.Errorf("no commands generated")
	}
}

func TestAddDashedLine(t *testing.T) {
	var ld LinesDrawBuilder
	ld.AddDashedLine([2]float32{0, 0}, [2]float32{100, 0}, 10)

	// 10 dash-length spans alternate on/off, so 5 drawn segments.
	if n := len(ld.indices) / 2; n != 5 {
		t.Errorf("got %d dashes, expected 5", n)
	}

	// Dashes all lie on the source segment.
	for _, p := range ld.p {
		if p[1] != 0 || p[0] < 0 || p[0] > 100 {
			t.Errorf("dash point %v off the line", p)
		}
	}

	// Degenerate line adds nothing.
	ld.Reset()
	ld.AddDashedLine([2]float32{1, 1}, [2]float32{1, 1}, 10)
	if len(ld.indices) != 0 {
		t.Errorf("degenerate dashed line added %d indices", len(ld.indices))
	}
}

func TestAddArc(t *testing.T) {
	var ld LinesDrawBuilder
	center := [2]float32{10, 20}
	ld.AddArc(center, 5, 0, math.Pi()/2, 16)

	if n := len(ld.indices) / 2; n != 16 {
		t.Errorf("got %d segments, expected 16", n)
	}
	for _, p := range ld.p {
		if r := math.Distance2f(p, center); math.Abs(r-5) > 1e-3 {
			t.Errorf("arc point %v at radius %g, expected 5", p, r)
		}
	}

	// Endpoints at the arc's angular limits.
	first, last := ld.p[0], ld.p[len(ld.p)-1]
	if math.Distance2f(first, [2]float32{15, 20}) > 1e-3 {
		t.Errorf("arc start %v, expected (15, 20)", first)
	}
	if math.Distance2f(last, [2]float32{10, 25}) > 1e-3 {
		t.Errorf("arc end %v, expected (10, 25)", last)
	}
}

func TestAddNumber(t *testing.T) {
	var ld LinesDrawBuilder
	ld.AddNumber([2]float32{0, 0}, 2, "-12.5°")
	if len(ld.indices) == 0 {
		t.Fatalf("no lines generated for label")
	}

	// Glyphs extend up and to the right of the baseline point in
	// window coordinates (y down).
	b := ld.Bounds()
	if b.P0[1] < -4.01 || b.P1[1] > 0.01 {
		t.Errorf("label extends below the baseline: %+v", b)
	}
	if b.P0[0] < -0.01 {
		t.Errorf("label extends left of the start point: %+v", b)
	}
}

func TestColoredLinesDrawBuilder(t *testing.T) {
	cld := GetColoredLinesDrawBuilder()
	defer ReturnColoredLinesDrawBuilder(cld)

	red := RGB{R: 1}
	cld.AddLine([2]float32{0, 0}, [2]float32{1, 1}, red)
	cld.AddCircle([2]float32{5, 5}, 2, 8, RGB{G: 1})

	if len(cld.color) != len(cld.p) {
		t.Errorf("%d colors for %d vertices", len(cld.color), len(cld.p))
	}

	var cb CommandBuffer
	cld.GenerateCommands(&cb)
	if len(cb.Buf) == 0 {
		t.Errorf("no commands generated")
	}
}

func TestTrianglesDrawBuilder(t *testing.T) {
	td := GetTrianglesDrawBuilder()
	defer ReturnTrianglesDrawBuilder(td)

	td.AddQuad([2]float32{0, 0}, [2]float32{1, 0}, [2]float32{1, 1}, [2]float32{0, 1})
	if len(td.indices) != 6 {
		t.Errorf("quad generated %d indices, expected 6", len(td.indices))
	}
	td.AddCircle([2]float32{0, 0}, 1, 10)
	if len(td.indices) != 6+30 {
		t.Errorf("circle generated %d indices, expected 30", len(td.indices)-6)
	}
}

func TestSVGRendererLine(t *testing.T) {
	var sb strings.Builder
	r, err := NewSVGRenderer(&sb, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Dispose()

	// Window coordinates with y down, like the scope transformations
	// produce.
	proj := math.Identity3x3().Ortho(0, 100, 100, 0)

	var ld LinesDrawBuilder
	ld.AddLine([2]float32{10, 10}, [2]float32{90, 90})

	cb := GetCommandBuffer()
	defer ReturnCommandBuffer(cb)
	cb.ClearRGB(RGB{})
	cb.LoadProjectionMatrix(proj)
	cb.LoadModelViewMatrix(math.Identity3x3())
	cb.SetRGB(RGB{R: 1})
	cb.LineWidth(2, 1)
	ld.GenerateCommands(cb)

	stats := r.RenderCommandBuffer(cb)
	if stats.nLines != 1 {
		t.Errorf("stats report %d lines, expected 1", stats.nLines)
	}

	out := sb.String()
	if !strings.Contains(out, "<line") {
		t.Errorf("no line element in SVG output:\n%s", out)
	}
	if !strings.Contains(out, "rgb(255,0,0)") {
		t.Errorf("line color missing from SVG output:\n%s", out)
	}
	// (10, 10) in a y-down 100x100 window maps straight through.
	if !strings.Contains(out, "x1=\"10\"") || !strings.Contains(out, "y1=\"10\"") {
		t.Errorf("line endpoint not at expected position:\n%s", out)
	}
}

func TestSVGRendererCallBuffer(t *testing.T) {
	var sb strings.Builder
	r, err := NewSVGRenderer(&sb, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Dispose()

	var sub CommandBuffer
	sub.LoadProjectionMatrix(math.Identity3x3().Ortho(0, 64, 64, 0))
	sub.SetRGB(RGB{G: 1})
	var ld LinesDrawBuilder
	ld.AddLine([2]float32{0, 0}, [2]float32{64, 64})
	ld.GenerateCommands(&sub)

	var cb CommandBuffer
	cb.Call(sub)

	stats := r.RenderCommandBuffer(&cb)
	if stats.nLines != 1 {
		t.Errorf("stats report %d lines, expected 1", stats.nLines)
	}
	if stats.nBuffers != 2 {
		t.Errorf("stats report %d buffers, expected 2", stats.nBuffers)
	}
}
