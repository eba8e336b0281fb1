// pkg/renderer/builders.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"sync"

	"github.com/orbview/orbview/pkg/math"
)

///////////////////////////////////////////////////////////////////////////
// DrawBuilders

// The various *DrawBuilder classes provide capabilities for specifying a
// number of independent things of the same type to draw and then
// generating corresponding buffer storage and draw commands in a
// CommandBuffer. This allows batching up many things to be drawn all in a
// single draw command, with corresponding performance benefits.

// LinesDrawBuilder accumulates lines to be drawn together. Note that it does
// not allow specifying the colors of the lines; instead, whatever the current
// color is (as set via the CommandBuffer SetRGB method) is used when drawing
// them. If per-line colors are required, the ColoredLinesDrawBuilder should be
// used instead.
type LinesDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

// Reset resets the internal arrays used for accumulating lines,
// maintaining the initial allocations.
func (l *LinesDrawBuilder) Reset() {
	l.p = l.p[:0]
	l.indices = l.indices[:0]
}

// AddLine adds a line with the specified vertex positions to the set of
// lines to be drawn.
func (l *LinesDrawBuilder) AddLine(p0, p1 [2]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p0, p1)
	l.indices = append(l.indices, idx, idx+1)
}

// AddLineStrip adds multiple lines to the lines draw builder where each
// line is given by a successive pair of points, a la GL_LINE_STRIP.
func (l *LinesDrawBuilder) AddLineStrip(p [][2]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p...)
	for i := 0; i < len(p)-1; i++ {
		l.indices = append(l.indices, idx+int32(i), idx+int32(i+1))
	}
}

// Adds a line loop, like a line strip but where the last vertex connects
// to the first, a la GL_LINE_LOOP.
func (l *LinesDrawBuilder) AddLineLoop(p [][2]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p...)
	for i := range p {
		l.indices = append(l.indices, idx+int32(i), idx+int32((i+1)%len(p)))
	}
}

// AddDashedLine adds a sequence of short lines that draw the line from p0
// to p1 dashed, with dashes (and the gaps between them) of the given
// length.
func (l *LinesDrawBuilder) AddDashedLine(p0, p1 [2]float32, dashLen float32) {
	d := math.Sub2f(p1, p0)
	length := math.Length2f(d)
	if length == 0 || dashLen <= 0 {
		return
	}

	ndash := int(math.Ceil(length / dashLen))
	for i := 0; i < ndash; i += 2 {
		t0 := float32(i) / float32(ndash)
		t1 := min(float32(i+1)/float32(ndash), 1)
		l.AddLine(math.Lerp2f(t0, p0, p1), math.Lerp2f(t1, p0, p1))
	}
}

// AddCircle adds lines that draw the outline of a circle with specified
// radius centered at the specified point p. The nsegs parameter
// specifies the tessellation rate for the circle.
func (l *LinesDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int) {
	circle := math.CirclePoints(nsegs)

	idx := int32(len(l.p))
	for i := 0; i < nsegs; i++ {
		// Translate the points to be centered around the point p with the
		// given radius and add them to the vertex buffer.
		pi := [2]float32{p[0] + radius*circle[i][0], p[1] + radius*circle[i][1]}
		l.p = append(l.p, pi)
	}
	for i := 0; i < nsegs; i++ {
		// Initialize the index buffer; note that the first vertex is
		// reused as the endpoint of the last line segment.
		l.indices = append(l.indices, idx+int32(i), idx+int32((i+1)%nsegs))
	}
}

// AddArc adds lines that draw the arc of a circle centered at p with the
// given radius, from angle a0 to angle a1 (radians, measured from +x
// toward +y). The arc is tessellated into nsegs lines.
func (l *LinesDrawBuilder) AddArc(p [2]float32, radius float32, a0, a1 float32, nsegs int) {
	if nsegs < 1 {
		nsegs = 1
	}

	pt := func(i int) [2]float32 {
		a := math.Lerp(float32(i)/float32(nsegs), a0, a1)
		return math.Add2f(p, math.Scale2f(math.SinCos2f(a), radius))
	}
	for i := 0; i < nsegs; i++ {
		l.AddLine(pt(i), pt(i+1))
	}
}

// Draws a number using digits drawn with lines. This can be helpful in
// cases like drawing a label on a plot where we want the glyph size to
// track the scale of everything else that is drawn. p gives the
// lower-left corner of the text in coordinates where y increases going
// down the screen. Beyond the digits, '-', '.', and the degree sign are
// available; unsupported characters are drawn as an x.
func (l *LinesDrawBuilder) AddNumber(p [2]float32, sz float32, v string) {
	// digit -> slice of line segments
	coords := [][][2][2]float32{
		{{{0, 2}, {2, 2}}, {{2, 2}, {2, 0}}, {{2, 0}, {0, 0}}, {{0, 0}, {0, 2}}},
		{{{1, 2}, {1, 0}}, {{1, 2}, {0.5, 1.5}}},
		{{{0, 2}, {2, 2}}, {{2, 2}, {2, 1}}, {{2, 1}, {0, 1}}, {{0, 1}, {0, 0}}, {{0, 0}, {2, 0}}},
		{{{0, 2}, {2, 2}}, {{2, 2}, {2, 0}}, {{2, 0}, {0, 0}}, {{1, 1}, {2, 1}}},
		{{{0, 1}, {2, 1}}, {{2, 2}, {2, 0}}, {{0, 2}, {0, 1}}},
		{{{2, 2}, {0, 2}}, {{0, 2}, {0, 1}}, {{0, 1}, {2, 1}}, {{2, 1}, {2, 0}}, {{2, 0}, {0, 0}}},
		{{{0, 0}, {2, 0}}, {{2, 0}, {2, 1}}, {{2, 1}, {0, 1}}, {{0, 0}, {0, 2}}, {{0, 2}, {1, 2}}},
		{{{0, 2}, {2, 2}}, {{2, 2}, {1, 0}}},
		{{{0, 2}, {2, 2}}, {{2, 2}, {2, 1}}, {{2, 1}, {0, 1}}, {{0, 1}, {0, 2}}, {{0, 1}, {2, 1}}, {{2, 1}, {2, 0}}, {{2, 0}, {0, 0}}, {{0, 0}, {0, 1}}},
		{{{1, 0}, {2, 0}}, {{2, 0}, {2, 2}}, {{2, 2}, {0, 2}}, {{0, 2}, {0, 1}}, {{0, 1}, {2, 1}}},
	}
	minus := [][2][2]float32{{{0, 1}, {1.5, 1}}}
	dot := [][2][2]float32{{{0.75, 0.25}, {1.25, 0.25}}, {{1.25, 0.25}, {1.25, 0}}, {{1.25, 0}, {0.75, 0}}, {{0.75, 0}, {0.75, 0.25}}}
	degree := [][2][2]float32{{{0.5, 2}, {1.5, 2}}, {{1.5, 2}, {1.5, 1.25}}, {{1.5, 1.25}, {0.5, 1.25}}, {{0.5, 1.25}, {0.5, 2}}}

	addSegs := func(segs [][2][2]float32) {
		for _, seg := range segs {
			// Flip y so that the glyphs extend up from the baseline in
			// window coordinates.
			p0 := math.Add2f(p, [2]float32{seg[0][0] * sz, -seg[0][1] * sz})
			p1 := math.Add2f(p, [2]float32{seg[1][0] * sz, -seg[1][1] * sz})
			l.AddLine(p0, p1)
		}
	}

	for _, ch := range v {
		switch {
		case ch >= '0' && ch <= '9':
			addSegs(coords[ch-'0'])
		case ch == '-':
			addSegs(minus)
		case ch == '.':
			addSegs(dot)
		case ch == '°':
			addSegs(degree)
		default:
			// draw an x
			l.AddLine(p, math.Add2f(p, [2]float32{2 * sz, -2 * sz}))
			l.AddLine(math.Add2f(p, [2]float32{2 * sz, 0}), math.Add2f(p, [2]float32{0, -2 * sz}))
		}
		p[0] += 2.5 * sz
	}
}

// Bounds returns the 2D bounding box of the specified lines.
func (l *LinesDrawBuilder) Bounds() math.Extent2D {
	return math.Extent2DFromPoints(l.p)
}

// GenerateCommands adds commands to the specified command buffer to draw
// the lines stored in the LinesDrawBuilder.
func (l *LinesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(l.indices) == 0 {
		return
	}

	// Add the vertex positions to the command buffer.
	p := cb.Float2Buffer(l.p)
	cb.VertexArray(p, 2, 2*4)

	// Add the vertex indices and issue the draw command.
	ind := cb.IntBuffer(l.indices)
	cb.DrawLines(ind, len(l.indices))

	// Clean up
	cb.DisableVertexArray()
}

// LinesDrawBuilders are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var linesDrawBuilderPool = sync.Pool{New: func() any { return &LinesDrawBuilder{} }}

func GetLinesDrawBuilder() *LinesDrawBuilder {
	return linesDrawBuilderPool.Get().(*LinesDrawBuilder)
}

func ReturnLinesDrawBuilder(ld *LinesDrawBuilder) {
	ld.Reset()
	linesDrawBuilderPool.Put(ld)
}

// ColoredLinesDrawBuilder is similar to the LinesDrawBuilder though it
// allows specifying the color of each line individually.  Its methods
// otherwise mostly parallel those of LinesDrawBuilder; see the
// documentation there.
type ColoredLinesDrawBuilder struct {
	LinesDrawBuilder
	color []RGB
}

func (l *ColoredLinesDrawBuilder) Reset() {
	l.LinesDrawBuilder.Reset()
	l.color = l.color[:0]
}

func (l *ColoredLinesDrawBuilder) AddLine(p0, p1 [2]float32, color RGB) {
	l.LinesDrawBuilder.AddLine(p0, p1)
	l.color = append(l.color, color, color)
}

func (l *ColoredLinesDrawBuilder) AddLineStrip(color RGB, p [][2]float32) {
	l.LinesDrawBuilder.AddLineStrip(p)
	for range p {
		l.color = append(l.color, color)
	}
}

func (l *ColoredLinesDrawBuilder) AddDashedLine(p0, p1 [2]float32, dashLen float32, color RGB) {
	n := len(l.LinesDrawBuilder.p)
	l.LinesDrawBuilder.AddDashedLine(p0, p1, dashLen)
	for ; n < len(l.LinesDrawBuilder.p); n++ {
		l.color = append(l.color, color)
	}
}

// AddCircle adds lines that draw the outline of a circle with specified
// radius and color centered at the specified point p. The nsegs parameter
// specifies the tessellation rate for the circle.
func (l *ColoredLinesDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int, color RGB) {
	l.LinesDrawBuilder.AddCircle(p, radius, nsegs)

	for i := 0; i < nsegs; i++ {
		l.color = append(l.color, color)
	}
}

func (l *ColoredLinesDrawBuilder) AddArc(p [2]float32, radius float32, a0, a1 float32, nsegs int, color RGB) {
	n := len(l.LinesDrawBuilder.p)
	l.LinesDrawBuilder.AddArc(p, radius, a0, a1, nsegs)
	for ; n < len(l.LinesDrawBuilder.p); n++ {
		l.color = append(l.color, color)
	}
}

func (l *ColoredLinesDrawBuilder) AddNumber(p [2]float32, sz float32, v string, color RGB) {
	n := len(l.LinesDrawBuilder.p)
	l.LinesDrawBuilder.AddNumber(p, sz, v)
	for ; n < len(l.LinesDrawBuilder.p); n++ {
		l.color = append(l.color, color)
	}
}

func (l *ColoredLinesDrawBuilder) GenerateCommands(cb *CommandBuffer) (int, int) {
	if len(l.indices) == 0 {
		return 0, 0
	}

	rgb := cb.RGBBuffer(l.color)
	cb.RGB32Array(rgb, 3, 3*4)

	l.LinesDrawBuilder.GenerateCommands(cb)

	cb.DisableColorArray()

	return rgb, 3 * len(l.color)
}

// ColoredLinesDrawBuilders are managed using a sync.Pool so that their buf
// slice allocations persist across multiple uses.
var coloredLinesDrawBuilderPool = sync.Pool{New: func() any { return &ColoredLinesDrawBuilder{} }}

func GetColoredLinesDrawBuilder() *ColoredLinesDrawBuilder {
	return coloredLinesDrawBuilderPool.Get().(*ColoredLinesDrawBuilder)
}

func ReturnColoredLinesDrawBuilder(ld *ColoredLinesDrawBuilder) {
	ld.Reset()
	coloredLinesDrawBuilderPool.Put(ld)
}

// TrianglesDrawBuilder collects triangles to be batched up in a single
// draw call. Note that it does not allow specifying per-vertex or
// per-triangle color; rather, the current color as specified by a call to
// the CommandBuffer SetRGB method is used for all triangles.
type TrianglesDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

func (t *TrianglesDrawBuilder) Reset() {
	t.p = t.p[:0]
	t.indices = t.indices[:0]
}

// AddTriangle adds a triangle with the specified three vertices to be
// drawn.
func (t *TrianglesDrawBuilder) AddTriangle(p0, p1, p2 [2]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2)
	t.indices = append(t.indices, idx, idx+1, idx+2)
}

// AddQuad adds a quadrilateral with the specified four vertices to be
// drawn; the quad is split into two triangles for drawing.
func (t *TrianglesDrawBuilder) AddQuad(p0, p1, p2, p3 [2]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2, p3)
	t.indices = append(t.indices, idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddCircle adds a filled circle with specified radius around the
// specified position to be drawn using triangles. The specified number of
// segments, nsegs, sets the tessellation rate for the circle.
func (t *TrianglesDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int) {
	circle := math.CirclePoints(nsegs)

	idx := int32(len(t.p))
	t.p = append(t.p, p) // center point
	for i := 0; i < nsegs; i++ {
		pi := [2]float32{p[0] + radius*circle[i][0], p[1] + radius*circle[i][1]}
		t.p = append(t.p, pi)
	}
	for i := 0; i < nsegs; i++ {
		t.indices = append(t.indices, idx, idx+1+int32(i), idx+1+int32((i+1)%nsegs))
	}
}

func (t *TrianglesDrawBuilder) Bounds() math.Extent2D {
	return math.Extent2DFromPoints(t.p)
}

func (t *TrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	p := cb.Float2Buffer(t.p)
	cb.VertexArray(p, 2, 2*4)

	ind := cb.IntBuffer(t.indices)
	cb.DrawTriangles(ind, len(t.indices))

	cb.DisableVertexArray()
}

// TrianglesDrawBuilders are managed using a sync.Pool so that their buf
// slice allocations persist across multiple uses.
var trianglesDrawBuilderPool = sync.Pool{New: func() any { return &TrianglesDrawBuilder{} }}

func GetTrianglesDrawBuilder() *TrianglesDrawBuilder {
	return trianglesDrawBuilderPool.Get().(*TrianglesDrawBuilder)
}

func ReturnTrianglesDrawBuilder(td *TrianglesDrawBuilder) {
	td.Reset()
	trianglesDrawBuilderPool.Put(td)
}

// ColoredTrianglesDrawBuilder
type ColoredTrianglesDrawBuilder struct {
	TrianglesDrawBuilder
	color []RGB
}

func (t *ColoredTrianglesDrawBuilder) Reset() {
	t.TrianglesDrawBuilder.Reset()
	t.color = t.color[:0]
}

// AddTriangle adds a triangle with the specified three vertices to be
// drawn.
func (t *ColoredTrianglesDrawBuilder) AddTriangle(p0, p1, p2 [2]float32, rgb RGB) {
	t.TrianglesDrawBuilder.AddTriangle(p0, p1, p2)
	t.color = append(t.color, rgb, rgb, rgb)
}

// AddQuad adds a quadrilateral with the specified four vertices to be
// drawn; the quad is split into two triangles for drawing.
func (t *ColoredTrianglesDrawBuilder) AddQuad(p0, p1, p2, p3 [2]float32, rgb RGB) {
	t.TrianglesDrawBuilder.AddQuad(p0, p1, p2, p3)
	t.color = append(t.color, rgb, rgb, rgb, rgb)
}

// AddCircle adds a filled circle with specified radius around the
// specified position to be drawn using triangles. The specified number of
// segments, nsegs, sets the tessellation rate for the circle.
func (t *ColoredTrianglesDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int, rgb RGB) {
	t.TrianglesDrawBuilder.AddCircle(p, radius, nsegs)
	for i := 0; i < nsegs; i++ {
		t.color = append(t.color, rgb)
	}
	t.color = append(t.color, rgb) // center point
}

func (t *ColoredTrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	rgb := cb.RGBBuffer(t.color)
	cb.RGB32Array(rgb, 3, 3*4)

	t.TrianglesDrawBuilder.GenerateCommands(cb)

	cb.DisableColorArray()
}

// ColoredTrianglesDrawBuilders are managed using a sync.Pool so that their buf
// slice allocations persist across multiple uses.
var coloredTrianglesDrawBuilderPool = sync.Pool{New: func() any { return &ColoredTrianglesDrawBuilder{} }}

func GetColoredTrianglesDrawBuilder() *ColoredTrianglesDrawBuilder {
	return coloredTrianglesDrawBuilderPool.Get().(*ColoredTrianglesDrawBuilder)
}

func ReturnColoredTrianglesDrawBuilder(td *ColoredTrianglesDrawBuilder) {
	td.Reset()
	coloredTrianglesDrawBuilderPool.Put(td)
}
