// pkg/renderer/svg.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"io"
	gomath "math"

	svg "github.com/ajstarks/svgo"
)

// SVGRenderer implements the Renderer interface by interpreting command
// buffers and emitting a standalone SVG document for each one rendered.
// It is the backend used for file output; no GPU or display is required.
type SVGRenderer struct {
	w             io.Writer
	width, height int
}

// NewSVGRenderer returns an SVGRenderer that writes a width x height
// pixel SVG document to w when a command buffer is rendered.
func NewSVGRenderer(w io.Writer, width, height int) (*SVGRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: invalid SVG canvas size", width, height)
	}
	return &SVGRenderer{w: w, width: width, height: height}, nil
}

func (s *SVGRenderer) Dispose() {}

// drawState tracks the graphics state as a command buffer is interpreted;
// it persists across CallBuffer so that nested buffers inherit and may
// modify the caller's state, matching the behavior of GPU backends.
type drawState struct {
	projection [16]float32
	modelview  [16]float32
	color      RGBA
	lineWidth  float32

	// Buffer bindings are indices into the uint32 command buffer slice
	// along with the component count and stride, both in uint32s.
	vertexPtr arrayPtr
	colorPtr  arrayPtr
}

type arrayPtr struct {
	valid          bool
	base           int
	nComps, stride int
}

func identityState() drawState {
	s := drawState{color: RGBA{1, 1, 1, 1}, lineWidth: 1}
	for i := 0; i < 16; i += 5 {
		s.projection[i] = 1
		s.modelview[i] = 1
	}
	return s
}

func (s *SVGRenderer) RenderCommandBuffer(cb *CommandBuffer) RendererStats {
	canvas := svg.New(s.w)
	canvas.Start(s.width, s.height)

	state := identityState()
	stats := s.dispatch(canvas, cb, &state)

	canvas.End()
	return stats
}

func (s *SVGRenderer) dispatch(canvas *svg.SVG, cb *CommandBuffer, state *drawState) RendererStats {
	var stats RendererStats
	stats.nBuffers++
	stats.bufferBytes += 4 * len(cb.Buf)

	buf := cb.Buf
	getFloats := func(i, n int) []float32 {
		f := make([]float32, n)
		for j := 0; j < n; j++ {
			f[j] = gomath.Float32frombits(buf[i+j])
		}
		return f
	}

	// vertex returns the screen-space position of the index'th vertex in
	// the currently bound vertex array, after the modelview and
	// projection transformations and the NDC to pixel mapping, rounded
	// to SVG pixel coordinates. SVG has y increasing down the screen,
	// opposite OpenGL window coordinates.
	vertex := func(index int32) (int, int) {
		va := state.vertexPtr
		b := va.base + int(index)*va.stride
		x := gomath.Float32frombits(buf[b])
		y := gomath.Float32frombits(buf[b+1])

		mv, pr := &state.modelview, &state.projection
		wx := mv[0]*x + mv[4]*y + mv[12]
		wy := mv[1]*x + mv[5]*y + mv[13]
		ndcx := pr[0]*wx + pr[4]*wy + pr[12]
		ndcy := pr[1]*wx + pr[5]*wy + pr[13]

		return int(gomath.Round(float64((ndcx + 1) / 2 * float32(s.width)))),
			int(gomath.Round(float64((1 - ndcy) / 2 * float32(s.height))))
	}
	vertexColor := func(index int32) RGBA {
		if !state.colorPtr.valid {
			return state.color
		}
		b := state.colorPtr.base + int(index)*state.colorPtr.stride
		return RGBA{
			R: gomath.Float32frombits(buf[b]),
			G: gomath.Float32frombits(buf[b+1]),
			B: gomath.Float32frombits(buf[b+2]),
			A: 1,
		}
	}

	for i := 0; i < len(buf); {
		cmd := buf[i]
		switch cmd {
		case RendererLoadProjectionMatrix:
			copy(state.projection[:], getFloats(i+1, 16))
			i += 17

		case RendererLoadModelViewMatrix:
			copy(state.modelview[:], getFloats(i+1, 16))
			i += 17

		case RendererClearRGBA:
			f := getFloats(i+1, 4)
			canvas.Rect(0, 0, s.width, s.height,
				"fill:"+svgColor(RGBA{f[0], f[1], f[2], f[3]}))
			i += 5

		case RendererScissor, RendererViewport:
			// A single full-canvas viewport is assumed; these are
			// meaningful for windowed backends only.
			i += 5

		case RendererBlend, RendererDisableBlend:
			i++

		case RendererSetRGBA:
			f := getFloats(i+1, 4)
			state.color = RGBA{f[0], f[1], f[2], f[3]}
			i += 5

		case RendererFloatBuffer, RendererIntBuffer:
			i += 2 + int(buf[i+1])

		case RendererVertexArray:
			state.vertexPtr = arrayPtr{valid: true, base: int(buf[i+1]) / 4,
				nComps: int(buf[i+2]), stride: int(buf[i+3]) / 4}
			i += 4

		case RendererDisableVertexArray:
			state.vertexPtr = arrayPtr{}
			i++

		case RendererRGB32Array:
			state.colorPtr = arrayPtr{valid: true, base: int(buf[i+1]) / 4,
				nComps: int(buf[i+2]), stride: int(buf[i+3]) / 4}
			i += 4

		case RendererDisableColorArray:
			state.colorPtr = arrayPtr{}
			i++

		case RendererLineWidth:
			state.lineWidth = gomath.Float32frombits(buf[i+1])
			i += 2

		case RendererDrawLines:
			offset, count := int(buf[i+1])/4, int(buf[i+2])
			for j := 0; j < count; j += 2 {
				i0 := int32(buf[offset+j])
				i1 := int32(buf[offset+j+1])
				x0, y0 := vertex(i0)
				x1, y1 := vertex(i1)
				canvas.Line(x0, y0, x1, y1, lineStyle(vertexColor(i0), state.lineWidth))
			}
			stats.nDrawCalls++
			stats.nLines += count / 2
			i += 3

		case RendererDrawTriangles:
			offset, count := int(buf[i+1])/4, int(buf[i+2])
			for j := 0; j < count; j += 3 {
				i0 := int32(buf[offset+j])
				x0, y0 := vertex(i0)
				x1, y1 := vertex(int32(buf[offset+j+1]))
				x2, y2 := vertex(int32(buf[offset+j+2]))
				canvas.Polygon([]int{x0, x1, x2}, []int{y0, y1, y2},
					"fill:"+svgColor(vertexColor(i0)))
			}
			stats.nDrawCalls++
			stats.nTriangles += count / 3
			i += 3

		case RendererCallBuffer:
			stats.Merge(s.dispatch(canvas, &cb.called[buf[i+1]], state))
			i += 2

		case RendererResetState:
			c := state.color
			*state = identityState()
			state.color = c
			i++

		default:
			lg.Errorf("%d: unhandled command in command buffer", cmd)
			i++
		}
	}

	return stats
}

func svgColor(c RGBA) string {
	to255 := func(v float32) int {
		if v < 0 {
			return 0
		} else if v > 1 {
			return 255
		}
		return int(v*255 + 0.5)
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", to255(c.R), to255(c.G), to255(c.B))
}

func lineStyle(c RGBA, width float32) string {
	return fmt.Sprintf("stroke:%s;stroke-width:%g;fill:none", svgColor(c), width)
}
