// pkg/renderer/ebiten.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EbitenRenderer implements the Renderer interface for the interactive
// viewer, drawing into an ebiten.Image each frame. Triangles are drawn
// via DrawTriangles with a 1x1 white source texel so that per-vertex
// colors pass through unmodified.
type EbitenRenderer struct {
	dst      *ebiten.Image
	whiteSub *ebiten.Image
	white    *ebiten.Image
}

func NewEbitenRenderer() *EbitenRenderer {
	// A 3x3 white image with a 1x1 interior sub-image avoids bleeding
	// from texture filtering at the edges.
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &EbitenRenderer{
		white:    white,
		whiteSub: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// SetTarget sets the image that subsequent RenderCommandBuffer calls draw
// into; it should be called at the start of each frame with the screen
// image passed to ebiten.Game's Draw method.
func (r *EbitenRenderer) SetTarget(dst *ebiten.Image) {
	r.dst = dst
}

func (r *EbitenRenderer) Dispose() {
	r.white.Deallocate()
}

func (r *EbitenRenderer) RenderCommandBuffer(cb *CommandBuffer) RendererStats {
	if r.dst == nil {
		lg.Error("RenderCommandBuffer called with no target image")
		return RendererStats{}
	}

	state := identityState()
	return r.dispatch(cb, &state)
}

func (r *EbitenRenderer) dispatch(cb *CommandBuffer, state *drawState) RendererStats {
	var stats RendererStats
	stats.nBuffers++
	stats.bufferBytes += 4 * len(cb.Buf)

	width := float32(r.dst.Bounds().Dx())
	height := float32(r.dst.Bounds().Dy())

	buf := cb.Buf
	getFloats := func(i, n int) []float32 {
		f := make([]float32, n)
		for j := 0; j < n; j++ {
			f[j] = gomath.Float32frombits(buf[i+j])
		}
		return f
	}

	vertex := func(index int32) (float32, float32) {
		va := state.vertexPtr
		b := va.base + int(index)*va.stride
		x := gomath.Float32frombits(buf[b])
		y := gomath.Float32frombits(buf[b+1])

		mv, pr := &state.modelview, &state.projection
		wx := mv[0]*x + mv[4]*y + mv[12]
		wy := mv[1]*x + mv[5]*y + mv[13]
		ndcx := pr[0]*wx + pr[4]*wy + pr[12]
		ndcy := pr[1]*wx + pr[5]*wy + pr[13]

		return (ndcx + 1) / 2 * width, (1 - ndcy) / 2 * height
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
	toNRGBA := func(c RGBA) color.NRGBA {
		to255 := func(v float32) uint8 {
			if v < 0 {
				return 0
			} else if v > 1 {
				return 255
			}
			return uint8(v*255 + 0.5)
		}
		return color.NRGBA{R: to255(c.R), G: to255(c.G), B: to255(c.B), A: to255(c.A)}
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
			r.dst.Fill(toNRGBA(RGBA{f[0], f[1], f[2], f[3]}))
			i += 5

		case RendererScissor, RendererViewport:
			// The viewer always renders to the full window.
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
				x0, y0 := vertex(i0)
				x1, y1 := vertex(int32(buf[offset+j+1]))
				vector.StrokeLine(r.dst, x0, y0, x1, y1, state.lineWidth,
					toNRGBA(vertexColor(i0)), true)
			}
			stats.nDrawCalls++
			stats.nLines += count / 2
			i += 3

		case RendererDrawTriangles:
			offset, count := int(buf[i+1])/4, int(buf[i+2])

			vs := make([]ebiten.Vertex, count)
			is := make([]uint16, count)
			for j := 0; j < count; j++ {
				idx := int32(buf[offset+j])
				x, y := vertex(idx)
				c := vertexColor(idx)
				vs[j] = ebiten.Vertex{
					DstX: x, DstY: y,
					SrcX: 1, SrcY: 1,
					ColorR: c.R, ColorG: c.G, ColorB: c.B, ColorA: c.A,
				}
				is[j] = uint16(j)
			}
			r.dst.DrawTriangles(vs, is, r.whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})

			stats.nDrawCalls++
			stats.nTriangles += count / 3
			i += 3

		case RendererCallBuffer:
			stats.Merge(r.dispatch(&cb.called[buf[i+1]], state))
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
