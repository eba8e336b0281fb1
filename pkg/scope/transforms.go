// pkg/scope/transforms.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package scope assembles the drawable scene: it projects sampled
// trajectory points into window coordinates, partitions them into
// continuous segments, computes the annotation features, and encodes the
// result into a renderer command buffer. Scene construction is a pure
// function of (parameters, viewport); all mutable redraw state lives with
// the caller.
package scope

import (
	"github.com/orbview/orbview/pkg/math"
	"github.com/orbview/orbview/pkg/orbit"
	"github.com/orbview/orbview/pkg/renderer"
)

const (
	// Degenerate viewports are clamped to this size before any scale
	// computation.
	minViewportPx = 200

	// Below this width the effective focus range is reduced so that the
	// trajectory shape stays legible.
	narrowViewportPx = 480
	narrowFocusScale = 0.25
	narrowFocusMinKm = 3000
)

// Transforms stores the transformation matrices that map between world
// space (kilometers, focus-centered, y up), window coordinates (pixels,
// origin top-left, y down), and NDC. Device pixel scaling is strictly a
// backend concern and never appears here.
type Transforms struct {
	viewport        [2]float32
	windowFromWorld math.Matrix3
	worldFromWindow math.Matrix3
	ndcFromWindow   math.Matrix3
	pxPerKm         float32
}

// MakeTransforms returns the transformations for the given viewport size
// in pixels and focus range in kilometers. The focus range gives the
// world half-extent mapped to the smaller viewport dimension.
func MakeTransforms(viewport [2]float32, focusRangeKm float32) Transforms {
	if focusRangeKm <= 0 {
		focusRangeKm = orbit.DefaultFocusRangeKm
	}
	w := max(viewport[0], minViewportPx)
	h := max(viewport[1], minViewportPx)

	fr := focusRangeKm
	if w < narrowViewportPx {
		fr = max(narrowFocusMinKm, narrowFocusScale*focusRangeKm)
	}

	scale := min(w, h) / (2 * fr)
	windowFromWorld := math.Identity3x3().Translate(w/2, h/2).Scale(scale, -scale)

	return Transforms{
		viewport:        [2]float32{w, h},
		windowFromWorld: windowFromWorld,
		worldFromWindow: windowFromWorld.Inverse(),
		ndcFromWindow:   math.Identity3x3().Ortho(0, w, h, 0),
		pxPerKm:         scale,
	}
}

// LoadWindowViewingMatrices adds commands to the command buffer to set up
// the projection matrix so that subsequent vertices are specified in
// window coordinates.
func (t *Transforms) LoadWindowViewingMatrices(cb *renderer.CommandBuffer) {
	cb.LoadProjectionMatrix(t.ndcFromWindow)
	cb.LoadModelViewMatrix(math.Identity3x3())
}

// WindowFromWorld transforms a world point in kilometers to window
// coordinates.
func (t *Transforms) WindowFromWorld(p [2]float32) [2]float32 {
	return t.windowFromWorld.TransformPoint(p)
}

// WorldFromWindow transforms a window point to world kilometers.
func (t *Transforms) WorldFromWindow(p [2]float32) [2]float32 {
	return t.worldFromWindow.TransformPoint(p)
}

// Viewport returns the effective (clamped) viewport size in pixels.
func (t *Transforms) Viewport() [2]float32 {
	return t.viewport
}

// PixelsPerKm returns the world-to-window scale factor.
func (t *Transforms) PixelsPerKm() float32 {
	return t.pxPerKm
}

// MaxGapPx returns the screen-distance threshold beyond which
// consecutive trajectory samples are treated as discontinuous.
func (t *Transforms) MaxGapPx() float32 {
	return max(20, 0.06*min(t.viewport[0], t.viewport[1]))
}
