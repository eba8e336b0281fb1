// pkg/scope/draw.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scope

import (
	"github.com/orbview/orbview/pkg/math"
	"github.com/orbview/orbview/pkg/renderer"
)

// Scene colors.
var (
	backgroundColor = renderer.RGBFromHex(0x101418)
	trajectoryColor = renderer.RGBFromHex(0xe8e8e8)
	apseLineColor   = renderer.RGBFromHex(0x707880)
	perigeeColor    = renderer.RGBFromHex(0xffcc40)
	startColor      = renderer.RGBFromHex(0x40d080)
	endColor        = renderer.RGBFromHex(0xe05858)
	arcColor        = renderer.RGBFromHex(0x58a8e0)
	labelColor      = renderer.RGBFromHex(0xb8c0c8)
)

const (
	markerRadiusPx = 4
	dashLengthPx   = 8
	labelSizePx    = 4
	arrowheadPx    = 8
)

// GenerateCommands encodes the scene into the command buffer. All
// geometry is already in window coordinates; this walks the scene and
// batches it into draw calls, skipping any feature marked invalid.
func (s *Scene) GenerateCommands(cb *renderer.CommandBuffer) {
	tf := MakeTransforms(s.Viewport, 0)
	tf.LoadWindowViewingMatrices(cb)

	cb.ClearRGB(backgroundColor)
	cb.LineWidth(1.5, 1)

	ld := renderer.GetColoredLinesDrawBuilder()
	defer renderer.ReturnColoredLinesDrawBuilder(ld)
	td := renderer.GetColoredTrianglesDrawBuilder()
	defer renderer.ReturnColoredTrianglesDrawBuilder(td)

	for _, seg := range s.Segments {
		ld.AddLineStrip(trajectoryColor, seg)
	}

	if s.ApseLine.Valid {
		if s.ApseLine.Dashed {
			ld.AddDashedLine(s.ApseLine.P0, s.ApseLine.P1, dashLengthPx, apseLineColor)
		} else {
			ld.AddLine(s.ApseLine.P0, s.ApseLine.P1, apseLineColor)
		}
	}

	for _, arc := range []Arc{s.PeriapsisArc, s.SweepArc} {
		if arc.Valid {
			nsegs := max(16, int(math.Abs(arc.A1-arc.A0)*20))
			ld.AddArc(arc.Center, arc.RadiusPx, arc.A0, arc.A1, nsegs, arcColor)
		}
	}

	for _, l := range []Label{s.PeriapsisLabel, s.SweepLabel} {
		if l.Valid {
			ld.AddNumber(l.P, labelSizePx, l.Text, labelColor)
		}
	}

	for _, mk := range []struct {
		m Marker
		c renderer.RGB
	}{
		{s.Perigee, perigeeColor},
		{s.StartMarker, startColor},
		{s.EndMarker, endColor},
	} {
		if mk.m.Valid {
			td.AddCircle(mk.m.P, markerRadiusPx, 20, mk.c)
		}
	}

	for _, vec := range []struct {
		v Vector
		c renderer.RGB
	}{
		{s.StartVelocity, startColor},
		{s.EndVelocity, endColor},
	} {
		if vec.v.Valid {
			addArrow(ld, vec.v, vec.c)
		}
	}

	td.GenerateCommands(cb)
	ld.GenerateCommands(cb)
}

// addArrow draws the vector's shaft plus two barbs at the tip.
func addArrow(ld *renderer.ColoredLinesDrawBuilder, v Vector, c renderer.RGB) {
	ld.AddLine(v.P0, v.P1, c)

	d := math.Sub2f(v.P1, v.P0)
	if math.Length2f(d) == 0 {
		return
	}
	a := math.Atan2(d[1], d[0])
	for _, da := range []float32{math.Radians(150), math.Radians(-150)} {
		barb := math.Scale2f(math.SinCos2f(a+da), arrowheadPx)
		ld.AddLine(v.P1, math.Add2f(v.P1, barb), c)
	}
}
