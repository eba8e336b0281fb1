// pkg/scope/annotate.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scope

import (
	"strconv"

	"github.com/orbview/orbview/pkg/math"
	"github.com/orbview/orbview/pkg/orbit"
	"github.com/orbview/orbview/pkg/util"
)

// Display constants. These are presentation choices, not physically
// derived quantities.
const (
	// The apse line is drawn at a fixed world length regardless of the
	// focus range.
	apseLineHalfLengthKm = 1.2 * 15000

	// World radius of the argument-of-periapsis arc.
	periapsisArcRadiusKm = 3500

	// The anomaly-sweep arc sits just outside the larger of the two
	// anomaly radii.
	sweepArcRadiusScale = 1.15

	// Velocity vectors are illustrative; their on-screen length is
	// fixed.
	velocityVectorPx = 40

	// Arc labels sit this far outside their arc.
	labelOffsetPx = 14
)

// annotate fills in the scene's feature fields. Each feature carries its
// own finiteness guard; an invalid anomaly point suppresses its marker,
// velocity vector, and any label that depends on it.
func annotate(s *Scene, op orbit.OrbitalParameters, tf *Transforms, opts Options) {
	rClip := op.RClip()
	omega := math.Radians(op.ArgumentOfPeriapsisDeg)

	valid := func(pt orbit.PolarPoint) bool {
		return math.IsFinite(pt.RadiusKm) && pt.RadiusKm <= rClip
	}
	window := func(pt orbit.PolarPoint) [2]float32 {
		return tf.WindowFromWorld(pt.World())
	}

	// Start and end anomaly markers with their velocity vectors. The
	// velocity direction is perpendicular to the radius vector; its
	// magnitude is not represented.
	start, end := op.PointDeg(op.StartAnomalyDeg), op.PointDeg(op.EndAnomalyDeg)
	anomalyFeatures := func(pt orbit.PolarPoint) (Marker, Vector) {
		m := Marker{P: window(pt), Valid: valid(pt) && math.IsFinite2f(window(pt))}
		if !m.Valid {
			return m, Vector{}
		}

		// World direction heading+90 degrees; the window y flip negates
		// the y component.
		d := math.SinCos2f(pt.Heading + math.Pi()/2)
		d[1] = -d[1]
		v := Vector{
			P0:    m.P,
			P1:    math.Add2f(m.P, math.Scale2f(d, velocityVectorPx)),
			Valid: math.IsFinite2f(d),
		}
		return m, v
	}
	s.StartMarker, s.StartVelocity = anomalyFeatures(start)
	s.EndMarker, s.EndVelocity = anomalyFeatures(end)

	// Perigee lies along the apse line at the radius of closest
	// approach.
	rp := op.PerigeeRadiusKm()
	perigee := orbit.PolarPoint{RadiusKm: rp, Heading: omega}
	s.Perigee = Marker{
		P:     window(perigee),
		Valid: math.IsFinite(rp) && rp > 0 && rp <= rClip && math.IsFinite2f(window(perigee)),
	}

	// Apse line through the origin along omega, fixed world length.
	apse := math.Scale2f(math.SinCos2f(omega), apseLineHalfLengthKm)
	s.ApseLine = Line{
		P0:     tf.WindowFromWorld(apse),
		P1:     tf.WindowFromWorld(math.Scale2f(apse, -1)),
		Dashed: true,
		Valid:  math.IsFinite2f(apse),
	}

	// World angles appear negated in window coordinates since y points
	// down the screen.
	origin := tf.WindowFromWorld([2]float32{0, 0})

	// Argument-of-periapsis arc from the reference direction to the apse
	// line, labeled with omega rounded to the nearest degree.
	s.PeriapsisArc = Arc{
		Center:   origin,
		RadiusPx: periapsisArcRadiusKm * tf.PixelsPerKm(),
		A0:       0,
		A1:       -omega,
		Valid:    math.IsFinite(omega),
	}
	s.PeriapsisLabel = arcLabel(s.PeriapsisArc,
		strconv.Itoa(int(math.Round(math.WrapDegrees(op.ArgumentOfPeriapsisDeg))))+"°")

	// Anomaly-sweep arc between the two anomaly headings, just outside
	// the larger radius. It needs both anomaly points.
	if s.StartMarker.Valid && s.EndMarker.Valid {
		s.SweepArc = Arc{
			Center:   origin,
			RadiusPx: sweepArcRadiusScale * max(start.RadiusKm, end.RadiusKm) * tf.PixelsPerKm(),
			A0:       -start.Heading,
			A1:       -end.Heading,
			Valid:    true,
		}
		sweep := math.Abs(op.EndAnomalyDeg - op.StartAnomalyDeg)
		text := util.Select(opts.FixedSweepLabel, "120°",
			strconv.Itoa(int(math.Round(sweep)))+"°")
		s.SweepLabel = arcLabel(s.SweepArc, text)
	}
}

// arcLabel places a label just outside the arc at its angular midpoint.
func arcLabel(a Arc, text string) Label {
	mid := (a.A0 + a.A1) / 2
	p := math.Add2f(a.Center, math.Scale2f(math.SinCos2f(mid), a.RadiusPx+labelOffsetPx))
	return Label{Text: text, P: p, Valid: a.Valid && math.IsFinite2f(p)}
}
