// pkg/orbit/orbit.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package orbit holds the planar Keplerian conic geometry: the orbital
// parameter record, the polar conic equation with hyperbolic branch
// correction, and the true-anomaly sweep that samples the trajectory.
// Everything here is pure computation over float32s; degenerate inputs
// yield non-finite or clipped points, never errors.
package orbit

import (
	"github.com/orbview/orbview/pkg/math"
)

// OrbitalParameters describes a conic trajectory in the orbital plane.
// Angles are in degrees at this boundary and converted to radians
// internally. The record is immutable per render cycle.
type OrbitalParameters struct {
	// Eccentricity: <1 ellipse, =1 parabola, >1 hyperbola.
	Eccentricity float32
	// Semi-latus rectum, kilometers.
	SemiLatusRectumKm float32
	// Argument of periapsis, degrees.
	ArgumentOfPeriapsisDeg float32
	// True anomalies bounding the domain of interest, degrees. They are
	// display annotations only; the trajectory sweep is independent of
	// them.
	StartAnomalyDeg float32
	EndAnomalyDeg   float32
	// Number of trajectory samples; zero selects the default.
	SampleCount int
	// Half-extent of the world region mapped to the viewport,
	// kilometers; zero selects the default.
	FocusRangeKm float32
}

const (
	DefaultSampleCount  = 1000
	DefaultFocusRangeKm = 15000
)

// DefaultParameters returns the hyperbolic flyby that orbview displays at
// startup.
func DefaultParameters() OrbitalParameters {
	return OrbitalParameters{
		Eccentricity:           1.0558,
		SemiLatusRectumKm:      14247.47,
		ArgumentOfPeriapsisDeg: 31.62,
		StartAnomalyDeg:        -71.39,
		EndAnomalyDeg:          48.61,
		SampleCount:            DefaultSampleCount,
		FocusRangeKm:           DefaultFocusRangeKm,
	}
}

// Samples returns the effective sample count: the default if unset, and
// never fewer than two so that the sweep always includes both domain
// endpoints.
func (op OrbitalParameters) Samples() int {
	if op.SampleCount == 0 {
		return DefaultSampleCount
	}
	return max(op.SampleCount, 2)
}

// FocusRange returns the effective focus range in kilometers,
// substituting the default for an unset or non-positive value.
func (op OrbitalParameters) FocusRange() float32 {
	if op.FocusRangeKm <= 0 {
		return DefaultFocusRangeKm
	}
	return op.FocusRangeKm
}

// RClip returns the radius in kilometers beyond which sampled points are
// discarded as outside the region of interest.
func (op OrbitalParameters) RClip() float32 {
	return max(3*op.FocusRange(), 3*op.SemiLatusRectumKm, 1e6)
}

// PerigeeRadiusKm returns the radius of closest approach. It may be
// non-finite or non-positive for degenerate parameters; callers must
// check before using it.
func (op OrbitalParameters) PerigeeRadiusKm() float32 {
	return op.SemiLatusRectumKm / (1 + op.Eccentricity)
}

// Class describes the shape of the conic.
type Class int

const (
	Circular Class = iota
	Elliptical
	Parabolic
	Hyperbolic
)

func (c Class) String() string {
	return [...]string{"circular", "elliptical", "parabolic", "hyperbolic"}[c]
}

func (op OrbitalParameters) Class() Class {
	switch e := op.Eccentricity; {
	case e == 0:
		return Circular
	case e < 1:
		return Elliptical
	case e == 1:
		return Parabolic
	default:
		return Hyperbolic
	}
}

// PolarPoint is a point on the trajectory in focus-centered polar
// coordinates: radius in kilometers and heading in radians from the
// reference direction.
type PolarPoint struct {
	RadiusKm float32
	Heading  float32
}

// World converts the point to Cartesian world coordinates in kilometers,
// centered at the focus with y up.
func (p PolarPoint) World() [2]float32 {
	return math.Scale2f(math.SinCos2f(p.Heading), p.RadiusKm)
}

// ConicPoint evaluates the polar conic equation r = p / (1 + e cos nu) at
// true anomaly nu (radians), with omega (radians) giving the rotation of
// the apse line. When the denominator is non-positive--reachable only for
// e > 1 past the asymptotic anomaly--the naive radius is negative; taking
// its magnitude and reflecting the heading through pi recovers the
// correct point on the opposite hyperbolic branch. A non-finite radius is
// a legal result that callers test for; it is never an error.
func ConicPoint(e, p, omega, nu float32) PolarPoint {
	denom := 1 + e*math.Cos(nu)
	if denom > 0 {
		return PolarPoint{RadiusKm: p / denom, Heading: nu + omega}
	}
	return PolarPoint{RadiusKm: math.Abs(p / denom), Heading: nu + omega + math.Pi()}
}

// Point evaluates the trajectory at true anomaly nu, given in radians.
func (op OrbitalParameters) Point(nu float32) PolarPoint {
	return ConicPoint(op.Eccentricity, op.SemiLatusRectumKm,
		math.Radians(op.ArgumentOfPeriapsisDeg), nu)
}

// PointDeg evaluates the trajectory at true anomaly nu, given in degrees.
func (op OrbitalParameters) PointDeg(nu float32) PolarPoint {
	return op.Point(math.Radians(nu))
}
