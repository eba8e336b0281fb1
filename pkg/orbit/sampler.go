// pkg/orbit/sampler.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package orbit

import (
	"iter"

	"github.com/orbview/orbview/pkg/math"
)

// The sweep stops just short of +-180 degrees; at e >= 1 the denominator
// vanishes there and the samples contribute nothing but clipped points.
const sweepLimitDeg = 179.9

// SamplePoints returns an iterator over the trajectory, sweeping true
// anomaly linearly over [-179.9, +179.9] degrees in Samples() steps with
// both endpoints included. The sweep covers the full orbit shape and is
// independent of the start/end anomalies, which only annotate it. Points
// with a non-finite radius or a radius beyond RClip are dropped; the
// points yielded are ordered by increasing anomaly.
func (op OrbitalParameters) SamplePoints() iter.Seq[PolarPoint] {
	return func(yield func(PolarPoint) bool) {
		n := op.Samples()
		rClip := op.RClip()

		for i := 0; i < n; i++ {
			nu := math.Lerp(float32(i)/float32(n-1), -sweepLimitDeg, sweepLimitDeg)
			pt := op.PointDeg(nu)
			if !math.IsFinite(pt.RadiusKm) || pt.RadiusKm > rClip {
				continue
			}
			if !yield(pt) {
				return
			}
		}
	}
}
