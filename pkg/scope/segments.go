// pkg/scope/segments.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scope

import (
	"github.com/orbview/orbview/pkg/math"
)

// Segment is one continuous visible arc of the trajectory, as an ordered
// polyline in window coordinates. A segment always has at least one
// point.
type Segment [][2]float32

// BuildSegments partitions an ordered sequence of window points into
// continuous polylines, starting a new segment whenever the distance
// between consecutive points exceeds maxGapPx. Hyperbolic and extreme
// orbits produce sample runs that jump between visually distant regions
// as the radius blows up; without the break, those jumps would draw
// meaningless lines across the viewport. Empty input yields an empty
// list.
func BuildSegments(points [][2]float32, maxGapPx float32) []Segment {
	var segs []Segment
	var cur Segment

	for _, p := range points {
		if len(cur) > 0 && math.Distance2f(p, cur[len(cur)-1]) > maxGapPx {
			segs = append(segs, cur)
			cur = nil
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}
