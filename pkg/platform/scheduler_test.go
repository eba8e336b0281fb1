// pkg/platform/scheduler_test.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"sync"
	"testing"

	"github.com/orbview/orbview/pkg/orbit"
)

func TestSchedulerCoalescing(t *testing.T) {
	s := NewRedrawScheduler(orbit.DefaultParameters(), [2]float32{800, 600})

	// The initial state is dirty so the first frame draws.
	_, _, dirty := s.TakeFrame()
	if !dirty {
		t.Fatalf("first frame not dirty")
	}

	// No triggers, no rebuild.
	if _, _, dirty := s.TakeFrame(); dirty {
		t.Fatalf("clean scheduler reported dirty")
	}

	// A burst of changes collapses into one rebuild with the last
	// written values.
	for e := float32(0.1); e < 1; e += 0.1 {
		op := orbit.DefaultParameters()
		op.Eccentricity = e
		s.SetParameters(op)
	}
	s.SetViewport([2]float32{1024, 768})
	s.SetViewport([2]float32{640, 480})

	params, viewport, dirty := s.TakeFrame()
	if !dirty {
		t.Fatalf("changes did not mark the scheduler dirty")
	}
	if params.Eccentricity < 0.89 || params.Eccentricity > 0.91 {
		t.Errorf("got eccentricity %g, want the last write 0.9", params.Eccentricity)
	}
	if viewport != [2]float32{640, 480} {
		t.Errorf("got viewport %v, want the last write (640, 480)", viewport)
	}

	if _, _, dirty := s.TakeFrame(); dirty {
		t.Errorf("dirty flag not cleared")
	}
}

func TestSchedulerUnchangedViewport(t *testing.T) {
	s := NewRedrawScheduler(orbit.DefaultParameters(), [2]float32{800, 600})
	s.TakeFrame()

	// Resize notifications arrive every frame; an unchanged size must
	// not trigger a rebuild.
	s.SetViewport([2]float32{800, 600})
	if _, _, dirty := s.TakeFrame(); dirty {
		t.Errorf("unchanged viewport marked the scheduler dirty")
	}
}

func TestSchedulerConcurrent(t *testing.T) {
	s := NewRedrawScheduler(orbit.DefaultParameters(), [2]float32{800, 600})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.UpdateParameters(func(op *orbit.OrbitalParameters) {
					op.SampleCount++
				})
			}
		}()
	}
	wg.Wait()

	params, _, dirty := s.TakeFrame()
	if !dirty {
		t.Fatalf("not dirty after updates")
	}
	want := orbit.DefaultParameters().SampleCount + 4000
	if params.SampleCount != want {
		t.Errorf("lost updates: sample count %d, want %d", params.SampleCount, want)
	}
}
