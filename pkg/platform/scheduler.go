// pkg/platform/scheduler.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package platform owns the interactive viewer: the redraw scheduler
// that coalesces parameter and viewport changes, and the ebiten front
// end that drives it.
package platform

import (
	"sync"

	"github.com/orbview/orbview/pkg/orbit"
)

// RedrawScheduler coalesces redraw triggers. Parameter and viewport
// changes both mark the combined state dirty; bursts of changes within
// one frame collapse into a single rebuild, and a pending rebuild that is
// superseded before it runs is simply overwritten. This is the only
// mutable state in the pipeline; scene construction itself is pure.
type RedrawScheduler struct {
	mu       sync.Mutex
	params   orbit.OrbitalParameters
	viewport [2]float32
	dirty    bool
}

// NewRedrawScheduler returns a scheduler with an initial state that is
// already marked dirty so that the first frame draws.
func NewRedrawScheduler(params orbit.OrbitalParameters, viewport [2]float32) *RedrawScheduler {
	return &RedrawScheduler{params: params, viewport: viewport, dirty: true}
}

// SetParameters replaces the pending parameters; last write wins.
func (s *RedrawScheduler) SetParameters(params orbit.OrbitalParameters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = params
	s.dirty = true
}

// UpdateParameters applies f to the pending parameters under the lock.
func (s *RedrawScheduler) UpdateParameters(f func(*orbit.OrbitalParameters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.params)
	s.dirty = true
}

// SetViewport replaces the pending viewport size; last write wins.
func (s *RedrawScheduler) SetViewport(viewport [2]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if viewport != s.viewport {
		s.viewport = viewport
		s.dirty = true
	}
}

// TakeFrame returns the current (parameters, viewport) snapshot and
// whether a rebuild is due, clearing the dirty flag. Called once per
// display frame, it hands out at most one rebuild no matter how many
// triggers arrived since the last call.
func (s *RedrawScheduler) TakeFrame() (orbit.OrbitalParameters, [2]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dirty := s.dirty
	s.dirty = false
	return s.params, s.viewport, dirty
}
