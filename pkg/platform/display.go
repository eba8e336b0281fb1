// pkg/platform/display.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/orbview/orbview/pkg/log"
	"github.com/orbview/orbview/pkg/orbit"
	"github.com/orbview/orbview/pkg/renderer"
	"github.com/orbview/orbview/pkg/scope"
	"github.com/orbview/orbview/pkg/util"
)

// Display is the interactive viewer. It implements ebiten.Game: Layout
// feeds window resizes into the scheduler, Update applies key bindings
// and performs at most one scene rebuild per frame, and Draw replays the
// prebuilt command buffer.
type Display struct {
	sched *RedrawScheduler
	rend  *renderer.EbitenRenderer
	cb    *renderer.CommandBuffer
	opts  scope.Options
	lg    *log.Logger
}

func NewDisplay(params orbit.OrbitalParameters, opts scope.Options, lg *log.Logger) *Display {
	return &Display{
		sched: NewRedrawScheduler(params, [2]float32{800, 600}),
		rend:  renderer.NewEbitenRenderer(),
		cb:    renderer.GetCommandBuffer(),
		opts:  opts,
		lg:    lg,
	}
}

func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	d.sched.SetViewport([2]float32{float32(outsideWidth), float32(outsideHeight)})
	return outsideWidth, outsideHeight
}

// Parameter key bindings; shift reverses the direction.
var keyAdjust = []struct {
	key   ebiten.Key
	step  float32
	apply func(*orbit.OrbitalParameters, float32)
}{
	{ebiten.KeyE, 0.05, func(op *orbit.OrbitalParameters, d float32) { op.Eccentricity = max(0, op.Eccentricity+d) }},
	{ebiten.KeyP, 500, func(op *orbit.OrbitalParameters, d float32) { op.SemiLatusRectumKm = max(1, op.SemiLatusRectumKm+d) }},
	{ebiten.KeyW, 5, func(op *orbit.OrbitalParameters, d float32) { op.ArgumentOfPeriapsisDeg += d }},
	{ebiten.KeyF, 1000, func(op *orbit.OrbitalParameters, d float32) { op.FocusRangeKm = max(1000, op.FocusRangeKm+d) }},
}

func (d *Display) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		d.sched.SetParameters(orbit.DefaultParameters())
	}
	for _, ka := range keyAdjust {
		if inpututil.IsKeyJustPressed(ka.key) {
			step := ka.step
			if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
				step = -step
			}
			d.sched.UpdateParameters(func(op *orbit.OrbitalParameters) { ka.apply(op, step) })
		}
	}

	if params, viewport, dirty := d.sched.TakeFrame(); dirty {
		d.cb.Reset()
		scene := scope.BuildScene(params, viewport, d.opts)
		scene.GenerateCommands(d.cb)
		npts := util.ReduceSlice(scene.Segments,
			func(seg scope.Segment, n int) int { return n + len(seg) }, 0)
		d.lg.Debugf("rebuilt scene: %d segments, %d points, viewport %v",
			len(scene.Segments), npts, viewport)
	}
	return nil
}

func (d *Display) Draw(screen *ebiten.Image) {
	d.rend.SetTarget(screen)
	d.rend.RenderCommandBuffer(d.cb)
}

// RunViewer opens the interactive viewer window and blocks until it is
// closed.
func RunViewer(params orbit.OrbitalParameters, opts scope.Options, lg *log.Logger) error {
	d := NewDisplay(params, opts, lg)
	defer func() {
		renderer.ReturnCommandBuffer(d.cb)
		d.rend.Dispose()
	}()

	ebiten.SetWindowSize(800, 600)
	ebiten.SetWindowTitle("orbview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(d)
}
