// pkg/renderer/renderer.go
// Copyright(c) 2024-2025 orbview contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"

	"github.com/orbview/orbview/pkg/log"
)

var lg *log.Logger

// Init sets the logger used for reporting errors encountered while
// encoding or executing command buffers.
func Init(l *log.Logger) {
	lg = l
}

// Renderer defines an interface for all of the drawing that happens in
// orbview. There are two implementations--SVGRenderer for file output and
// EbitenRenderer for the interactive viewer--and having these details
// behind the Renderer interface keeps the geometry code free of any
// knowledge of the drawing backend.
type Renderer interface {
	// RenderCommandBuffer executes all of the commands encoded in the
	// provided command buffer, returning statistics about what was
	// rendered.
	RenderCommandBuffer(*CommandBuffer) RendererStats

	// Dispose releases resources allocated by the renderer.
	Dispose()
}

// RendererStats encapsulates assorted statistics from rendering.
type RendererStats struct {
	nBuffers, bufferBytes int
	nDrawCalls            int
	nLines, nTriangles    int
}

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d buffers (%.2f MB), %d draw calls: %d lines, %d tris",
		rs.nBuffers, float32(rs.bufferBytes)/(1024*1024), rs.nDrawCalls, rs.nLines, rs.nTriangles)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.nBuffers += s.nBuffers
	rs.bufferBytes += s.bufferBytes
	rs.nDrawCalls += s.nDrawCalls
	rs.nLines += s.nLines
	rs.nTriangles += s.nTriangles
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("buffers", rs.nBuffers),
		slog.Int("buffer_memory", rs.bufferBytes),
		slog.Int("draw_calls", rs.nDrawCalls),
		slog.Int("lines", rs.nLines),
		slog.Int("tris", rs.nTriangles),
	)
}
