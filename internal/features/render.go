package features

import (
	"math"

	"tree-heat/internal/mapping"
	"tree-heat/internal/raster"
	"tree-heat/pkg/colorutil"
)

// RenderOptions configures how feature markers are rendered.
type RenderOptions struct {
	MarkerColor  uint32 // Packed 0xRRGGBB
	MarkerRadius int    // Arm length of the plus marker in pixels
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		MarkerColor:  colorutil.Red,
		MarkerRadius: 1,
	}
}

// RenderMarkers draws a plus marker at every fixed feature of s into dst.
// Markers near the raster edge are clipped. It returns the number of markers whose
// center fell inside the raster.
func RenderMarkers(dst *raster.Raster, s PointSet, m *mapping.Mapper, opts RenderOptions) int {
	drawn := 0
	for _, p := range s.Features() {
		fx, fy := m.GeoToPixel(p)
		if math.IsNaN(fx) || math.IsNaN(fy) {
			continue
		}
		cx, cy := int(math.Floor(fx)), int(math.Floor(fy))
		if !dst.InBounds(cx, cy) {
			continue
		}
		drawPlus(dst, cx, cy, opts.MarkerRadius, opts.MarkerColor)
		drawn++
	}
	return drawn
}

// drawPlus draws a plus centered on (cx, cy).
func drawPlus(dst *raster.Raster, cx, cy, r int, c uint32) {
	dst.Set(cx, cy, c)
	for d := 1; d <= r; d++ {
		dst.Set(cx-d, cy, c)
		dst.Set(cx+d, cy, c)
		dst.Set(cx, cy-d, c)
		dst.Set(cx, cy+d, c)
	}
}
