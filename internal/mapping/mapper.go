// Package mapping converts between geographic coordinates and raster pixel coordinates.
package mapping

import (
	"fmt"

	"tree-heat/pkg/geometry"
)

// Mapper maps a bounding box onto a width×height raster. Pixel y grows downward while
// geographic y grows upward, so the vertical axis is flipped.
//
// Results are never clamped: coordinates outside the box map to pixels outside
// [0, W) × [0, H) and callers bounds-check before writing.
type Mapper struct {
	bbox   geometry.BoundingBox
	width  float64
	height float64
}

// New creates a Mapper. It fails with geometry.ErrDegenerateBoundingBox for boxes
// without area and rejects non-positive raster sizes.
func New(bbox geometry.BoundingBox, width, height int) (*Mapper, error) {
	if err := bbox.Validate(); err != nil {
		return nil, fmt.Errorf("coordinate mapper: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("coordinate mapper: invalid raster size %dx%d", width, height)
	}
	return &Mapper{bbox: bbox, width: float64(width), height: float64(height)}, nil
}

// BoundingBox returns the mapped geographic region.
func (m *Mapper) BoundingBox() geometry.BoundingBox {
	return m.bbox
}

// Size returns the raster dimensions.
func (m *Mapper) Size() (width, height int) {
	return int(m.width), int(m.height)
}

// PixelToGeo converts raster pixel coordinates to geographic coordinates.
func (m *Mapper) PixelToGeo(px, py float64) geometry.Point2D {
	return geometry.Point2D{
		X: m.bbox.MinX + (px/m.width)*m.bbox.Width(),
		Y: m.bbox.MaxY - (py/m.height)*m.bbox.Height(),
	}
}

// GeoToPixel converts geographic coordinates to raster pixel coordinates.
func (m *Mapper) GeoToPixel(p geometry.Point2D) (px, py float64) {
	px = (p.X - m.bbox.MinX) / m.bbox.Width() * m.width
	py = (m.bbox.MaxY - p.Y) / m.bbox.Height() * m.height
	return px, py
}

