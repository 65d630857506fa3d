// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateBoundingBox is returned when a bounding box has no area.
var ErrDegenerateBoundingBox = errors.New("degenerate bounding box")

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// BoundingBox is an axis-aligned rectangle in geographic units.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Validate reports ErrDegenerateBoundingBox unless MaxX > MinX and MaxY > MinY.
func (b BoundingBox) Validate() error {
	// Written as negations so NaN bounds also fail.
	if !(b.MaxX > b.MinX) || !(b.MaxY > b.MinY) {
		return fmt.Errorf("%w: x [%g, %g], y [%g, %g]", ErrDegenerateBoundingBox, b.MinX, b.MaxX, b.MinY, b.MaxY)
	}
	if math.IsInf(b.MaxX-b.MinX, 0) || math.IsInf(b.MaxY-b.MinY, 0) {
		return fmt.Errorf("%w: infinite extent", ErrDegenerateBoundingBox)
	}
	return nil
}

// Width returns the horizontal extent.
func (b BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent.
func (b BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Contains returns true if the point lies inside the box, edges included.
func (b BoundingBox) Contains(p Point2D) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY
}

// Center returns the center point of the box.
func (b BoundingBox) Center() Point2D {
	return Point2D{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// String formats the box the way the log lines report extents.
func (b BoundingBox) String() string {
	return fmt.Sprintf("minx: %g, miny: %g, maxx: %g, maxy: %g", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Bounds computes the axis-aligned bounding box of a set of points.
// It returns ErrDegenerateBoundingBox when the points do not span an area.
func Bounds(points []Point2D) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, fmt.Errorf("%w: no points", ErrDegenerateBoundingBox)
	}
	b := BoundingBox{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, b.Validate()
}
