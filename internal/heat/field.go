// Package heat computes the influence field over the point set and paints it onto
// a raster one grid cell at a time.
package heat

import (
	"math"

	"tree-heat/internal/features"
	"tree-heat/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// Sample is the result of evaluating a scalar function at one location.
// Singular is set when the location coincides with a point or the sum overflowed;
// Value is meaningless in that case.
type Sample struct {
	Value    float64
	Singular bool
}

// InfluenceField evaluates 1 - Σ 1/d_i over every point of a PointSet, candidate
// included. The value approaches 1 far from all points and falls without bound
// near them; it is never clamped here.
//
// An InfluenceField reuses an internal buffer and must not be shared between goroutines.
type InfluenceField struct {
	inv []float64
}

// NewInfluenceField creates an InfluenceField.
func NewInfluenceField() *InfluenceField {
	return &InfluenceField{}
}

// Evaluate samples the field at a geographic location.
func (f *InfluenceField) Evaluate(at geometry.Point2D, s features.PointSet) Sample {
	f.inv = f.inv[:0]
	singular := false
	s.Each(func(p geometry.Point2D) {
		d := at.Distance(p)
		if d == 0 {
			singular = true
			return
		}
		f.inv = append(f.inv, 1/d)
	})
	if singular {
		return Sample{Singular: true}
	}

	v := 1 - floats.Sum(f.inv)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Sample{Singular: true}
	}
	return Sample{Value: v}
}
