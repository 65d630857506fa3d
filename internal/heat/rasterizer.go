package heat

import (
	"errors"
	"fmt"

	"tree-heat/internal/features"
	"tree-heat/internal/mapping"
	"tree-heat/internal/raster"
	"tree-heat/pkg/geometry"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultClusterSize is the side of a grid cell in pixels.
const DefaultClusterSize = 9

// ErrInvalidClusterSize is returned for cluster sizes below one pixel.
var ErrInvalidClusterSize = errors.New("invalid cluster size")

// Cell is a half-open pixel block [X0, X1) × [Y0, Y1) sharing one sample.
type Cell struct {
	X0, Y0 int
	X1, Y1 int
}

// Cells calls fn for every cell of a width×height raster partitioned into squares of
// side size, row by row. Cells on the right and bottom edges are clipped to the raster.
func Cells(width, height, size int, fn func(c Cell)) {
	if size < 1 {
		return
	}
	for y := 0; y < height; y += size {
		y1 := min(y+size, height)
		for x := 0; x < width; x += size {
			fn(Cell{X0: x, Y0: y, X1: min(x+size, width), Y1: y1})
		}
	}
}

// Stats summarizes the samples taken for one frame.
type Stats struct {
	Cells    int
	Singular int
	Mean     float64 // Over non-singular samples
	Min      float64
	Max      float64
}

// Rasterizer samples a Strategy once per grid cell and shades every pixel of the
// cell with that sample.
type Rasterizer struct {
	Strategy    Strategy
	ClusterSize int
}

// NewRasterizer creates a Rasterizer.
func NewRasterizer(strategy Strategy, clusterSize int) (*Rasterizer, error) {
	if strategy == nil {
		return nil, fmt.Errorf("rasterizer: nil strategy")
	}
	if clusterSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClusterSize, clusterSize)
	}
	return &Rasterizer{Strategy: strategy, ClusterSize: clusterSize}, nil
}

// Render paints s over base, where base represents bbox. base is not modified.
func (r *Rasterizer) Render(s features.PointSet, base *raster.Raster, bbox geometry.BoundingBox) (*raster.Raster, Stats, error) {
	m, err := mapping.New(bbox, base.Width, base.Height)
	if err != nil {
		return nil, Stats{}, err
	}
	return r.RenderMapped(s, base, m)
}

// RenderMapped is Render with a prebuilt mapper, which must match base's size.
func (r *Rasterizer) RenderMapped(s features.PointSet, base *raster.Raster, m *mapping.Mapper) (*raster.Raster, Stats, error) {
	if r.ClusterSize < 1 {
		return nil, Stats{}, fmt.Errorf("%w: %d", ErrInvalidClusterSize, r.ClusterSize)
	}
	if w, h := m.Size(); w != base.Width || h != base.Height {
		return nil, Stats{}, fmt.Errorf("rasterizer: mapper is %dx%d, raster is %dx%d", w, h, base.Width, base.Height)
	}

	out := base.Clone()
	var stats Stats
	values := make([]float64, 0, (base.Width/r.ClusterSize+1)*(base.Height/r.ClusterSize+1))

	Cells(base.Width, base.Height, r.ClusterSize, func(c Cell) {
		anchor := m.PixelToGeo(float64(c.X0), float64(c.Y0))
		sample := r.Strategy.Sample(anchor, s)

		stats.Cells++
		if sample.Singular {
			stats.Singular++
		} else {
			values = append(values, sample.Value)
		}

		for y := c.Y0; y < c.Y1; y++ {
			row := y * base.Width
			for x := c.X0; x < c.X1; x++ {
				out.Pix[row+x] = r.Strategy.Shade(base.Pix[row+x], sample)
			}
		}
	})

	if len(values) > 0 {
		stats.Mean = stat.Mean(values, nil)
		stats.Min = floats.Min(values)
		stats.Max = floats.Max(values)
	}
	return out, stats, nil
}
