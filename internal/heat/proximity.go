package heat

import (
	"fmt"

	"tree-heat/internal/features"
	"tree-heat/pkg/geometry"

	"github.com/dhconnelly/rtreego"
)

// DefaultRadius is the proximity radius in geographic units (meters).
const DefaultRadius = 30.0

// ProximityScorer counts points strictly closer than Radius to a candidate.
type ProximityScorer struct {
	Radius float64
}

// NewProximityScorer creates a scorer with the given radius.
func NewProximityScorer(radius float64) ProximityScorer {
	return ProximityScorer{Radius: radius}
}

// Score returns how many of points lie at distance < Radius from candidate.
func (ps ProximityScorer) Score(candidate geometry.Point2D, points []geometry.Point2D) int {
	count := 0
	for _, p := range points {
		if candidate.Distance(p) < ps.Radius {
			count++
		}
	}
	return count
}

// ScoreSet is Score over every point of s, its candidate included.
func (ps ProximityScorer) ScoreSet(at geometry.Point2D, s features.PointSet) int {
	count := 0
	s.Each(func(p geometry.Point2D) {
		if at.Distance(p) < ps.Radius {
			count++
		}
	})
	return count
}

// pointTolerance is the half side of the box an indexed point occupies.
const pointTolerance = 1e-9

// indexedPoint adapts a feature location to rtreego.Spatial.
type indexedPoint struct {
	geometry.Point2D
}

// Bounds implements the rtreego.Spatial interface.
func (ip indexedPoint) Bounds() rtreego.Rect {
	return rtreego.Point{ip.X, ip.Y}.ToRect(pointTolerance)
}

// IndexedScorer answers the same question as ProximityScorer through an R-tree,
// for feature sets large enough that a linear scan per frame shows up.
type IndexedScorer struct {
	radius float64
	tree   *rtreego.Rtree
}

// NewIndexedScorer indexes points for proximity queries with the given radius.
func NewIndexedScorer(points []geometry.Point2D, radius float64) (*IndexedScorer, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("indexed scorer: radius must be positive, got %g", radius)
	}
	objs := make([]rtreego.Spatial, len(points))
	for i, p := range points {
		objs[i] = indexedPoint{p}
	}
	return &IndexedScorer{
		radius: radius,
		tree:   rtreego.NewTree(2, 25, 50, objs...),
	}, nil
}

// Insert adds a point to the index.
func (is *IndexedScorer) Insert(p geometry.Point2D) {
	is.tree.Insert(indexedPoint{p})
}

// Len returns the number of indexed points.
func (is *IndexedScorer) Len() int {
	return is.tree.Size()
}

// Score returns how many indexed points lie at distance < radius from candidate.
func (is *IndexedScorer) Score(candidate geometry.Point2D) int {
	query := rtreego.Point{candidate.X, candidate.Y}.ToRect(is.radius)

	count := 0
	for _, obj := range is.tree.SearchIntersect(query) {
		if candidate.Distance(obj.(indexedPoint).Point2D) < is.radius {
			count++
		}
	}
	return count
}
