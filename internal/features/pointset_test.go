package features

import (
	"testing"

	"tree-heat/internal/mapping"
	"tree-heat/internal/raster"
	"tree-heat/pkg/colorutil"
	"tree-heat/pkg/geometry"
)

func TestPointSetCandidate(t *testing.T) {
	src := []geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}
	s := NewPointSet(src)
	src[0] = geometry.Point2D{X: 99, Y: 99}

	if s.Features()[0] != (geometry.Point2D{X: 1, Y: 1}) {
		t.Fatalf("NewPointSet did not copy its input")
	}
	if _, ok := s.Candidate(); ok {
		t.Fatalf("new set should have no candidate")
	}

	withCand := s.WithCandidate(geometry.Point2D{X: 5, Y: 5})
	if c, ok := withCand.Candidate(); !ok || c != (geometry.Point2D{X: 5, Y: 5}) {
		t.Fatalf("Candidate() = %v, %v", c, ok)
	}
	if withCand.FeatureCount() != 2 {
		t.Fatalf("FeatureCount = %d, want 2", withCand.FeatureCount())
	}

	var seen []geometry.Point2D
	withCand.Each(func(p geometry.Point2D) { seen = append(seen, p) })
	if len(seen) != 3 || seen[2] != (geometry.Point2D{X: 5, Y: 5}) {
		t.Fatalf("Each visited %v, want candidate last", seen)
	}
}

func TestCommitDoesNotMutateOriginal(t *testing.T) {
	base := NewPointSet([]geometry.Point2D{{X: 1, Y: 1}})
	a := base.WithCandidate(geometry.Point2D{X: 2, Y: 2}).Commit()
	b := base.WithCandidate(geometry.Point2D{X: 3, Y: 3}).Commit()

	if base.FeatureCount() != 1 {
		t.Fatalf("base feature count = %d, want 1", base.FeatureCount())
	}
	if a.FeatureCount() != 2 || b.FeatureCount() != 2 {
		t.Fatalf("committed counts = %d/%d, want 2/2", a.FeatureCount(), b.FeatureCount())
	}
	if a.Features()[1] != (geometry.Point2D{X: 2, Y: 2}) || b.Features()[1] != (geometry.Point2D{X: 3, Y: 3}) {
		t.Errorf("commits share storage: %v %v", a.Features(), b.Features())
	}
	if _, ok := a.Candidate(); ok {
		t.Errorf("committed set still has a candidate")
	}
	if base.Commit().FeatureCount() != 1 {
		t.Errorf("commit without candidate changed the set")
	}
}

func TestRenderMarkersClipsAtEdges(t *testing.T) {
	bbox := geometry.BoundingBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	m, err := mapping.New(bbox, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dst, err := raster.New(10, 10, colorutil.White)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := NewPointSet([]geometry.Point2D{
		{X: 0, Y: 10},  // pixel (0,0), top-left corner
		{X: 5, Y: 5},   // pixel (5,5)
		{X: 50, Y: 50}, // outside
	})
	drawn := RenderMarkers(dst, s, m, DefaultRenderOptions())
	if drawn != 2 {
		t.Fatalf("drawn = %d, want 2", drawn)
	}

	red := 0
	for _, c := range dst.Pix {
		if c == colorutil.Red {
			red++
		}
	}
	// Corner marker keeps 3 of 5 pixels; the center marker keeps all 5.
	if red != 8 {
		t.Errorf("red pixels = %d, want 8", red)
	}
	if dst.Get(5, 4) != colorutil.Red || dst.Get(4, 5) != colorutil.Red {
		t.Errorf("center marker arms missing")
	}
}
