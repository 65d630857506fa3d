package mapping

import (
	"errors"
	"math"
	"testing"

	"tree-heat/pkg/geometry"
)

func TestNewRejectsDegenerateBox(t *testing.T) {
	cases := []geometry.BoundingBox{
		{MinX: 0, MinY: 0, MaxX: 0, MaxY: 10},
		{MinX: 0, MinY: 5, MaxX: 10, MaxY: 5},
		{MinX: 10, MinY: 0, MaxX: 0, MaxY: 10},
		{MinX: 0, MinY: 0, MaxX: math.NaN(), MaxY: 10},
	}
	for _, bbox := range cases {
		if _, err := New(bbox, 800, 300); !errors.Is(err, geometry.ErrDegenerateBoundingBox) {
			t.Errorf("New(%v) error = %v, want ErrDegenerateBoundingBox", bbox, err)
		}
	}

	if _, err := New(geometry.BoundingBox{MaxX: 1, MaxY: 1}, 0, 300); err == nil {
		t.Errorf("expected error for zero width raster")
	}
}

func TestRoundTrip(t *testing.T) {
	boxes := []geometry.BoundingBox{
		{MinX: 0, MinY: 0, MaxX: 800, MaxY: 300},
		{MinX: 2652000.5, MinY: 1245000.25, MaxX: 2653100.75, MaxY: 1245410},
		{MinX: -1, MinY: -1, MaxX: 1e-3, MaxY: 2e-3},
	}
	sizes := [][2]int{{800, 300}, {17, 9}, {1, 1}}

	for _, bbox := range boxes {
		for _, size := range sizes {
			m, err := New(bbox, size[0], size[1])
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tol := 1e-9 * float64(max(size[0], size[1]))
			for py := 0; py <= size[1]; py += max(1, size[1]/7) {
				for px := 0; px <= size[0]; px += max(1, size[0]/11) {
					gx, gy := m.GeoToPixel(m.PixelToGeo(float64(px), float64(py)))
					if math.Abs(gx-float64(px)) > tol || math.Abs(gy-float64(py)) > tol {
						t.Fatalf("round trip (%d,%d) -> (%g,%g) for %v %v", px, py, gx, gy, bbox, size)
					}
				}
			}
		}
	}
}

func TestYFlip(t *testing.T) {
	bbox := geometry.BoundingBox{MinX: 10, MinY: 20, MaxX: 110, MaxY: 70}
	m, err := New(bbox, 800, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, x := range []float64{0, 400, 799} {
		if got := m.PixelToGeo(x, 0).Y; got != bbox.MaxY {
			t.Errorf("PixelToGeo(%g, 0).Y = %g, want %g", x, got, bbox.MaxY)
		}
		if got := m.PixelToGeo(x, 300).Y; math.Abs(got-bbox.MinY) > 1e-12 {
			t.Errorf("PixelToGeo(%g, 300).Y = %g, want %g", x, got, bbox.MinY)
		}
	}
}

func TestOutsidePixelsAreNotClamped(t *testing.T) {
	m, err := New(geometry.BoundingBox{MinX: 0, MinY: 0, MaxX: 800, MaxY: 300}, 800, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	px, py := m.GeoToPixel(geometry.Point2D{X: -80, Y: 600})
	if px != -80 || py != -300 {
		t.Errorf("GeoToPixel outside box = (%g,%g), want (-80,-300)", px, py)
	}
}
