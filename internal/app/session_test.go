package app

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tree-heat/internal/config"
	"tree-heat/internal/heat"
	"tree-heat/internal/raster"
	"tree-heat/pkg/colorutil"
	"tree-heat/pkg/geometry"
)

var testBox = geometry.BoundingBox{MinX: 0, MinY: 0, MaxX: 80, MaxY: 30}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height = 80, 30
	cfg.ClusterSize = 5
	cfg.Radius = 10
	cfg.LogScore = false
	cfg.BBox = &testBox
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config, points []geometry.Point2D) *Session {
	t.Helper()
	bg, err := raster.New(cfg.Width, cfg.Height, colorutil.Pack(128, 128, 128))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := NewSession(cfg, testBox, points, bg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestFramePreviewDoesNotMutateFeatures(t *testing.T) {
	s := newTestSession(t, testConfig(), []geometry.Point2D{{X: 10, Y: 10}, {X: 15, Y: 10}})

	rendered := 0
	s.On(EventFrameRendered, func(interface{}) { rendered++ })

	for i := 0; i < 3; i++ {
		f, err := s.Frame(PointerEvent{X: 10, Y: 20, PrimaryDown: i == 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Committed {
			t.Fatalf("preview mode committed a feature")
		}
		if f.Candidate != (geometry.Point2D{X: 10, Y: 10}) {
			t.Fatalf("candidate = %v, want (10,10)", f.Candidate)
		}
		if f.Score != 2 {
			t.Errorf("score = %d, want 2", f.Score)
		}
		if f.Raster.Width != 80 || f.Raster.Height != 30 {
			t.Errorf("raster size = %dx%d", f.Raster.Width, f.Raster.Height)
		}
	}
	if n := s.Features().FeatureCount(); n != 2 {
		t.Errorf("feature count = %d, want 2", n)
	}
	if rendered != 3 {
		t.Errorf("frame events = %d, want 3", rendered)
	}
}

func TestFrameCommitOnPressEdge(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = config.ModeCommit
	s := newTestSession(t, cfg, nil)

	var committed []geometry.Point2D
	s.On(EventFeatureCommitted, func(data interface{}) {
		committed = append(committed, data.(geometry.Point2D))
	})

	events := []PointerEvent{
		{X: 40, Y: 15},
		{X: 40, Y: 15, PrimaryDown: true}, // press
		{X: 45, Y: 15, PrimaryDown: true}, // held
		{X: 45, Y: 15},
		{X: 20, Y: 5, PrimaryDown: true}, // press
	}
	for _, ev := range events {
		if _, err := s.Frame(ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []geometry.Point2D{{X: 40, Y: 15}, {X: 20, Y: 25}}
	if len(committed) != len(want) {
		t.Fatalf("committed %v, want %v", committed, want)
	}
	for i := range want {
		if committed[i] != want[i] {
			t.Errorf("commit %d = %v, want %v", i, committed[i], want[i])
		}
	}
	if n := s.Features().FeatureCount(); n != 2 {
		t.Errorf("feature count = %d, want 2", n)
	}
	if got := s.Score(geometry.Point2D{X: 41, Y: 15}); got != 1 {
		t.Errorf("score near committed feature = %d, want 1", got)
	}
}

func TestIndexedScoringMatchesLinear(t *testing.T) {
	points := make([]geometry.Point2D, 0, 64)
	for y := 1.0; y < 30; y += 4 {
		for x := 1.0; x < 80; x += 10 {
			points = append(points, geometry.Point2D{X: x, Y: y})
		}
	}

	linearCfg := testConfig()
	linearCfg.IndexThreshold = 0
	indexedCfg := testConfig()
	indexedCfg.IndexThreshold = 1

	linear := newTestSession(t, linearCfg, points)
	indexed := newTestSession(t, indexedCfg, points)
	if indexed.index == nil || linear.index != nil {
		t.Fatalf("index threshold not honored")
	}

	for _, c := range []geometry.Point2D{{X: 0, Y: 0}, {X: 40, Y: 15}, {X: 79, Y: 29}, {X: 11, Y: 9}} {
		if a, b := linear.Score(c), indexed.Score(c); a != b {
			t.Errorf("Score(%v): linear %d, indexed %d", c, a, b)
		}
	}
}

func TestFrameMarkersAndProximityStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.Markers = true
	cfg.Strategy = heat.StrategyProximity
	cfg.ClusterSize = 1
	s := newTestSession(t, cfg, []geometry.Point2D{{X: 40, Y: 15}})

	f, err := s.Frame(PointerEvent{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The marker is painted red, then tinted again by the proximity pass.
	if got := f.Raster.Get(40, 15); got != colorutil.Red {
		t.Errorf("marker pixel = %06X, want FF0000", got)
	}
	if got, want := f.Raster.Get(79, 29), colorutil.Pack(128, 128, 128); got != want {
		t.Errorf("far pixel = %06X, want %06X", got, want)
	}
	if got, want := f.Raster.Get(45, 15), colorutil.Pack(255, 64, 64); got != want {
		t.Errorf("near pixel = %06X, want %06X", got, want)
	}
	if s.background.Get(40, 15) == colorutil.Red {
		t.Errorf("markers were drawn into the shared background")
	}
}

func TestNewSessionErrors(t *testing.T) {
	cfg := testConfig()
	bg, _ := raster.New(10, 10, 0)
	if _, err := NewSession(cfg, testBox, nil, bg); err == nil {
		t.Errorf("expected error for background size mismatch")
	}

	bg, _ = raster.New(cfg.Width, cfg.Height, 0)
	if _, err := NewSession(cfg, geometry.BoundingBox{MaxX: 1}, nil, bg); err == nil {
		t.Errorf("expected error for degenerate bbox")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	trees := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [10, 10]}},
		{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [90, 10]}}
	]}`
	outline := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon",
		 "coordinates": [[[0, 0], [80, 0], [80, 30], [0, 30], [0, 0]]]}}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "trees.geojson"), []byte(trees), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "outline.geojson"), []byte(outline), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 16, 6))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	f, err := os.Create(filepath.Join(dir, "bg.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Close()

	cfg := testConfig()
	cfg.BBox = nil
	cfg.FeaturesPath = filepath.Join(dir, "trees.geojson")
	cfg.OutlinePath = filepath.Join(dir, "outline.geojson")
	cfg.BackgroundPath = filepath.Join(dir, "bg.png")

	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := s.Features().FeatureCount(); n != 1 {
		t.Errorf("feature count = %d, want 1 inside the outline", n)
	}
	if s.Mapper().BoundingBox() != testBox {
		t.Errorf("bbox = %v, want %v", s.Mapper().BoundingBox(), testBox)
	}
	if got, want := s.background.Get(4, 4), colorutil.Pack(1, 2, 3); got != want {
		t.Errorf("background (4,4) = %06X, want %06X", got, want)
	}
}
