// Package app provides the viewer session: dataset loading, the per-frame render
// pipeline, and events.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"tree-heat/internal/config"
	"tree-heat/internal/features"
	"tree-heat/internal/gis"
	"tree-heat/internal/heat"
	"tree-heat/internal/image"
	"tree-heat/internal/mapping"
	"tree-heat/internal/raster"
	"tree-heat/pkg/geometry"
)

// PointerEvent is the pointer state polled once per frame, in raster pixels.
type PointerEvent struct {
	X, Y        float64
	PrimaryDown bool
}

// Frame is the result of rendering one PointerEvent.
type Frame struct {
	Raster    *raster.Raster
	Candidate geometry.Point2D // Pointer position in geographic coordinates
	Score     int              // Features within the proximity radius of Candidate
	Stats     heat.Stats
	Committed bool // Candidate was added to the feature set
}

// EventType identifies session events.
type EventType int

const (
	EventFrameRendered EventType = iota
	EventFeatureCommitted
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session holds the immutable region and background plus the current feature set.
type Session struct {
	mu sync.Mutex

	cfg        *config.Config
	mapper     *mapping.Mapper
	background *raster.Raster
	rasterizer *heat.Rasterizer
	renderOpts features.RenderOptions

	points features.PointSet
	scorer heat.ProximityScorer
	index  *heat.IndexedScorer // nil below cfg.IndexThreshold features

	wasDown   bool
	lastScore int

	listeners map[EventType][]EventListener
}

// Open loads the region, features and background named by cfg.
func Open(ctx context.Context, cfg *config.Config) (*Session, error) {
	bbox, err := regionOf(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("GIS: layer extent: %s", bbox)

	points, err := gis.LoadPoints(ctx, cfg.FeaturesPath, cfg.FeaturesLayer, &bbox)
	if err != nil {
		return nil, fmt.Errorf("failed to load features: %w", err)
	}
	log.Printf("GIS: loaded %d features from %s", len(points), cfg.FeaturesPath)
	if extent, err := geometry.Bounds(points); err == nil {
		log.Printf("GIS: feature extent: %s", extent)
	}

	dec, err := image.ParseDecoder(cfg.BackgroundDecoder)
	if err != nil {
		return nil, err
	}
	bg, err := image.Load(cfg.BackgroundPath, dec)
	if err != nil {
		return nil, fmt.Errorf("failed to load background: %w", err)
	}
	log.Printf("Image: loaded %s background %dx%d", bg.Format, bg.Width(), bg.Height())

	base, err := bg.Raster(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	return NewSession(cfg, bbox, points, base)
}

// regionOf returns the configured bbox, or the extent of the outline file.
func regionOf(cfg *config.Config) (geometry.BoundingBox, error) {
	if cfg.BBox != nil {
		return *cfg.BBox, cfg.BBox.Validate()
	}
	bbox, err := gis.Extent(cfg.OutlinePath)
	if err != nil {
		return geometry.BoundingBox{}, fmt.Errorf("failed to read region outline: %w", err)
	}
	return bbox, nil
}

// NewSession creates a session over an already loaded region. background must have
// the configured raster size.
func NewSession(cfg *config.Config, bbox geometry.BoundingBox, points []geometry.Point2D, background *raster.Raster) (*Session, error) {
	if background.Width != cfg.Width || background.Height != cfg.Height {
		return nil, fmt.Errorf("background is %dx%d, want %dx%d",
			background.Width, background.Height, cfg.Width, cfg.Height)
	}
	m, err := mapping.New(bbox, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	rng, err := heat.ParseValueRange(cfg.ValueRange)
	if err != nil {
		return nil, err
	}
	strategy, err := heat.NewStrategy(cfg.Strategy, cfg.Radius, rng)
	if err != nil {
		return nil, err
	}
	rz, err := heat.NewRasterizer(strategy, cfg.ClusterSize)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:        cfg,
		mapper:     m,
		background: background,
		rasterizer: rz,
		renderOpts: features.DefaultRenderOptions(),
		points:     features.NewPointSet(points),
		scorer:     heat.NewProximityScorer(cfg.Radius),
		lastScore:  -1,
		listeners:  make(map[EventType][]EventListener),
	}
	if err := s.maybeIndex(); err != nil {
		return nil, err
	}
	log.Printf("Session: %s strategy, %s mode, cluster %d, %d features",
		strategy.Name(), cfg.Mode, cfg.ClusterSize, len(points))
	return s, nil
}

// maybeIndex builds the proximity index once the feature count reaches the threshold.
func (s *Session) maybeIndex() error {
	if s.index != nil || s.cfg.IndexThreshold <= 0 || s.points.FeatureCount() < s.cfg.IndexThreshold {
		return nil
	}
	idx, err := heat.NewIndexedScorer(s.points.Features(), s.cfg.Radius)
	if err != nil {
		return err
	}
	s.index = idx
	log.Printf("Session: indexed %d features for proximity scoring", idx.Len())
	return nil
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.Lock()
	listeners := s.listeners[event]
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Mapper returns the session's coordinate mapper.
func (s *Session) Mapper() *mapping.Mapper {
	return s.mapper
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Features returns the current feature set.
func (s *Session) Features() features.PointSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// Score counts features within the proximity radius of candidate.
func (s *Session) Score(candidate geometry.Point2D) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLocked(candidate)
}

func (s *Session) scoreLocked(candidate geometry.Point2D) int {
	if s.index != nil {
		return s.index.Score(candidate)
	}
	return s.scorer.Score(candidate, s.points.Features())
}

// Frame renders the overlay for one pointer event.
func (s *Session) Frame(ev PointerEvent) (*Frame, error) {
	s.mu.Lock()

	pressed := ev.PrimaryDown && !s.wasDown
	s.wasDown = ev.PrimaryDown

	base := s.background
	if s.cfg.Markers {
		base = base.Clone()
		features.RenderMarkers(base, s.points, s.mapper, s.renderOpts)
	}

	set := s.points.WithCandidate(s.mapper.PixelToGeo(ev.X, ev.Y))
	candidate, _ := set.Candidate()
	out, stats, err := s.rasterizer.RenderMapped(set, base, s.mapper)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	frame := &Frame{
		Raster:    out,
		Candidate: candidate,
		Score:     s.scoreLocked(candidate),
		Stats:     stats,
	}

	if s.cfg.Mode == config.ModeCommit && pressed {
		s.points = set.Commit()
		if s.index != nil {
			s.index.Insert(candidate)
		} else if err := s.maybeIndex(); err != nil {
			log.Printf("Session: failed to build index: %v", err)
		}
		frame.Committed = true
		log.Printf("Session: committed feature at (%.2f, %.2f), %d features",
			candidate.X, candidate.Y, s.points.FeatureCount())
	}

	if s.cfg.LogScore && frame.Score != s.lastScore {
		log.Printf("Session: proximity score %d at (%.2f, %.2f)", frame.Score, candidate.X, candidate.Y)
	}
	s.lastScore = frame.Score
	s.mu.Unlock()

	if frame.Committed {
		s.Emit(EventFeatureCommitted, candidate)
	}
	s.Emit(EventFrameRendered, frame)
	return frame, nil
}
