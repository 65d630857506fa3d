package gis

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"tree-heat/pkg/geometry"

	"github.com/ctessum/geom/encoding/shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Extent returns the bounding box of every geometry in an outline file.
// Shapefiles (.shp) and GeoJSON (.geojson, .json) are supported.
func Extent(path string) (geometry.BoundingBox, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return shapefileExtent(path)
	case ".geojson", ".json":
		fc, err := readFeatureCollection(path)
		if err != nil {
			return geometry.BoundingBox{}, err
		}
		return geoJSONExtent(fc)
	default:
		return geometry.BoundingBox{}, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, path)
	}
}

func shapefileExtent(path string) (geometry.BoundingBox, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return geometry.BoundingBox{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer dec.Close()

	box := geometry.BoundingBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	n := 0
	for {
		g, _, more := dec.DecodeRowFields()
		if !more {
			break
		}
		if g == nil {
			continue
		}
		b := g.Bounds()
		box.MinX = math.Min(box.MinX, b.Min.X)
		box.MinY = math.Min(box.MinY, b.Min.Y)
		box.MaxX = math.Max(box.MaxX, b.Max.X)
		box.MaxY = math.Max(box.MaxY, b.Max.Y)
		n++
	}
	if err := dec.Error(); err != nil {
		return geometry.BoundingBox{}, fmt.Errorf("failed to read shapefile: %w", err)
	}
	if n == 0 {
		return geometry.BoundingBox{}, fmt.Errorf("%w in %s", ErrNoFeatures, path)
	}
	return box, box.Validate()
}

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GeoJSON: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode GeoJSON: %w", err)
	}
	return fc, nil
}

func geoJSONExtent(fc *geojson.FeatureCollection) (geometry.BoundingBox, error) {
	var bound orb.Bound
	n := 0
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		if n == 0 {
			bound = f.Geometry.Bound()
		} else {
			bound = bound.Union(f.Geometry.Bound())
		}
		n++
	}
	if n == 0 {
		return geometry.BoundingBox{}, ErrNoFeatures
	}
	box := geometry.BoundingBox{MinX: bound.Min.X(), MinY: bound.Min.Y(), MaxX: bound.Max.X(), MaxY: bound.Max.Y()}
	return box, box.Validate()
}

// LoadGeoJSONPoints reads point features from a GeoJSON FeatureCollection, keeping
// only those inside roi when it is non-nil.
func LoadGeoJSONPoints(path string, roi *geometry.BoundingBox) ([]geometry.Point2D, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}
	var points []geometry.Point2D
	for _, f := range fc.Features {
		p, ok := pointOf(f.Geometry)
		if !ok {
			continue
		}
		if roi == nil || roi.Contains(p) {
			points = append(points, p)
		}
	}
	return points, nil
}

// LoadPoints dispatches on the dataset extension: .gpkg reads layer, .geojson/.json
// ignore it.
func LoadPoints(ctx context.Context, path, layer string, roi *geometry.BoundingBox) ([]geometry.Point2D, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpkg":
		return LoadGeoPackagePoints(ctx, path, layer, roi)
	case ".geojson", ".json":
		return LoadGeoJSONPoints(path, roi)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, path)
	}
}
