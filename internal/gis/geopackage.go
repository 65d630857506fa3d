// Package gis loads tree locations and region outlines from vector datasets.
package gis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"tree-heat/pkg/geometry"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	_ "modernc.org/sqlite"
)

var (
	// ErrInvalidGeoPackageBlob is returned for geometry blobs without a valid GP header.
	ErrInvalidGeoPackageBlob = errors.New("invalid GeoPackage geometry blob")
	// ErrNoFeatures is returned when a source yields no usable geometry.
	ErrNoFeatures = errors.New("no features")
	// ErrUnsupportedGeometry is returned for source formats that cannot be read.
	ErrUnsupportedGeometry = errors.New("unsupported geometry source")
)

// LoadGeoPackagePoints reads the point features of layer from the GeoPackage at path.
// When roi is non-nil only points inside it are returned, matching a spatial filter
// against the region polygon.
func LoadGeoPackagePoints(ctx context.Context, path, layer string, roi *geometry.BoundingBox) ([]geometry.Point2D, error) {
	// sql.Open would happily create an empty database for a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open GeoPackage: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoPackage: %w", err)
	}
	defer db.Close()

	var column string
	err = db.QueryRowContext(ctx,
		`SELECT column_name FROM gpkg_geometry_columns WHERE table_name = ?`, layer,
	).Scan(&column)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("layer %q not found in %s", layer, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry columns: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, quoteIdent(column), quoteIdent(layer))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query layer %q: %w", layer, err)
	}
	defer rows.Close()

	var points []geometry.Point2D
	skipped := 0
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan feature: %w", err)
		}
		if blob == nil {
			skipped++
			continue
		}

		g, err := DecodeGeoPackageGeometry(blob)
		if err != nil {
			return nil, err
		}
		p, ok := pointOf(g)
		if !ok {
			skipped++
			continue
		}
		if roi == nil || roi.Contains(p) {
			points = append(points, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read layer %q: %w", layer, err)
	}

	if skipped > 0 {
		log.Printf("GIS: skipped %d empty or non-point features in %s", skipped, layer)
	}
	return points, nil
}

// envelopeSizes maps the GP header envelope indicator to the envelope length in bytes.
var envelopeSizes = map[byte]int{0: 0, 1: 32, 2: 48, 3: 48, 4: 64}

// DecodeGeoPackageGeometry strips the GeoPackage binary header and decodes the WKB
// body. Empty geometries decode to nil.
func DecodeGeoPackageGeometry(b []byte) (orb.Geometry, error) {
	if len(b) < 8 || b[0] != 'G' || b[1] != 'P' {
		return nil, fmt.Errorf("%w: missing GP magic", ErrInvalidGeoPackageBlob)
	}
	flags := b[3]
	if flags&0x20 != 0 {
		return nil, fmt.Errorf("%w: extended geometries are not supported", ErrInvalidGeoPackageBlob)
	}

	envLen, ok := envelopeSizes[(flags>>1)&0x07]
	if !ok {
		return nil, fmt.Errorf("%w: envelope indicator %d", ErrInvalidGeoPackageBlob, (flags>>1)&0x07)
	}
	start := 8 + envLen
	if len(b) < start {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidGeoPackageBlob)
	}
	if flags&0x10 != 0 {
		return nil, nil
	}

	g, err := wkb.Unmarshal(b[start:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeoPackageBlob, err)
	}
	return g, nil
}

// pointOf returns the location of a point geometry, or the first point of a multipoint.
func pointOf(g orb.Geometry) (geometry.Point2D, bool) {
	switch g := g.(type) {
	case orb.Point:
		return geometry.Point2D{X: g.X(), Y: g.Y()}, true
	case orb.MultiPoint:
		if len(g) > 0 {
			return geometry.Point2D{X: g[0].X(), Y: g[0].Y()}, true
		}
	}
	return geometry.Point2D{}, false
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
