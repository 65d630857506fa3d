package heat

import (
	"fmt"
	"math"

	"tree-heat/internal/features"
	"tree-heat/pkg/colorutil"
	"tree-heat/pkg/geometry"
)

// Strategy decides what is sampled once per grid cell and how that sample tints
// each pixel of the cell.
type Strategy interface {
	// Name identifies the strategy in configuration and logs.
	Name() string

	// Sample evaluates the strategy's scalar function at a geographic location.
	Sample(at geometry.Point2D, s features.PointSet) Sample

	// Shade returns the packed color c tinted by sample.
	Shade(c uint32, sample Sample) uint32
}

// Strategy names accepted by NewStrategy.
const (
	StrategyInverseDistance = "inverse-distance"
	StrategyProximity       = "proximity"
)

// NewStrategy builds a strategy by name.
func NewStrategy(name string, radius float64, rng ValueRange) (Strategy, error) {
	switch name {
	case StrategyInverseDistance:
		return NewInverseDistance(rng), nil
	case StrategyProximity:
		if !(radius > 0) {
			return nil, fmt.Errorf("proximity strategy: radius must be positive, got %g", radius)
		}
		return NewProximityThreshold(radius), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// ValueRange selects how inverse-distance values outside [0, 1] reach the blend.
type ValueRange int

const (
	// RangeSaturate clamps values to [0, 1] before blending.
	RangeSaturate ValueRange = iota
	// RangeExtended blends raw values and relies on channel clamping.
	RangeExtended
)

func (r ValueRange) String() string {
	switch r {
	case RangeSaturate:
		return "saturate"
	case RangeExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// ParseValueRange parses "saturate" or "extended".
func ParseValueRange(s string) (ValueRange, error) {
	switch s {
	case "saturate", "":
		return RangeSaturate, nil
	case "extended":
		return RangeExtended, nil
	default:
		return RangeSaturate, fmt.Errorf("unknown value range %q", s)
	}
}

// SingularValue stands in for a singular sample in RangeExtended. It is negative
// enough to drive green to 0 and any nonzero red or blue to 255.
const SingularValue = -255.0

// InverseDistance tints toward pure green as the influence field approaches 1
// and leaves the background alone (or darkens it, in RangeExtended) near points.
type InverseDistance struct {
	Field *InfluenceField
	Range ValueRange
}

// NewInverseDistance creates the inverse-distance strategy.
func NewInverseDistance(rng ValueRange) *InverseDistance {
	return &InverseDistance{Field: NewInfluenceField(), Range: rng}
}

func (id *InverseDistance) Name() string { return StrategyInverseDistance }

// Sample evaluates the influence field.
func (id *InverseDistance) Sample(at geometry.Point2D, s features.PointSet) Sample {
	return id.Field.Evaluate(at, s)
}

// BlendValue resolves a sample to the fraction used by Shade.
func (id *InverseDistance) BlendValue(sample Sample) float64 {
	if id.Range == RangeExtended {
		if sample.Singular {
			return SingularValue
		}
		return sample.Value
	}
	if sample.Singular {
		return 0
	}
	return math.Max(0, math.Min(1, sample.Value))
}

// Shade moves green toward 255 and red/blue toward 0 by the blend value.
func (id *InverseDistance) Shade(c uint32, sample Sample) uint32 {
	v := id.BlendValue(sample)
	r, g, b := colorutil.Unpack(c)
	rf, gf, bf := float64(r), float64(g), float64(b)
	return colorutil.PackFloat(
		rf-rf*v,
		gf+(255-gf)*v,
		bf-bf*v,
	)
}

// ProximityThreshold tints a cell red when any point lies within the radius of
// its anchor.
type ProximityThreshold struct {
	Scorer ProximityScorer
}

// NewProximityThreshold creates the proximity-threshold strategy.
func NewProximityThreshold(radius float64) *ProximityThreshold {
	return &ProximityThreshold{Scorer: NewProximityScorer(radius)}
}

func (pt *ProximityThreshold) Name() string { return StrategyProximity }

// Sample counts points within the radius; the count is returned as Value.
func (pt *ProximityThreshold) Sample(at geometry.Point2D, s features.PointSet) Sample {
	return Sample{Value: float64(pt.Scorer.ScoreSet(at, s))}
}

// Shade doubles red and halves green and blue when the sample counted any point.
// Halving truncates.
func (pt *ProximityThreshold) Shade(c uint32, sample Sample) uint32 {
	if sample.Singular || sample.Value <= 0 {
		return c & 0xFFFFFF
	}
	r, g, b := colorutil.Unpack(c)
	return colorutil.Pack(colorutil.ClampChannel(float64(r)*2), g/2, b/2)
}
