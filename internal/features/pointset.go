// Package features holds the known tree locations and the transient candidate point
// evaluated alongside them.
package features

import (
	"tree-heat/pkg/geometry"
)

// PointSet is an immutable ordered set of feature locations plus an optional candidate.
// The zero value is an empty set without a candidate. Methods that "change" the set
// return a new value and never write to the receiver's backing array.
type PointSet struct {
	features     []geometry.Point2D
	candidate    geometry.Point2D
	hasCandidate bool
}

// NewPointSet creates a PointSet from a copy of points.
func NewPointSet(points []geometry.Point2D) PointSet {
	owned := make([]geometry.Point2D, len(points))
	copy(owned, points)
	return PointSet{features: owned}
}

// WithCandidate returns the set with p as its candidate point.
func (s PointSet) WithCandidate(p geometry.Point2D) PointSet {
	s.candidate = p
	s.hasCandidate = true
	return s
}

// Candidate returns the candidate point, if any.
func (s PointSet) Candidate() (geometry.Point2D, bool) {
	return s.candidate, s.hasCandidate
}

// Features returns the fixed feature locations. The slice must not be modified.
func (s PointSet) Features() []geometry.Point2D {
	return s.features
}

// FeatureCount returns the number of fixed features.
func (s PointSet) FeatureCount() int {
	return len(s.features)
}

// Each calls fn for every feature, then for the candidate if present.
func (s PointSet) Each(fn func(p geometry.Point2D)) {
	for _, p := range s.features {
		fn(p)
	}
	if s.hasCandidate {
		fn(s.candidate)
	}
}

// Commit returns a set where the candidate has become a permanent feature.
// Without a candidate it returns s unchanged.
func (s PointSet) Commit() PointSet {
	if !s.hasCandidate {
		return s
	}
	next := make([]geometry.Point2D, len(s.features), len(s.features)+1)
	copy(next, s.features)
	return PointSet{features: append(next, s.candidate)}
}
