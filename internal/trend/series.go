// Package trend extracts ordered historical series and projects future
// values with a closed set of interchangeable methods. The engine never
// decides which method is correct — callers request methods and read the
// results side by side.
package trend

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	dErrors "rdhub/pkg/domain-errors"
)

// Point is one observation in a series.
type Point struct {
	Year  int      `json:"year"`
	Value float64  `json:"value"`
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

// Series is an ordered historical series for one (country or region,
// indicator). Years are strictly increasing with no duplicates; the
// constructor enforces this.
type Series struct {
	points []Point
}

// NewSeries validates and builds a series. Points are sorted by year;
// duplicate years are rejected.
func NewSeries(points []Point) (Series, error) {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Year == sorted[i-1].Year {
			return Series{}, dErrors.Newf(dErrors.CodeInvalidInput, "duplicate year %d in series", sorted[i].Year)
		}
	}
	return Series{points: sorted}, nil
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.points) }

// Points returns a copy of the observations in year order.
func (s Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// First returns the earliest observation. Panics on an empty series;
// callers gate on Len.
func (s Series) First() Point { return s.points[0] }

// Last returns the latest observation.
func (s Series) Last() Point { return s.points[len(s.points)-1] }

// Hash returns a stable content fingerprint of the series, used to tie a
// projection back to the exact data it was computed from.
func (s Series) Hash() string {
	h := fnv.New64a()
	for _, p := range s.points {
		fmt.Fprintf(h, "%d:%g\n", p.Year, p.Value)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// AllPositive reports whether every value is strictly positive, the domain
// requirement for log-space methods.
func (s Series) AllPositive() bool {
	for _, p := range s.points {
		if p.Value <= 0 {
			return false
		}
	}
	return true
}

func (s Series) years() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = float64(p.Year)
	}
	return out
}

func (s Series) values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// TrendClass is a qualitative description of a series direction.
type TrendClass string

const (
	TrendIncreasing   TrendClass = "increasing"
	TrendDecreasing   TrendClass = "decreasing"
	TrendStable       TrendClass = "stable"
	TrendInsufficient TrendClass = "insufficient_data"
)

// Classify labels the series direction from the least-squares slope relative
// to the series mean. Slopes within 1% of the mean per year count as stable.
func Classify(s Series) TrendClass {
	if s.Len() < 2 {
		return TrendInsufficient
	}
	slope, _ := ols(s.years(), s.values())
	mean := 0.0
	for _, v := range s.values() {
		mean += v
	}
	mean /= float64(s.Len())

	if mean != 0 && math.Abs(slope/mean) < 0.01 {
		return TrendStable
	}
	switch {
	case slope < 0:
		return TrendDecreasing
	case slope > 0:
		return TrendIncreasing
	default:
		return TrendStable
	}
}
