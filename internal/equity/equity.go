// Package equity computes cross-country dispersion statistics for one
// indicator and year: how unevenly a burden is distributed across the
// membership.
package equity

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"rdhub/internal/dataset"
	"rdhub/internal/registry"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// Measure is the equity cross-section for one indicator and year. All fields
// are computed from the same filtered sample: member countries with a
// present national value.
type Measure struct {
	Indicator domain.IndicatorCode `json:"indicator_code"`
	Year      int                  `json:"year"`
	Min       float64              `json:"min"`
	Max       float64              `json:"max"`
	Range     float64              `json:"range"`
	// Ratio is max/min; nil (not +Inf) when min is zero or negative.
	Ratio *float64 `json:"ratio"`
	// CV is the coefficient of variation in percent (population sigma over
	// mean); nil when the mean is not positive.
	CV        *float64 `json:"coefficient_of_variation"`
	Median    float64  `json:"median"`
	P25       float64  `json:"p25"`
	P75       float64  `json:"p75"`
	IQR       float64  `json:"iqr"`
	Countries int      `json:"n_countries"`
}

// Service is the equity calculator.
type Service struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the equity calculator.
func New(reg *registry.Registry, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, fmt.Errorf("country registry is required")
	}
	s := &Service{registry: reg}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Compute builds the equity measure over member countries with data for the
// indicator and year. Callers should discount measures with a small
// Countries count.
func (s *Service) Compute(frame dataset.Frame, indicator domain.IndicatorCode, year int) (Measure, error) {
	var values []float64
	for _, r := range frame.CrossSection(indicator, year) {
		if s.registry.IsMember(r.Country) {
			values = append(values, r.Value)
		}
	}
	if len(values) == 0 {
		return Measure{}, dErrors.Newf(dErrors.CodeNotFound, "no data for %s in %d", indicator, year)
	}

	sort.Float64s(values)
	minV, maxV := values[0], values[len(values)-1]

	m := Measure{
		Indicator: indicator,
		Year:      year,
		Min:       minV,
		Max:       maxV,
		Range:     maxV - minV,
		Median:    percentile(values, 50),
		P25:       percentile(values, 25),
		P75:       percentile(values, 75),
		Countries: len(values),
	}
	m.IQR = m.P75 - m.P25

	if minV > 0 {
		ratio := maxV / minV
		m.Ratio = &ratio
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean > 0 {
		var variance float64
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(values))
		cv := math.Sqrt(variance) / mean * 100
		m.CV = &cv
	}

	return m, nil
}

// percentile computes the p-th percentile with linear interpolation between
// closest ranks, over an already sorted sample.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
