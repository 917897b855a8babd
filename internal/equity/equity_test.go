package equity

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"rdhub/internal/dataset"
	"rdhub/internal/registry"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// =============================================================================
// Equity Calculator Test Suite
// =============================================================================
// Justification for unit tests: the nil-vs-infinity edge cases (ratio with a
// zero minimum, CV with a non-positive mean) and the interpolated percentiles
// are exactly the places a naive reimplementation goes wrong, so they are
// pinned against hand-computed values.

type EquitySuite struct {
	suite.Suite
	registry *registry.Registry
	service  *Service
}

func TestEquitySuite(t *testing.T) {
	suite.Run(t, new(EquitySuite))
}

func (s *EquitySuite) SetupTest() {
	s.registry = registry.New()

	var err error
	s.service, err = New(s.registry)
	s.Require().NoError(err)
}

func (s *EquitySuite) frameWith(values map[string]float64) dataset.Frame {
	var records []dataset.Record
	for country, value := range values {
		records = append(records, dataset.Record{
			Country:   domain.CountryID(country),
			Indicator: "mmr",
			Year:      2020,
			Value:     value,
		})
	}
	return dataset.NewFrame(domain.FamilyMortality, records)
}

// TestSkewedDistribution pins the measure for a heavily skewed cross-section,
// the shape maternal mortality actually has across the region.
func (s *EquitySuite) TestSkewedDistribution() {
	frame := s.frameWith(map[string]float64{
		"MUS": 22,
		"KEN": 160,
		"NGA": 3600,
		"SSD": 510000,
	})

	m, err := s.service.Compute(frame, "mmr", 2020)
	s.Require().NoError(err)

	s.Equal(4, m.Countries)
	s.Equal(22.0, m.Min)
	s.Equal(510000.0, m.Max)
	s.Equal(509978.0, m.Range)

	s.Require().NotNil(m.Ratio)
	s.InDelta(23181.8, *m.Ratio, 0.1)

	// Linear interpolation between closest ranks on a 4-point sample.
	s.InDelta(1880.0, m.Median, 1e-9)
	s.InDelta(125.5, m.P25, 1e-9)
	s.InDelta(130200.0, m.P75, 1e-9)
	s.InDelta(130074.5, m.IQR, 1e-9)

	// Population sigma over mean, in percent.
	s.Require().NotNil(m.CV)
	s.InDelta(171.5, *m.CV, 0.5)
}

func (s *EquitySuite) TestRatioUndefinedAtZeroMinimum() {
	frame := s.frameWith(map[string]float64{
		"MUS": 0,
		"KEN": 160,
		"NGA": 3600,
	})

	m, err := s.service.Compute(frame, "mmr", 2020)
	s.Require().NoError(err)
	s.Nil(m.Ratio, "ratio must be omitted, not +Inf, when min is zero")
	s.NotNil(m.CV)
}

func (s *EquitySuite) TestCVUndefinedAtNonPositiveMean() {
	frame := s.frameWith(map[string]float64{
		"MUS": -5,
		"KEN": 5,
	})

	m, err := s.service.Compute(frame, "mmr", 2020)
	s.Require().NoError(err)
	s.Nil(m.CV)
	s.Nil(m.Ratio)
}

func (s *EquitySuite) TestSingleCountry() {
	frame := s.frameWith(map[string]float64{"KEN": 160})

	m, err := s.service.Compute(frame, "mmr", 2020)
	s.Require().NoError(err)
	s.Equal(1, m.Countries)
	s.Equal(160.0, m.Median)
	s.Equal(160.0, m.P25)
	s.Equal(160.0, m.P75)
	s.Equal(0.0, m.IQR)
	s.Equal(0.0, m.Range)
}

func (s *EquitySuite) TestExcludesNonMembers() {
	frame := s.frameWith(map[string]float64{
		"KEN": 160,
		"NGA": 3600,
		"EGY": 1, // non-member; would distort min and ratio if included
	})

	m, err := s.service.Compute(frame, "mmr", 2020)
	s.Require().NoError(err)
	s.Equal(2, m.Countries)
	s.Equal(160.0, m.Min)
}

func (s *EquitySuite) TestNoDataIsNotFound() {
	frame := s.frameWith(map[string]float64{"KEN": 160})

	_, err := s.service.Compute(frame, "mmr", 2019)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
