package catalog

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"rdhub/pkg/domain"
)

// =============================================================================
// Indicator Catalog Test Suite
// =============================================================================
// Justification for unit tests: alias resolution is family-scoped and the
// 2030 targets drive every on-track verdict, so both are pinned against the
// published WHO column names and target values.

type CatalogSuite struct {
	suite.Suite
	catalog *Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.catalog = New()
}

func (s *CatalogSuite) TestResolveIsFamilyScoped() {
	s.Run("canonical code resolves in its own family", func() {
		code, ok := s.catalog.Resolve(domain.FamilyMortality, "mmr")
		s.True(ok)
		s.Equal(domain.IndicatorCode("mmr"), code)
	})

	s.Run("code from another family does not resolve", func() {
		_, ok := s.catalog.Resolve(domain.FamilyMortality, "tb_inc_100k")
		s.False(ok)
	})

	s.Run("who column aliases resolve", func() {
		code, ok := s.catalog.Resolve(domain.FamilyTBBurden, "e_inc_100k")
		s.True(ok)
		s.Equal(domain.IndicatorCode("tb_inc_100k"), code)

		code, ok = s.catalog.Resolve(domain.FamilyTBBurden, "c_cdr")
		s.True(ok)
		s.Equal(domain.IndicatorCode("cdr_pct"), code)
	})

	s.Run("resolution ignores case and whitespace", func() {
		code, ok := s.catalog.Resolve(domain.FamilyMortality, "  MMR ")
		s.True(ok)
		s.Equal(domain.IndicatorCode("mmr"), code)
	})
}

func (s *CatalogSuite) TestTargets() {
	cases := map[domain.IndicatorCode]float64{
		"mmr":     70,
		"u5mr":    25,
		"nmr":     12,
		"sbr":     12,
		"cdr_pct": 90,
		"tsr_pct": 90,
	}
	for code, want := range cases {
		target := s.catalog.TargetFor(code, 2030)
		s.Require().NotNil(target, "expected a 2030 target for %s", code)
		s.Equal(want, *target)
	}

	s.Run("indicators without a target return nil", func() {
		s.Nil(s.catalog.TargetFor("imr", 2030))
	})

	s.Run("targets are defined for 2030 only", func() {
		s.Nil(s.catalog.TargetFor("mmr", 2025))
	})

	s.Run("returned target is a copy", func() {
		first := s.catalog.TargetFor("mmr", 2030)
		*first = 1
		second := s.catalog.TargetFor("mmr", 2030)
		s.Equal(70.0, *second)
	})
}

func (s *CatalogSuite) TestPolarity() {
	s.Equal(domain.LowerIsBetter, s.catalog.Polarity("mmr"))
	s.Equal(domain.LowerIsBetter, s.catalog.Polarity("tb_inc_100k"))
	s.Equal(domain.HigherIsBetter, s.catalog.Polarity("cdr_pct"))
	s.Equal(domain.HigherIsBetter, s.catalog.Polarity("tsr_pct"))
}

func (s *CatalogSuite) TestDefinitionsAreSortedAndScoped() {
	defs := s.catalog.Definitions(domain.FamilyMortality)
	s.NotEmpty(defs)
	for i, def := range defs {
		s.Equal(domain.FamilyMortality, def.Family)
		if i > 0 {
			s.Less(string(defs[i-1].Code), string(def.Code))
		}
	}
}
