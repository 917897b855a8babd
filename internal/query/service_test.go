package query

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rdhub/internal/aggregate"
	"rdhub/internal/catalog"
	"rdhub/internal/dataset"
	"rdhub/internal/equity"
	"rdhub/internal/query/cache"
	"rdhub/internal/query/cache/mocks"
	"rdhub/internal/registry"
	"rdhub/internal/trend"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// =============================================================================
// Query Façade Test Suite
// =============================================================================
// Justification for unit tests: the façade's memoization, scope selection,
// and per-method error isolation are contract behavior that downstream
// collaborators depend on; the mock cache lets the hit/miss protocol be
// asserted call by call.

type QueryServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
	session *Session
}

func TestQueryServiceSuite(t *testing.T) {
	suite.Run(t, new(QueryServiceSuite))
}

func (s *QueryServiceSuite) newService(c cache.Cache) *Service {
	reg := registry.New()
	cat := catalog.New()
	agg, err := aggregate.New(reg)
	s.Require().NoError(err)
	eq, err := equity.New(reg)
	s.Require().NoError(err)

	opts := []Option{}
	if c != nil {
		opts = append(opts, WithCache(c))
	}
	svc, err := New(reg, cat, agg, eq, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *QueryServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.service = s.newService(nil)

	rec := func(country string, year int, value float64) dataset.Record {
		return dataset.Record{
			Country:   domain.CountryID(country),
			Indicator: "mmr",
			Year:      year,
			Value:     value,
		}
	}
	frame := dataset.NewFrame(domain.FamilyMortality, []dataset.Record{
		rec("KEN", 2018, 380), rec("KEN", 2019, 360), rec("KEN", 2020, 353), rec("KEN", 2021, 342),
		rec("NGA", 2018, 560), rec("NGA", 2019, 540), rec("NGA", 2020, 520), rec("NGA", 2021, 512),
		rec("GHA", 2018, 290), rec("GHA", 2019, 280), rec("GHA", 2020, 270), rec("GHA", 2021, 263),
		rec("MUS", 2021, 60),
	})
	s.session = NewSession(frame, nil, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
}

func (s *QueryServiceSuite) request() Request {
	return Request{Family: domain.FamilyMortality, Indicator: "mmr"}
}

func (s *QueryServiceSuite) TestCountryScope() {
	req := s.request()
	req.Country = "Kenya"

	stats, err := s.service.Statistics(s.ctx, s.session, req)
	s.Require().NoError(err)

	s.Equal(domain.IndicatorCode("mmr"), stats.IndicatorCode)
	s.Equal("Kenya", stats.Country)
	s.Equal(2021, stats.CurrentYear)
	s.Equal(342.0, stats.CurrentValue)
	s.Equal(trend.TrendDecreasing, stats.Trend)
	s.Len(stats.HistoricalSeries, 4)
	s.Equal([2]int{2018, 2021}, stats.YearRange)
	s.Equal(s.session.Frame().Fingerprint(), stats.Fingerprint)
	s.Nil(stats.RegionalSummary, "country scope carries no regional summary")
}

func (s *QueryServiceSuite) TestRegionalScope() {
	stats, err := s.service.Statistics(s.ctx, s.session, s.request())
	s.Require().NoError(err)

	s.Empty(stats.Country)
	s.Equal(2021, stats.CurrentYear)
	// mmr is a rate, so the regional series averages member values:
	// (342+512+263+60)/4 for 2021.
	s.InDelta(294.25, stats.CurrentValue, 1e-9)
	s.Require().NotNil(stats.RegionalSummary)
	s.Equal(aggregate.MethodMean, stats.RegionalSummary.Method)
	s.Equal(4, stats.Coverage)
	s.True(stats.LowCoverage, "4 of 47 members is low coverage")
}

func (s *QueryServiceSuite) TestExplicitYear() {
	year := 2019
	req := s.request()
	req.Country = "Kenya"
	req.Year = &year

	stats, err := s.service.Statistics(s.ctx, s.session, req)
	s.Require().NoError(err)
	s.Equal(2019, stats.CurrentYear)
	s.Equal(360.0, stats.CurrentValue)

	s.Run("year without data is not_found", func() {
		missing := 1990
		req.Year = &missing
		_, err := s.service.Statistics(s.ctx, s.session, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *QueryServiceSuite) TestProjections() {
	req := s.request()
	req.Country = "Kenya"
	req.IncludeProjection = true

	stats, err := s.service.Statistics(s.ctx, s.session, req)
	s.Require().NoError(err)
	s.Require().Len(stats.Projections, len(trend.Methods()), "defaults to every method")

	byMethod := map[trend.Method]MethodProjection{}
	for _, p := range stats.Projections {
		byMethod[p.Method] = p
	}
	linear := byMethod[trend.MethodLinear]
	s.Require().NotNil(linear.Projection)
	s.Empty(linear.Error)
	s.Equal(2030, linear.Projection.TargetYear)
	s.Require().NotNil(linear.Projection.Target, "mmr carries a 2030 target")
	s.Equal(70.0, *linear.Projection.Target)
	s.NotNil(linear.Projection.OnTrack)
}

func (s *QueryServiceSuite) TestProjectionMethodErrorsAreIsolated() {
	// Mauritius has a single observation: every method lacks data, but the
	// request itself must still succeed.
	req := s.request()
	req.Country = "Mauritius"
	req.IncludeProjection = true
	req.Methods = []trend.Method{trend.MethodLinear, trend.MethodAARR}

	stats, err := s.service.Statistics(s.ctx, s.session, req)
	s.Require().NoError(err)
	s.Require().Len(stats.Projections, 2)
	for _, p := range stats.Projections {
		s.Nil(p.Projection)
		s.Equal(string(dErrors.CodeInsufficientData), p.Error)
	}
}

func (s *QueryServiceSuite) TestRankingAndEquity() {
	req := s.request()
	req.IncludeRanking = true
	req.IncludeEquity = true
	req.Top = 2

	stats, err := s.service.Statistics(s.ctx, s.session, req)
	s.Require().NoError(err)

	s.Require().Len(stats.Ranking, 2)
	s.Equal(domain.CountryID("NGA"), stats.Ranking[0].Country)
	s.Equal(domain.CountryID("KEN"), stats.Ranking[1].Country)

	s.Require().NotNil(stats.Equity)
	s.Equal(4, stats.Equity.Countries)
	s.Equal(60.0, stats.Equity.Min)
	s.Equal(512.0, stats.Equity.Max)
}

func (s *QueryServiceSuite) TestValidation() {
	s.Run("family mismatch is bad_request", func() {
		req := s.request()
		req.Family = domain.FamilyTBBurden
		req.Indicator = "tb_inc_100k"
		_, err := s.service.Statistics(s.ctx, s.session, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown indicator is not_found", func() {
		req := s.request()
		req.Indicator = "life_expectancy"
		_, err := s.service.Statistics(s.ctx, s.session, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown country is not_found", func() {
		req := s.request()
		req.Country = "Atlantis"
		_, err := s.service.Statistics(s.ctx, s.session, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("nil session is not_found", func() {
		_, err := s.service.Statistics(s.ctx, nil, s.request())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *QueryServiceSuite) TestCacheMissComputesAndStores() {
	ctrl := gomock.NewController(s.T())
	mockCache := mocks.NewMockCache(ctrl)
	service := s.newService(mockCache)

	var storedKey string
	var storedPayload []byte
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, payload []byte) error {
			storedKey = key
			storedPayload = payload
			return nil
		})

	req := s.request()
	req.Country = "Kenya"
	stats, err := service.Statistics(s.ctx, s.session, req)
	s.Require().NoError(err)

	s.Contains(storedKey, s.session.Frame().Fingerprint(), "key embeds the dataset fingerprint")

	var stored Statistics
	s.Require().NoError(json.Unmarshal(storedPayload, &stored))
	s.Equal(stats.CurrentValue, stored.CurrentValue)
}

func (s *QueryServiceSuite) TestCacheHitSkipsCompute() {
	ctrl := gomock.NewController(s.T())
	mockCache := mocks.NewMockCache(ctrl)
	service := s.newService(mockCache)

	canned := &Statistics{IndicatorCode: "mmr", CurrentYear: 2021, CurrentValue: 999}
	payload, err := json.Marshal(canned)
	s.Require().NoError(err)

	// Set is never expected: a hit must not recompute or rewrite.
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(payload, true, nil)

	stats, err := service.Statistics(s.ctx, s.session, s.request())
	s.Require().NoError(err)
	s.Equal(999.0, stats.CurrentValue)
}

func (s *QueryServiceSuite) TestCacheReadFailureFallsThrough() {
	ctrl := gomock.NewController(s.T())
	mockCache := mocks.NewMockCache(ctrl)
	service := s.newService(mockCache)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, dErrors.New(dErrors.CodeInternal, "redis down"))
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	stats, err := service.Statistics(s.ctx, s.session, s.request())
	s.Require().NoError(err, "a broken cache degrades to compute, never to failure")
	s.Equal(2021, stats.CurrentYear)
}

func (s *QueryServiceSuite) TestConcurrentMissesComputeOnce() {
	memory := cache.NewMemory()
	service := s.newService(memory)

	var wg sync.WaitGroup
	results := make([]*Statistics, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stats, err := service.Statistics(s.ctx, s.session, s.request())
			s.NoError(err)
			results[i] = stats
		}(i)
	}
	wg.Wait()

	for _, stats := range results {
		s.Require().NotNil(stats)
		s.Equal(results[0].CurrentValue, stats.CurrentValue)
	}
	s.Equal(1, memory.Len(), "all callers share one cached entry")
}

func (s *QueryServiceSuite) TestOverview() {
	overview, err := s.service.Overview(s.ctx, s.session)
	s.Require().NoError(err)

	s.Equal(s.session.ID().String(), overview.SessionID)
	s.Equal(domain.FamilyMortality, overview.Family)
	s.Equal(13, overview.Records)
	s.Equal(4, overview.Countries)
	s.Equal("2026-08-01T12:00:00Z", overview.LoadedAt)
	s.NotEmpty(overview.Indicators)
	s.Nil(overview.Rejections)
}

func (s *QueryServiceSuite) TestOverviewReportsRejections() {
	rejections := []dataset.Rejection{
		{Reason: dataset.RejectUnknownCountry, Row: 2, Label: "Atlantis"},
		{Reason: dataset.RejectUnknownCountry, Row: 5, Label: "Lemuria"},
		{Reason: dataset.RejectMalformedRow, Row: 9, Label: "20xx"},
	}
	session := NewSession(s.session.Frame(), rejections, time.Now())

	overview, err := s.service.Overview(s.ctx, session)
	s.Require().NoError(err)
	s.Equal(map[string]int{
		string(dataset.RejectUnknownCountry): 2,
		string(dataset.RejectMalformedRow):   1,
	}, overview.Rejections)
}

func (s *QueryServiceSuite) TestHolderSwapChangesFingerprint() {
	holder := NewHolder(s.session)

	current, err := holder.Current()
	s.Require().NoError(err)
	before, err := s.service.Statistics(s.ctx, current, s.request())
	s.Require().NoError(err)

	smaller := dataset.NewFrame(domain.FamilyMortality, s.session.Frame().Records()[:8])
	holder.Swap(NewSession(smaller, nil, time.Now()))

	current, err = holder.Current()
	s.Require().NoError(err)
	after, err := s.service.Statistics(s.ctx, current, s.request())
	s.Require().NoError(err)

	s.NotEqual(before.Fingerprint, after.Fingerprint)
}

func (s *QueryServiceSuite) TestEmptyHolder() {
	holder := NewHolder(nil)
	_, err := holder.Current()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
