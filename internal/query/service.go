package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"rdhub/internal/aggregate"
	"rdhub/internal/catalog"
	"rdhub/internal/dataset"
	"rdhub/internal/equity"
	"rdhub/internal/query/cache"
	"rdhub/internal/query/metrics"
	"rdhub/internal/registry"
	"rdhub/internal/trend"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// Service composes the analytics engines behind the stable statistics
// contract. All computation is pure over the session's immutable frame; the
// memoization cache is the only shared state.
type Service struct {
	registry  *registry.Registry
	catalog   *catalog.Catalog
	aggregate *aggregate.Service
	equity    *equity.Service

	cache   cache.Cache
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	policy  trend.Policy
}

// Option configures the service.
type Option func(*Service)

// WithCache attaches a memoization backend.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithProjectionPolicy sets the projection policy (e.g. zero flooring).
func WithProjectionPolicy(p trend.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// New constructs the query façade.
func New(reg *registry.Registry, cat *catalog.Catalog, agg *aggregate.Service, eq *equity.Service, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, fmt.Errorf("country registry is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("indicator catalog is required")
	}
	if agg == nil {
		return nil, fmt.Errorf("aggregation service is required")
	}
	if eq == nil {
		return nil, fmt.Errorf("equity service is required")
	}
	s := &Service{
		registry:  reg,
		catalog:   cat,
		aggregate: agg,
		equity:    eq,
		tracer:    otel.Tracer("rdhub/internal/query"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Statistics answers one query against the session. Results are memoized
// keyed on the frame fingerprint plus the full argument tuple, so a data
// reload invalidates everything without manual cache busting.
func (s *Service) Statistics(ctx context.Context, session *Session, req Request) (*Statistics, error) {
	if session == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no dataset loaded")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	ctx, span := s.tracer.Start(ctx, "query.Statistics", trace.WithAttributes(
		attribute.String("family", string(req.Family)),
		attribute.String("indicator", req.Indicator),
	))
	defer span.End()

	if session.Frame().Family() != req.Family {
		return nil, dErrors.Newf(dErrors.CodeBadRequest,
			"session holds %s data, not %s", session.Frame().Family(), req.Family)
	}
	code, ok := s.catalog.Resolve(req.Family, req.Indicator)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown %s indicator: %q", req.Family, req.Indicator)
	}

	if s.metrics != nil {
		s.metrics.QueriesServed.WithLabelValues(string(req.Family)).Inc()
	}
	if s.cache == nil {
		return s.compute(ctx, session, req, code)
	}

	key := req.cacheKey(session.Frame().Fingerprint())
	if payload, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var stats Statistics
		if err := json.Unmarshal(payload, &stats); err == nil {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			return &stats, nil
		}
	} else if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "cache read failed", "error", err)
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}

	// Concurrent misses on the same key compute once; population is
	// idempotent because computation is deterministic.
	v, err, _ := s.group.Do(key, func() (any, error) {
		stats, err := s.compute(ctx, session, req, code)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, payload); err != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "cache write failed", "error", err)
			}
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Statistics), nil
}

func (s *Service) compute(ctx context.Context, session *Session, req Request, code domain.IndicatorCode) (*Statistics, error) {
	frame := session.Frame()
	def, _ := s.catalog.Definition(code)

	minYear, maxYear, ok := frame.YearRange(code)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no data for %s", code)
	}

	stats := &Statistics{
		IndicatorCode: code,
		Unit:          def.Unit,
		YearRange:     [2]int{minYear, maxYear},
		Fingerprint:   frame.Fingerprint(),
	}

	aggMethod := aggregate.DefaultMethod(def.Unit)
	if req.Aggregation != nil {
		aggMethod = *req.Aggregation
	}

	var series trend.Series
	if req.Country != "" {
		countryID, ok := s.registry.Resolve(req.Country)
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown country: %q", req.Country)
		}
		country, _ := s.registry.Lookup(countryID)
		stats.Country = country.Name

		var err error
		series, err = s.aggregate.CountryProfile(frame, countryID, code)
		if err != nil {
			return nil, err
		}
	} else {
		var points []trend.Point
		for year := minYear; year <= maxYear; year++ {
			summary, err := s.aggregate.RegionalSummary(frame, code, year, aggMethod)
			if err != nil {
				continue // years without member data are skipped, not zeroed
			}
			points = append(points, trend.Point{Year: year, Value: summary.Value})
		}
		var err error
		series, err = trend.NewSeries(points)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "building regional series")
		}
		if series.Len() == 0 {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no member data for %s", code)
		}
	}

	currentYear := series.Last().Year
	if req.Year != nil {
		currentYear = *req.Year
	}
	currentValue, found := valueAt(series, currentYear)
	if !found {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no data for %s in %d", code, currentYear)
	}

	stats.CurrentYear = currentYear
	stats.CurrentValue = currentValue
	stats.Trend = trend.Classify(series)
	stats.HistoricalSeries = series.Points()

	// Coverage is always reported so callers can discount thin years.
	if summary, err := s.aggregate.RegionalSummary(frame, code, currentYear, aggMethod); err == nil {
		stats.Coverage = summary.Countries
		if req.Country == "" {
			stats.RegionalSummary = &summary
		}
	}
	stats.LowCoverage = stats.Coverage*2 < s.registry.Size()
	if stats.LowCoverage && s.metrics != nil {
		s.metrics.LowCoverage.Inc()
	}

	if req.IncludeProjection {
		stats.Projections = s.project(ctx, series, req, code, def)
	}

	if req.IncludeRanking {
		ranking, err := s.aggregate.TopN(frame, code, currentYear, req.Top, req.Direction)
		if err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		stats.Ranking = ranking
	}

	if req.IncludeEquity {
		measure, err := s.equity.Compute(frame, code, currentYear)
		switch {
		case err == nil:
			stats.Equity = &measure
		case !dErrors.HasCode(err, dErrors.CodeNotFound):
			return nil, err
		}
	}

	return stats, nil
}

// project runs every requested method concurrently. A method failing its
// data or domain checks becomes an error tag on its own slot; it never
// fails the request or its sibling methods.
func (s *Service) project(ctx context.Context, series trend.Series, req Request, code domain.IndicatorCode, def catalog.Definition) []MethodProjection {
	target := s.catalog.TargetFor(code, req.TargetYear)
	results := make([]MethodProjection, len(req.Methods))

	var g errgroup.Group
	for i, method := range req.Methods {
		i, method := i, method
		g.Go(func() error {
			projection, err := trend.Project(series, method, req.TargetYear, target, def.Polarity, s.policy)
			if err != nil {
				results[i] = MethodProjection{Method: method, Error: string(dErrors.CodeOf(err))}
				if s.logger != nil {
					s.logger.DebugContext(ctx, "projection method failed",
						"method", method, "indicator", code, "error", err)
				}
				return nil
			}
			results[i] = MethodProjection{Method: method, Projection: &projection}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Overview summarizes the loaded session: the data summary the original
// upstream surfaces alongside every topic.
func (s *Service) Overview(ctx context.Context, session *Session) (*Overview, error) {
	if session == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no dataset loaded")
	}
	_, span := s.tracer.Start(ctx, "query.Overview")
	defer span.End()

	frame := session.Frame()
	defs := s.catalog.Definitions(frame.Family())
	infos := make([]IndicatorInfo, len(defs))
	for i, def := range defs {
		infos[i] = IndicatorInfo{Code: def.Code, Label: def.Label, Unit: def.Unit, Target2030: def.Target2030}
	}

	rejections := make(map[string]int)
	for reason, n := range dataset.CountByReason(session.Rejections()) {
		rejections[string(reason)] = n
	}
	if len(rejections) == 0 {
		rejections = nil
	}

	return &Overview{
		SessionID:   session.ID().String(),
		Family:      frame.Family(),
		Fingerprint: frame.Fingerprint(),
		LoadedAt:    session.LoadedAt().UTC().Format(time.RFC3339),
		Records:     frame.Len(),
		Countries:   len(frame.Countries()),
		Indicators:  infos,
		Rejections:  rejections,
	}, nil
}

func valueAt(series trend.Series, year int) (float64, bool) {
	for _, p := range series.Points() {
		if p.Year == year {
			return p.Value, true
		}
	}
	return 0, false
}
