// Package aggregate computes regional summaries, country rankings, and
// per-country profiles over a loaded frame. All computation is restricted to
// registry members; non-member records never contribute to an aggregate.
package aggregate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"rdhub/internal/dataset"
	"rdhub/internal/registry"
	"rdhub/internal/trend"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// Method selects how a regional summary combines country values.
type Method string

const (
	MethodSum  Method = "sum"
	MethodMean Method = "mean"
)

// ParseMethod validates an aggregation method selector.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodSum, MethodMean:
		return m, nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown aggregation method: %q", s)
}

// DefaultMethod returns the aggregation policy for an indicator unit:
// absolute case counts sum across countries, rates and percentages average.
func DefaultMethod(unit string) Method {
	if strings.Contains(unit, "cases") && !strings.Contains(unit, "per") {
		return MethodSum
	}
	return MethodMean
}

// Direction orders a ranking.
type Direction string

const (
	DirectionHighest Direction = "highest"
	DirectionLowest  Direction = "lowest"
)

// ParseDirection validates a ranking direction selector.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionHighest, DirectionLowest:
		return d, nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown ranking direction: %q", s)
}

// Summary is a regional aggregate for one indicator and year.
type Summary struct {
	Indicator domain.IndicatorCode `json:"indicator_code"`
	Year      int                  `json:"year"`
	Value     float64              `json:"aggregate_value"`
	Method    Method               `json:"aggregation_method"`
	Countries int                  `json:"contributing_country_count"`
}

// TrendPoint is one year of the regional trend: the dispersion of member
// values alongside the aggregate.
type TrendPoint struct {
	Year      int     `json:"year"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Countries int     `json:"countries"`
}

// Ranking is one entry of a top-N result.
type Ranking struct {
	Country domain.CountryID `json:"country"`
	Name    string           `json:"name"`
	Value   float64          `json:"value"`
	Rank    int              `json:"rank"`
}

// Service is the aggregation engine.
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

// New constructs the aggregation engine.
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

// memberCrossSection returns the member-country national records for one
// indicator and year.
func (s *Service) memberCrossSection(frame dataset.Frame, indicator domain.IndicatorCode, year int) []dataset.Record {
	var out []dataset.Record
	for _, r := range frame.CrossSection(indicator, year) {
		if s.registry.IsMember(r.Country) {
			out = append(out, r)
		}
	}
	return out
}

// RegionalSummary sums or averages member values for one indicator and year.
// Countries reports the distinct contributing countries so callers can flag
// low-coverage years.
func (s *Service) RegionalSummary(frame dataset.Frame, indicator domain.IndicatorCode, year int, method Method) (Summary, error) {
	records := s.memberCrossSection(frame, indicator, year)
	if len(records) == 0 {
		return Summary{}, dErrors.Newf(dErrors.CodeNotFound, "no data for %s in %d", indicator, year)
	}

	var total float64
	for _, r := range records {
		total += r.Value
	}
	value := total
	if method == MethodMean {
		value = total / float64(len(records))
	}

	return Summary{
		Indicator: indicator,
		Year:      year,
		Value:     value,
		Method:    method,
		Countries: len(records),
	}, nil
}

// RegionalTrend computes the per-year dispersion of member values across the
// indicator's full year range. Years without data are skipped.
func (s *Service) RegionalTrend(frame dataset.Frame, indicator domain.IndicatorCode) ([]TrendPoint, error) {
	minYear, maxYear, ok := frame.YearRange(indicator)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no data for %s", indicator)
	}

	var out []TrendPoint
	for year := minYear; year <= maxYear; year++ {
		records := s.memberCrossSection(frame, indicator, year)
		if len(records) == 0 {
			continue
		}
		values := make([]float64, len(records))
		var total float64
		minV, maxV := records[0].Value, records[0].Value
		for i, r := range records {
			values[i] = r.Value
			total += r.Value
			if r.Value < minV {
				minV = r.Value
			}
			if r.Value > maxV {
				maxV = r.Value
			}
		}
		out = append(out, TrendPoint{
			Year:      year,
			Mean:      total / float64(len(records)),
			Median:    median(values),
			Min:       minV,
			Max:       maxV,
			Countries: len(records),
		})
	}
	return out, nil
}

// TopN ranks member countries by value for one indicator and year. Ties are
// broken by canonical country name ascending so results are deterministic.
// Fewer than n entries are returned when fewer countries have data.
func (s *Service) TopN(frame dataset.Frame, indicator domain.IndicatorCode, year, n int, direction Direction) ([]Ranking, error) {
	if n <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "ranking size must be positive")
	}
	records := s.memberCrossSection(frame, indicator, year)
	if len(records) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no data for %s in %d", indicator, year)
	}

	entries := make([]Ranking, 0, len(records))
	for _, r := range records {
		country, _ := s.registry.Lookup(r.Country)
		entries = append(entries, Ranking{Country: r.Country, Name: country.Name, Value: r.Value})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			if direction == DirectionLowest {
				return entries[i].Value < entries[j].Value
			}
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Name < entries[j].Name
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// CountryProfile extracts the full historical series for one country and
// indicator.
func (s *Service) CountryProfile(frame dataset.Frame, country domain.CountryID, indicator domain.IndicatorCode) (trend.Series, error) {
	if _, ok := s.registry.Lookup(country); !ok {
		return trend.Series{}, dErrors.Newf(dErrors.CodeNotFound, "unknown country %s", country)
	}
	records := frame.CountrySeries(country, indicator)
	if len(records) == 0 {
		return trend.Series{}, dErrors.Newf(dErrors.CodeNotFound, "no data for %s in %s", indicator, country)
	}

	points := make([]trend.Point, len(records))
	for i, r := range records {
		points[i] = trend.Point{Year: r.Year, Value: r.Value, Lower: r.Lower, Upper: r.Upper}
	}
	series, err := trend.NewSeries(points)
	if err != nil {
		// Frame uniqueness guarantees distinct years; a failure here is a bug.
		return trend.Series{}, dErrors.Wrap(err, dErrors.CodeInternal, "invalid country series")
	}
	return series, nil
}

// StratifiedBreakdown returns the stratifier breakdown (sex, age band, or
// case category) for one country, indicator, and year.
func (s *Service) StratifiedBreakdown(frame dataset.Frame, country domain.CountryID, indicator domain.IndicatorCode, year int) (map[string]float64, error) {
	breakdown := frame.Stratified(country, indicator, year)
	if len(breakdown) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no stratified data for %s in %s, %d", indicator, country, year)
	}
	return breakdown, nil
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
