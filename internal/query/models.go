package query

import (
	"fmt"
	"strings"

	"rdhub/internal/aggregate"
	"rdhub/internal/equity"
	"rdhub/internal/trend"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// Default request parameters.
const (
	DefaultTargetYear = 2030
	DefaultTopN       = 10
)

// Request keys one statistics query. Country empty means region-wide scope.
type Request struct {
	Family    domain.Family
	Indicator string // raw label or canonical code; resolved through the catalog
	Year      *int   // nil means latest available year
	Country   string // raw label; resolved through the registry

	IncludeProjection bool
	IncludeRanking    bool
	IncludeEquity     bool

	Methods     []trend.Method    // empty means all supported methods
	TargetYear  int               // 0 means DefaultTargetYear
	Top         int               // 0 means DefaultTopN
	Direction   aggregate.Direction // "" means highest
	Aggregation *aggregate.Method // nil means the indicator's default policy
}

// Validate checks the request shape; identity resolution happens later
// against the session's registry and catalog.
func (r Request) Validate() error {
	if _, err := domain.ParseFamily(string(r.Family)); err != nil {
		return err
	}
	if strings.TrimSpace(r.Indicator) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "indicator is required")
	}
	if r.Top < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "top must not be negative")
	}
	if r.TargetYear < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "target_year must not be negative")
	}
	return nil
}

// withDefaults returns a copy with the defaults filled in.
func (r Request) withDefaults() Request {
	out := r
	if out.TargetYear == 0 {
		out.TargetYear = DefaultTargetYear
	}
	if out.Top == 0 {
		out.Top = DefaultTopN
	}
	if out.Direction == "" {
		out.Direction = aggregate.DirectionHighest
	}
	if len(out.Methods) == 0 {
		out.Methods = trend.Methods()
	}
	return out
}

// cacheKey builds the memoization key: the frame fingerprint plus the full
// canonical argument tuple.
func (r Request) cacheKey(fingerprint string) string {
	var b strings.Builder
	b.WriteString("stats|")
	b.WriteString(fingerprint)
	fmt.Fprintf(&b, "|%s|%s|%s", r.Family, strings.ToLower(strings.TrimSpace(r.Indicator)), strings.ToLower(strings.TrimSpace(r.Country)))
	if r.Year != nil {
		fmt.Fprintf(&b, "|y%d", *r.Year)
	}
	fmt.Fprintf(&b, "|p%t|r%t|e%t|t%d|n%d|%s", r.IncludeProjection, r.IncludeRanking, r.IncludeEquity, r.TargetYear, r.Top, r.Direction)
	if r.Aggregation != nil {
		fmt.Fprintf(&b, "|a%s", *r.Aggregation)
	}
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "|m%s", m)
	}
	return b.String()
}

// MethodProjection is one requested method's outcome. A method that fails
// its domain or data checks carries an error tag instead of failing the
// whole request.
type MethodProjection struct {
	Method     trend.Method      `json:"method"`
	Projection *trend.Projection `json:"projection,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Statistics is the stable output contract. It is the only surface
// downstream chart, chat, and report collaborators may depend on.
type Statistics struct {
	IndicatorCode domain.IndicatorCode `json:"indicator_code"`
	Unit          string               `json:"unit"`
	YearRange     [2]int               `json:"year_range"`
	Country       string               `json:"country,omitempty"` // canonical name when country-scoped

	CurrentYear  int           `json:"current_year"`
	CurrentValue float64       `json:"current_value"`
	Trend        trend.TrendClass `json:"trend"`

	HistoricalSeries []trend.Point      `json:"historical_series"`
	Projections      []MethodProjection `json:"projections,omitempty"`
	Ranking          []aggregate.Ranking `json:"ranking,omitempty"`
	Equity           *equity.Measure    `json:"equity,omitempty"`
	RegionalSummary  *aggregate.Summary `json:"regional_summary,omitempty"`

	Coverage    int    `json:"coverage"`
	LowCoverage bool   `json:"low_coverage,omitempty"`
	Fingerprint string `json:"dataset_fingerprint"`
}

// IndicatorInfo is one catalog entry in the overview.
type IndicatorInfo struct {
	Code       domain.IndicatorCode `json:"code"`
	Label      string               `json:"label"`
	Unit       string               `json:"unit"`
	Target2030 *float64             `json:"target_2030,omitempty"`
}

// Overview summarizes the loaded session.
type Overview struct {
	SessionID   string          `json:"session_id"`
	Family      domain.Family   `json:"family"`
	Fingerprint string          `json:"dataset_fingerprint"`
	LoadedAt    string          `json:"loaded_at"`
	Records     int             `json:"records"`
	Countries   int             `json:"countries"`
	Indicators  []IndicatorInfo `json:"indicators"`
	Rejections  map[string]int  `json:"rejections,omitempty"`
}
