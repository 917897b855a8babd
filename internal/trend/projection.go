package trend

import (
	"math"

	"rdhub/pkg/domain"
)

// Projection is the result of extrapolating a series to a target year and
// comparing it against a fixed policy target.
type Projection struct {
	Method     Method `json:"method"`
	SeriesHash string `json:"series_hash"`
	TargetYear int    `json:"target_year"`
	Projected  float64 `json:"projected_value"`

	// Target-relative fields; nil when the indicator has no target.
	Target *float64 `json:"target_value,omitempty"`
	// Gap is the signed shortfall against the target. The sign convention is
	// fixed by polarity so that a positive gap always means "short of the
	// target": projected − target for lower-is-better indicators,
	// target − projected for higher-is-better ones.
	Gap *float64 `json:"gap,omitempty"`
	// RequiredAnnualRate is the constant annual rate (percent) that would
	// carry the last observed value exactly to the target by the target
	// year. Positive means required annual reduction, negative required
	// annual growth. Nil when the AARR inversion is undefined.
	RequiredAnnualRate *float64 `json:"required_annual_rate,omitempty"`
	// ObservedAARR is the historical average annual rate of reduction
	// (percent) between the series endpoints, for pace comparison.
	ObservedAARR *float64 `json:"observed_aarr,omitempty"`
	OnTrack      *bool    `json:"on_track,omitempty"`
}

// Policy adjusts projection behavior. The zero value is the default policy.
type Policy struct {
	// FloorZero clamps projected values at zero. Long-horizon projections of
	// decreasing series can cross into negative territory; whether that is
	// reported raw or floored is the caller's choice, not the engine's.
	FloorZero bool
}

// Project extrapolates the series to targetYear with one method and fills in
// the target comparison. Target may be nil (no policy target exists);
// polarity fixes the gap sign and the on-track check.
func Project(s Series, method Method, targetYear int, target *float64, polarity domain.Polarity, policy Policy) (Projection, error) {
	projected, err := Extrapolate(s, method, targetYear)
	if err != nil {
		return Projection{}, err
	}
	if policy.FloorZero && projected < 0 {
		projected = 0
	}

	p := Projection{
		Method:     method,
		SeriesHash: s.Hash(),
		TargetYear: targetYear,
		Projected:  projected,
	}

	if rate := observedAARR(s); s.Len() >= 2 && s.First().Value > 0 && s.Last().Value > 0 {
		pct := rate * 100
		p.ObservedAARR = &pct
	}

	if target == nil {
		return p, nil
	}

	t := *target
	p.Target = &t

	var gap float64
	var onTrack bool
	if polarity == domain.HigherIsBetter {
		gap = t - projected
		onTrack = projected >= t
	} else {
		gap = projected - t
		onTrack = projected <= t
	}
	p.Gap = &gap
	p.OnTrack = &onTrack

	if rate, ok := requiredAnnualRate(s.Last(), t, targetYear); ok {
		p.RequiredAnnualRate = &rate
	}
	return p, nil
}

// requiredAnnualRate inverts the AARR formula: the constant annual rate that
// takes the last observed value exactly to the target by the target year.
func requiredAnnualRate(last Point, target float64, targetYear int) (float64, bool) {
	yearsLeft := float64(targetYear - last.Year)
	if yearsLeft <= 0 || last.Value <= 0 || target <= 0 {
		return 0, false
	}
	return (1 - math.Pow(target/last.Value, 1/yearsLeft)) * 100, true
}
