package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rdhub/pkg/domain-errors"
)

// =============================================================================
// Projection Method Tests
// =============================================================================
// Justification for unit tests: every method here is closed-form math with
// hand-checkable answers. The fixtures below were computed by hand so a
// refactor of the fitting code cannot silently change the numbers.

// declining is the shared fixture: a steady mortality-style decline.
//
//	(2018,120) (2019,110) (2020,100) (2021,92)
func declining(t *testing.T) Series {
	t.Helper()
	s, err := NewSeries([]Point{
		{Year: 2018, Value: 120},
		{Year: 2019, Value: 110},
		{Year: 2020, Value: 100},
		{Year: 2021, Value: 92},
	})
	require.NoError(t, err)
	return s
}

func TestExtrapolateLinear(t *testing.T) {
	s := declining(t)

	// OLS: slope = -9.4, mean 105.5 at year 2019.5, so
	// value(2030) = 105.5 - 9.4*10.5 = 6.8.
	got, err := Extrapolate(s, MethodLinear, 2030)
	require.NoError(t, err)
	assert.InDelta(t, 6.8, got, 1e-9)
}

func TestExtrapolateLinearInterpolatesToo(t *testing.T) {
	s := declining(t)

	// Fitting is unconstrained: a target year inside the observed range is
	// simply the fitted line evaluated there.
	got, err := Extrapolate(s, MethodLinear, 2020)
	require.NoError(t, err)
	assert.InDelta(t, 100.8, got, 1e-9)
}

func TestExtrapolateExponential(t *testing.T) {
	s := declining(t)

	// Log-space OLS slope is -0.089242/yr; exp back at 2030 gives ~41.13.
	got, err := Extrapolate(s, MethodExponential, 2030)
	require.NoError(t, err)
	assert.InDelta(t, 41.13, got, 0.05)
}

func TestExtrapolatePolynomial(t *testing.T) {
	s := declining(t)

	// Centered quadratic fit: a=0.5, b=-9.4, c=104.875, so
	// value(2030) = 0.5*10.5^2 - 9.4*10.5 + 104.875 = 61.3.
	got, err := Extrapolate(s, MethodPolynomial, 2030)
	require.NoError(t, err)
	assert.InDelta(t, 61.3, got, 1e-6)
}

func TestExtrapolateMovingAverage(t *testing.T) {
	s := declining(t)

	// Window mean of the last three points is 100.667; overall slope is
	// (92-120)/4 = -7/yr, applied for the 9 years to 2030.
	got, err := Extrapolate(s, MethodMovingAverage, 2030)
	require.NoError(t, err)
	assert.InDelta(t, 100.0+2.0/3.0-63.0, got, 1e-9)
}

func TestExtrapolateMovingAverageShortSeries(t *testing.T) {
	s, err := NewSeries([]Point{
		{Year: 2020, Value: 10},
		{Year: 2021, Value: 12},
	})
	require.NoError(t, err)

	// Window shrinks to the whole series: mean 11, slope +1/yr over 9 years.
	got, err := Extrapolate(s, MethodMovingAverage, 2030)
	require.NoError(t, err)
	assert.InDelta(t, 20, got, 1e-9)
}

func TestExtrapolateAARR(t *testing.T) {
	s := declining(t)

	// Observed AARR = 1-(92/120)^(1/3) = 8.476%/yr compounded over 9 years.
	got, err := Extrapolate(s, MethodAARR, 2030)
	require.NoError(t, err)
	assert.InDelta(t, 41.459, got, 0.01)
}

func TestMethodsDisagreeOnLongHorizons(t *testing.T) {
	s := declining(t)

	linear, err := Extrapolate(s, MethodLinear, 2030)
	require.NoError(t, err)
	aarr, err := Extrapolate(s, MethodAARR, 2030)
	require.NoError(t, err)

	// A linear fit of a proportional decline overshoots toward zero while
	// the compounded rate levels off. The two must stay distinct or one of
	// the implementations has collapsed into the other.
	assert.Greater(t, aarr-linear, 10.0)
}

func TestExtrapolateInsufficientData(t *testing.T) {
	single, err := NewSeries([]Point{{Year: 2020, Value: 50}})
	require.NoError(t, err)
	pair, err := NewSeries([]Point{{Year: 2020, Value: 50}, {Year: 2021, Value: 40}})
	require.NoError(t, err)

	cases := []struct {
		name   string
		series Series
		method Method
	}{
		{"linear needs two points", single, MethodLinear},
		{"exponential needs two points", single, MethodExponential},
		{"moving average needs two points", single, MethodMovingAverage},
		{"aarr needs two points", single, MethodAARR},
		{"polynomial needs three points", pair, MethodPolynomial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extrapolate(tc.series, tc.method, 2030)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInsufficientData))
		})
	}
}

func TestExtrapolateInvalidDomain(t *testing.T) {
	withZero, err := NewSeries([]Point{
		{Year: 2019, Value: 5},
		{Year: 2020, Value: 0},
		{Year: 2021, Value: 3},
	})
	require.NoError(t, err)

	for _, method := range []Method{MethodExponential, MethodAARR} {
		t.Run(string(method), func(t *testing.T) {
			_, err := Extrapolate(withZero, method, 2030)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDomain))
		})
	}

	t.Run("linear tolerates zeros", func(t *testing.T) {
		_, err := Extrapolate(withZero, MethodLinear, 2030)
		assert.NoError(t, err)
	})
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		parsed, err := ParseMethod(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseMethod("quadratic")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestObservedAARR(t *testing.T) {
	s := declining(t)
	assert.InDelta(t, 0.08476, observedAARR(s), 1e-4)

	growing, err := NewSeries([]Point{{Year: 2018, Value: 50}, {Year: 2021, Value: 60}})
	require.NoError(t, err)
	assert.Negative(t, observedAARR(growing))
}
