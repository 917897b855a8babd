package trend

import (
	"math"

	dErrors "rdhub/pkg/domain-errors"
)

// Method selects a projection technique. The set is closed: dispatch goes
// through a fixed table of pure functions, never through string matching.
type Method string

const (
	MethodLinear        Method = "linear"
	MethodExponential   Method = "exponential"
	MethodPolynomial    Method = "polynomial"
	MethodMovingAverage Method = "moving_average"
	MethodAARR          Method = "aarr"
)

// Methods lists all supported methods in stable order.
func Methods() []Method {
	return []Method{MethodLinear, MethodExponential, MethodPolynomial, MethodMovingAverage, MethodAARR}
}

// ParseMethod validates a method selector at a trust boundary.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if _, ok := methodTable[m]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown projection method: %q", s)
	}
	return m, nil
}

func (m Method) String() string { return string(m) }

type methodSpec struct {
	minPoints        int
	requiresPositive bool
	extrapolate      func(s Series, targetYear int) float64
}

// methodTable is the closed dispatch table. Every entry is a pure function
// of the series and the target year.
var methodTable = map[Method]methodSpec{
	MethodLinear:        {minPoints: 2, extrapolate: extrapolateLinear},
	MethodExponential:   {minPoints: 2, requiresPositive: true, extrapolate: extrapolateExponential},
	MethodPolynomial:    {minPoints: 3, extrapolate: extrapolatePolynomial},
	MethodMovingAverage: {minPoints: 2, extrapolate: extrapolateMovingAverage},
	MethodAARR:          {minPoints: 2, requiresPositive: true, extrapolate: extrapolateAARR},
}

// Extrapolate projects the series to targetYear using the given method.
// It fails with insufficient_data when the series is too short for the
// method and invalid_domain when a log-space method sees a non-positive
// value. Divergent polynomial extrapolations are not clamped here; sanity
// checking far-horizon output is the caller's concern.
func Extrapolate(s Series, method Method, targetYear int) (float64, error) {
	spec, ok := methodTable[method]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "unknown projection method: %q", method)
	}
	if s.Len() < spec.minPoints {
		return 0, dErrors.Newf(dErrors.CodeInsufficientData,
			"%s projection needs at least %d points, series has %d", method, spec.minPoints, s.Len())
	}
	if spec.requiresPositive && !s.AllPositive() {
		return 0, dErrors.Newf(dErrors.CodeInvalidDomain,
			"%s projection requires strictly positive values", method)
	}
	return spec.extrapolate(s, targetYear), nil
}

// ols fits y = slope*x + intercept by ordinary least squares.
func ols(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func extrapolateLinear(s Series, targetYear int) float64 {
	slope, intercept := ols(s.years(), s.values())
	return slope*float64(targetYear) + intercept
}

// extrapolateExponential fits a log-linear model and exponentiates the
// prediction back. Domain is guarded by the dispatch table.
func extrapolateExponential(s Series, targetYear int) float64 {
	logs := make([]float64, s.Len())
	for i, v := range s.values() {
		logs[i] = math.Log(v)
	}
	slope, intercept := ols(s.years(), logs)
	return math.Exp(slope*float64(targetYear) + intercept)
}

// extrapolatePolynomial fits a degree-2 least-squares polynomial via the
// normal equations. Years are centered on their mean to keep the 3x3 system
// well conditioned for calendar-year magnitudes.
func extrapolatePolynomial(s Series, targetYear int) float64 {
	xs, ys := s.years(), s.values()
	var meanX float64
	for _, x := range xs {
		meanX += x
	}
	meanX /= float64(len(xs))

	var s0, s1, s2, s3, s4, t0, t1, t2 float64
	for i := range xs {
		x := xs[i] - meanX
		x2 := x * x
		s0++
		s1 += x
		s2 += x2
		s3 += x2 * x
		s4 += x2 * x2
		t0 += ys[i]
		t1 += x * ys[i]
		t2 += x2 * ys[i]
	}

	c, b, a := solve3(
		[3][3]float64{
			{s0, s1, s2},
			{s1, s2, s3},
			{s2, s3, s4},
		},
		[3]float64{t0, t1, t2},
	)

	x := float64(targetYear) - meanX
	return a*x*x + b*x + c
}

// solve3 solves a 3x3 linear system by Gaussian elimination with partial
// pivoting. Singular systems degrade to the constant fit.
func solve3(m [3][3]float64, v [3]float64) (x0, x1, x2 float64) {
	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		m[col], m[pivot] = m[pivot], m[col]
		v[col], v[pivot] = v[pivot], v[col]

		if m[col][col] == 0 {
			return v[0] / nonZero(m[0][0]), 0, 0
		}
		for row := col + 1; row < 3; row++ {
			factor := m[row][col] / m[col][col]
			for k := col; k < 3; k++ {
				m[row][k] -= factor * m[col][k]
			}
			v[row] -= factor * v[col]
		}
	}

	x2 = v[2] / m[2][2]
	x1 = (v[1] - m[1][2]*x2) / m[1][1]
	x0 = (v[0] - m[0][1]*x1 - m[0][2]*x2) / m[0][0]
	return x0, x1, x2
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// extrapolateMovingAverage averages the last three observations and nudges
// the result forward by the series' overall average slope. Holding the
// average flat was the alternative reading of the source method; the nudged
// variant matches the original behavior.
func extrapolateMovingAverage(s Series, targetYear int) float64 {
	values := s.values()
	window := 3
	if len(values) < window {
		window = len(values)
	}
	var avg float64
	for _, v := range values[len(values)-window:] {
		avg += v
	}
	avg /= float64(window)

	slope := (s.Last().Value - s.First().Value) / float64(s.Len())
	return avg + slope*float64(targetYear-s.Last().Year)
}

// extrapolateAARR compounds the geometric-mean annual rate of change between
// the first and last observations forward to the target year. This is the
// standard method for judging proportional-reduction policy targets.
func extrapolateAARR(s Series, targetYear int) float64 {
	rate := observedAARR(s)
	years := float64(targetYear - s.Last().Year)
	return s.Last().Value * math.Pow(1-rate, years)
}

// observedAARR returns the annual rate of reduction as a fraction
// (0.05 = 5% annual decline; negative values mean growth).
// Domain: positive endpoint values and at least two distinct years.
func observedAARR(s Series) float64 {
	first, last := s.First(), s.Last()
	deltaYears := float64(last.Year - first.Year)
	if deltaYears <= 0 || first.Value <= 0 || last.Value <= 0 {
		return 0
	}
	return 1 - math.Pow(last.Value/first.Value, 1/deltaYears)
}
