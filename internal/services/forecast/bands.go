package forecast

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"SharePulse/internal/services/features"
)

// bandWindow is the rolling window used by the analytic margin.
const bandWindow = 30

// AnalyticBands derives lower/upper bands around a point forecast. The
// margin at step i is the trailing rolling std of the forecast itself
// times the two-sided Student-t critical value (df = N-1) times
// sqrt((i+1)/N), so bands widen with horizon. Lower is clipped at zero.
func AnalyticBands(median []float64, confidence float64) (lower, upper []float64) {
	n := len(median)
	lower = make([]float64, n)
	upper = make([]float64, n)
	if n == 0 {
		return lower, upper
	}

	df := float64(n - 1)
	if df < 1 {
		df = 1
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	crit := t.Quantile(0.5 + confidence/2)

	for i := 0; i < n; i++ {
		lo := i - bandWindow + 1
		if lo < 0 {
			lo = 0
		}
		margin := crit * features.Std(median[lo:i+1]) * sqrtFrac(i+1, n)
		lower[i] = median[i] - margin
		if lower[i] < 0 {
			lower[i] = 0
		}
		upper[i] = median[i] + margin
	}
	return lower, upper
}

// EmpiricalBands simulates `sims` noisy paths around the point forecast
// using gaussian noise scaled to the in-sample residual std, then takes
// the per-step median and the 2.5/97.5 percentiles.
func EmpiricalBands(preds, residuals []float64, sims int, seed int64) (median, lower, upper []float64) {
	n := len(preds)
	median = make([]float64, n)
	lower = make([]float64, n)
	upper = make([]float64, n)
	if n == 0 {
		return median, lower, upper
	}
	if sims <= 0 {
		sims = 1000
	}
	sigma := features.Std(residuals)
	rng := rand.New(rand.NewSource(seed))

	samples := make([][]float64, n)
	for i := range samples {
		samples[i] = make([]float64, sims)
	}
	for s := 0; s < sims; s++ {
		for i := 0; i < n; i++ {
			samples[i][s] = preds[i] + rng.NormFloat64()*sigma
		}
	}

	for i := 0; i < n; i++ {
		col := samples[i]
		sort.Float64s(col)
		median[i] = stat.Quantile(0.5, stat.Empirical, col, nil)
		lower[i] = stat.Quantile(0.025, stat.Empirical, col, nil)
		upper[i] = stat.Quantile(0.975, stat.Empirical, col, nil)
	}
	clampBands(lower, median, upper)
	return median, lower, upper
}

// clampBands enforces 0 <= lower <= median <= upper elementwise.
func clampBands(lower, median, upper []float64) {
	for i := range median {
		if lower[i] < 0 {
			lower[i] = 0
		}
		if median[i] < lower[i] {
			median[i] = lower[i]
		}
		if upper[i] < median[i] {
			upper[i] = median[i]
		}
	}
}

func sqrtFrac(i, n int) float64 {
	return math.Sqrt(float64(i) / float64(n))
}
