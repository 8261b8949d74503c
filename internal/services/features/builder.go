package features

import (
	"math"
	"time"

	"SharePulse/internal/domain/models"
)

// Rolling windows used for the regressor columns.
const (
	WindowMA50  = 50
	WindowMA200 = 200
	WindowVol   = 30
)

// Build derives one fixed-width feature vector per bar. The day index is a
// zero-based step count over the series, so weekends and halts are
// compressed rather than interpolated. Leading rolling values are
// backfilled from the first fully computed value; when the series is
// shorter than a window, the statistic over the whole series is used for
// every row. Empty input yields an empty slice.
func Build(bars []models.Bar) []models.FeatureVector {
	if len(bars) == 0 {
		return nil
	}
	closes := models.Closes(bars)
	ma50 := rollingMean(closes, WindowMA50)
	ma200 := rollingMean(closes, WindowMA200)
	vol30 := rollingStd(closes, WindowVol)

	out := make([]models.FeatureVector, len(bars))
	for i, b := range bars {
		out[i] = models.FeatureVector{
			DayIndex:  i,
			Month:     int(b.Date.Month()),
			DayOfWeek: Weekday(b.Date),
			MA50:      ma50[i],
			MA200:     ma200[i],
			Vol30:     vol30[i],
		}
	}
	return out
}

// Weekday maps a date to the 0-6 convention with Monday == 0.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// rollingMean returns trailing means over `window` values, backfilled so
// every position is defined.
func rollingMean(xs []float64, window int) []float64 {
	n := len(xs)
	out := make([]float64, n)
	if n < window {
		m := mean(xs)
		for i := range out {
			out[i] = m
		}
		return out
	}
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += xs[i]
	}
	first := sum / float64(window)
	out[window-1] = first
	for i := window; i < n; i++ {
		sum += xs[i] - xs[i-window]
		out[i] = sum / float64(window)
	}
	for i := 0; i < window-1; i++ {
		out[i] = first
	}
	return out
}

// rollingStd returns trailing sample standard deviations over `window`
// values, backfilled the same way as rollingMean.
func rollingStd(xs []float64, window int) []float64 {
	n := len(xs)
	out := make([]float64, n)
	if n < window {
		s := Std(xs)
		for i := range out {
			out[i] = s
		}
		return out
	}
	first := Std(xs[:window])
	out[window-1] = first
	for i := window; i < n; i++ {
		out[i] = Std(xs[i-window+1 : i+1])
	}
	for i := 0; i < window-1; i++ {
		out[i] = first
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Std is the sample standard deviation; fewer than two values yield 0.
func Std(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - m
		sum2 += d * d
	}
	v := sum2 / float64(n-1)
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}
