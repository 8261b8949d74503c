package invest

import (
	"math"
	"testing"
	"time"

	"SharePulse/internal/domain/models"
)

func dailyDates(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestProjectEmpty(t *testing.T) {
	got := Project(nil, nil, 1000)
	if got.TotalInvested != 0 || got.TotalProfit != 0 || got.ReturnPercent != 0 || got.Periods != 0 {
		t.Fatalf("empty forecast outcome = %+v", got)
	}
}

func TestProjectExactInvestedTotal(t *testing.T) {
	// 180 daily steps starting July 1st span exactly six calendar months.
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	dates := dailyDates(start, 180)
	prices := make([]float64, 180)
	for i := range prices {
		prices[i] = 200 + 0.2*float64(i)
	}

	got := Project(dates, prices, 1000)
	if got.Periods != 6 {
		t.Fatalf("periods = %d, want 6", got.Periods)
	}
	if got.TotalInvested != 6000 {
		t.Fatalf("total invested = %v, want exactly 6000", got.TotalInvested)
	}
	if got.ReturnPercent <= 0 {
		t.Fatalf("rising path produced return %v%%", got.ReturnPercent)
	}
	if math.Abs(got.TotalProfit-(got.FinalValue-got.TotalInvested)) > 1e-9 {
		t.Fatalf("profit %v inconsistent with value %v", got.TotalProfit, got.FinalValue)
	}
}

func TestProjectDecreasingPath(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := dailyDates(start, 150)
	prices := make([]float64, 150)
	for i := range prices {
		prices[i] = 300 - float64(i)
	}

	got := Project(dates, prices, 500)
	if got.ReturnPercent >= 0 {
		t.Fatalf("declining path produced return %v%%", got.ReturnPercent)
	}
	if got.TotalInvested != 500*float64(got.Periods) {
		t.Fatalf("invested %v not %v periods times 500", got.TotalInvested, got.Periods)
	}
}

func TestProjectNonPositivePrice(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	prices := []float64{100, 0, 100}

	got := Project(dates, prices, 100)
	// Three contributions, but the zero-price month buys nothing.
	if got.Periods != 3 || got.TotalInvested != 300 {
		t.Fatalf("outcome = %+v", got)
	}
	if math.Abs(got.SharesAccrued-2) > 1e-9 {
		t.Fatalf("shares = %v, want 2", got.SharesAccrued)
	}
	if math.Abs(got.FinalValue-200) > 1e-9 {
		t.Fatalf("final value = %v, want 200", got.FinalValue)
	}
}

func TestProjectMonthlyResample(t *testing.T) {
	// Several values inside one month collapse to the last one.
	dates := []time.Time{
		time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
	}
	prices := []float64{10, 20, 40, 50}

	got := Project(dates, prices, 400)
	if got.Periods != 2 {
		t.Fatalf("periods = %d, want 2", got.Periods)
	}
	// 10 shares at 40, then 8 at 50: 18 shares worth 900.
	if math.Abs(got.FinalValue-900) > 1e-9 {
		t.Fatalf("final value = %v", got.FinalValue)
	}
}

func TestProjectResultUnavailable(t *testing.T) {
	got := ProjectResult(models.ForecastOutcome{Available: false}, 1000)
	if got.TotalInvested != 0 || got.Periods != 0 {
		t.Fatalf("unavailable forecast outcome = %+v", got)
	}
}
