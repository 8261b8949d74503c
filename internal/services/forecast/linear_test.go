package forecast

import (
	"math"
	"testing"
	"time"

	"SharePulse/internal/domain/models"
	"SharePulse/internal/services/features"
)

func mkBars(n int, start time.Time, closeAt func(i int) float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		bars[i] = models.Bar{
			Symbol: "TST",
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestLinearFitEmpty(t *testing.T) {
	m := NewLinear()
	if err := m.Fit(nil, nil); err == nil {
		t.Fatal("expected error for empty fit")
	}
}

func TestLinearFitsTrend(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(200, start, func(i int) float64 { return 100 + 0.5*float64(i) })
	feats := features.Build(bars)
	closes := models.Closes(bars)

	m := NewLinear()
	if err := m.Fit(feats, closes); err != nil {
		t.Fatalf("fit: %v", err)
	}

	fitted := m.Predict(feats)
	for i := range closes {
		if math.Abs(fitted[i]-closes[i]) > 0.5 {
			t.Fatalf("row %d: fitted %v vs close %v", i, fitted[i], closes[i])
		}
	}
}

func TestLinearConstantSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(60, start, func(i int) float64 { return 42 })
	feats := features.Build(bars)

	// Zero-variance columns must not blow up the standardization.
	m := NewLinear()
	if err := m.Fit(feats, models.Closes(bars)); err != nil {
		t.Fatalf("fit: %v", err)
	}
	got := m.Predict(feats[:1])[0]
	if math.Abs(got-42) > 1e-4 {
		t.Fatalf("constant series fitted to %v", got)
	}
}

func TestFutureSteps(t *testing.T) {
	last := models.FeatureVector{DayIndex: 99, MA50: 1, MA200: 2, Vol30: 3}
	// A Friday.
	lastDate := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

	dates, feats := futureSteps(lastDate, last, 10, false)
	if len(dates) != 10 || len(feats) != 10 {
		t.Fatalf("calendar steps: %d dates %d feats", len(dates), len(feats))
	}
	if !dates[0].Equal(lastDate.AddDate(0, 0, 1)) {
		t.Fatalf("first calendar date %v", dates[0])
	}
	if feats[0].DayIndex != 100 || feats[9].DayIndex != 109 {
		t.Fatalf("day index did not continue: %d..%d", feats[0].DayIndex, feats[9].DayIndex)
	}
	if feats[4].MA50 != 1 || feats[4].MA200 != 2 || feats[4].Vol30 != 3 {
		t.Fatalf("rolling features not held constant: %+v", feats[4])
	}

	bdates, _ := futureSteps(lastDate, last, 10, true)
	for i, d := range bdates {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("business step %d fell on %v", i, wd)
		}
	}
	// Friday -> next business day is Monday.
	if bdates[0].Weekday() != time.Monday {
		t.Fatalf("first business date %v", bdates[0].Weekday())
	}
}
