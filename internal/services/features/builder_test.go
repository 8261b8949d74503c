package features

import (
	"math"
	"testing"
	"time"

	"SharePulse/internal/domain/models"
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

func TestBuildEmpty(t *testing.T) {
	if got := Build(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestBuildShape(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(250, start, func(i int) float64 { return 100 + float64(i) })
	feats := Build(bars)
	if len(feats) != 250 {
		t.Fatalf("expected 250 feature rows, got %d", len(feats))
	}
	for i, fv := range feats {
		if fv.DayIndex != i {
			t.Fatalf("row %d: day index %d", i, fv.DayIndex)
		}
		want := int(bars[i].Date.Month())
		if fv.Month != want {
			t.Fatalf("row %d: month %d want %d", i, fv.Month, want)
		}
		if fv.DayOfWeek < 0 || fv.DayOfWeek > 6 {
			t.Fatalf("row %d: day of week %d out of range", i, fv.DayOfWeek)
		}
	}
	// 2024-01-01 was a Monday.
	if feats[0].DayOfWeek != 0 {
		t.Fatalf("expected Monday == 0, got %d", feats[0].DayOfWeek)
	}
}

func TestBuildBackfill(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(120, start, func(i int) float64 { return 100 + float64(i) })
	feats := Build(bars)

	// Leading MA50 rows carry the first full-window value.
	first := feats[WindowMA50-1].MA50
	for i := 0; i < WindowMA50-1; i++ {
		if feats[i].MA50 != first {
			t.Fatalf("row %d: MA50 %v not backfilled to %v", i, feats[i].MA50, first)
		}
	}
	// Series shorter than 200: every MA200 row holds the whole-series mean.
	for i := 1; i < len(feats); i++ {
		if feats[i].MA200 != feats[0].MA200 {
			t.Fatalf("row %d: MA200 %v differs from %v", i, feats[i].MA200, feats[0].MA200)
		}
	}
}

func TestBuildRollingValues(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(60, start, func(i int) float64 { return 100 + float64(i) })
	feats := Build(bars)

	// MA50 at row 49 over closes 100..149 is 124.5.
	if math.Abs(feats[49].MA50-124.5) > 1e-9 {
		t.Fatalf("MA50 at full window = %v, want 124.5", feats[49].MA50)
	}
	// Rolling std of 30 consecutive integers.
	wantStd := Std(func() []float64 {
		xs := make([]float64, 30)
		for i := range xs {
			xs[i] = float64(i)
		}
		return xs
	}())
	if math.Abs(feats[40].Vol30-wantStd) > 1e-9 {
		t.Fatalf("Vol30 = %v, want %v", feats[40].Vol30, wantStd)
	}
}

func TestStd(t *testing.T) {
	if got := Std(nil); got != 0 {
		t.Fatalf("Std(nil) = %v", got)
	}
	if got := Std([]float64{5}); got != 0 {
		t.Fatalf("Std(single) = %v", got)
	}
	got := Std([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2.13808993529939) > 1e-9 {
		t.Fatalf("Std = %v", got)
	}
}
