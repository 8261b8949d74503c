package forecast

import (
	"testing"
	"time"
)

func TestPipelineEmptyInput(t *testing.T) {
	p := New(Config{Model: KindLinear}, nil)
	out := p.Forecast(nil, 6)
	if out.Available {
		t.Fatal("expected unavailable forecast for empty input")
	}
	if !out.Result.Empty() {
		t.Fatalf("expected empty result, got %d points", out.Result.Len())
	}
}

func TestPipelineShortSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(MinBars-1, start, func(i int) float64 { return 100 })
	out := New(Config{Model: KindLinear}, nil).Forecast(bars, 6)
	if out.Available {
		t.Fatalf("expected unavailable forecast for %d bars", len(bars))
	}
}

func TestPipelineRisingSeries(t *testing.T) {
	// 200 bars climbing 100 -> 200, ending on the last day of June so the
	// six forecast months are exactly July through December.
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -199)
	bars := mkBars(200, start, func(i int) float64 {
		return 100 + 100*float64(i)/199
	})

	p := New(Config{Model: KindLinear, Bands: BandAnalytic, Confidence: 0.95}, nil)
	out := p.Forecast(bars, 6)
	if !out.Available {
		t.Fatal("expected available forecast")
	}
	r := out.Result
	if r.Len() != 6*stepsPerMonthLinear {
		t.Fatalf("forecast length %d, want %d", r.Len(), 6*stepsPerMonthLinear)
	}
	if len(r.Dates) != r.Len() || len(r.Lower) != r.Len() || len(r.Upper) != r.Len() {
		t.Fatalf("series misaligned: %d dates %d lower %d upper", len(r.Dates), len(r.Lower), len(r.Upper))
	}
	for i := 1; i < len(r.Dates); i++ {
		if !r.Dates[i].After(r.Dates[i-1]) {
			t.Fatalf("dates not increasing at %d", i)
		}
	}
	for i := range r.Median {
		if r.Lower[i] < 0 || r.Lower[i] > r.Median[i] || r.Median[i] > r.Upper[i] {
			t.Fatalf("step %d: band ordering violated [%v %v %v]", i, r.Lower[i], r.Median[i], r.Upper[i])
		}
	}
	// The projected path keeps climbing.
	if r.Median[r.Len()-1] <= r.Median[0] {
		t.Fatalf("median did not continue upward: %v -> %v", r.Median[0], r.Median[r.Len()-1])
	}
}

func TestPipelineDeterministic(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(120, start, func(i int) float64 { return 80 + 0.2*float64(i) })
	p := New(Config{Model: KindLinear, Bands: BandAnalytic}, nil)

	a := p.Forecast(bars, 3)
	b := p.Forecast(bars, 3)
	if !a.Available || !b.Available {
		t.Fatal("expected available forecasts")
	}
	for i := range a.Result.Median {
		if a.Result.Median[i] != b.Result.Median[i] ||
			a.Result.Lower[i] != b.Result.Lower[i] ||
			a.Result.Upper[i] != b.Result.Upper[i] {
			t.Fatalf("step %d: runs differ on identical input", i)
		}
	}
}

func TestPipelineEnsembleHorizon(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(150, start, func(i int) float64 { return 100 + 0.3*float64(i) })
	p := New(Config{Model: KindEnsemble, Bands: BandEmpirical, Simulations: 200, Seed: 5, Trees: 20, MaxDepth: 5}, nil)

	out := p.Forecast(bars, 4)
	if !out.Available {
		t.Fatal("expected available forecast")
	}
	if out.Result.Len() != 4*stepsPerMonthEnsemble {
		t.Fatalf("forecast length %d, want %d", out.Result.Len(), 4*stepsPerMonthEnsemble)
	}
	for _, d := range out.Result.Dates {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("ensemble step fell on %v", wd)
		}
	}
	for i := range out.Result.Median {
		if out.Result.Lower[i] < 0 || out.Result.Lower[i] > out.Result.Median[i] || out.Result.Median[i] > out.Result.Upper[i] {
			t.Fatalf("step %d: band ordering violated", i)
		}
	}
}

func TestPipelineSanitizesCloses(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(100, start, func(i int) float64 { return 100 + float64(i) })
	bars[40].Close = 0
	bars[41].Close = -5

	out := New(Config{Model: KindLinear}, nil).Forecast(bars, 2)
	if !out.Available {
		t.Fatal("expected available forecast after forward-fill")
	}
	for i, m := range out.Result.Median {
		if m != m { // NaN check
			t.Fatalf("step %d: NaN median", i)
		}
	}
}

func TestPipelineZeroMonths(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(100, start, func(i int) float64 { return 100 })
	if out := New(Config{}, nil).Forecast(bars, 0); out.Available {
		t.Fatal("expected unavailable forecast for zero horizon")
	}
}
