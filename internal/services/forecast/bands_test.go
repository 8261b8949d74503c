package forecast

import (
	"math"
	"testing"
)

func TestAnalyticBandsOrdering(t *testing.T) {
	median := make([]float64, 120)
	for i := range median {
		median[i] = 100 + 0.3*float64(i)
	}
	lower, upper := AnalyticBands(median, 0.95)
	if len(lower) != len(median) || len(upper) != len(median) {
		t.Fatalf("band lengths %d/%d", len(lower), len(upper))
	}
	for i := range median {
		if lower[i] < 0 {
			t.Fatalf("step %d: lower %v below zero", i, lower[i])
		}
		if lower[i] > median[i] || median[i] > upper[i] {
			t.Fatalf("step %d: ordering violated %v <= %v <= %v", i, lower[i], median[i], upper[i])
		}
	}
	// Margins widen toward the horizon for a steady trend.
	if upper[len(upper)-1]-median[len(median)-1] <= upper[5]-median[5] {
		t.Fatalf("bands did not widen: %v vs %v", upper[len(upper)-1]-median[len(median)-1], upper[5]-median[5])
	}
}

func TestAnalyticBandsConstantForecast(t *testing.T) {
	median := []float64{50, 50, 50, 50, 50}
	lower, upper := AnalyticBands(median, 0.95)
	for i := range median {
		if lower[i] != 50 || upper[i] != 50 {
			t.Fatalf("step %d: constant forecast widened to [%v, %v]", i, lower[i], upper[i])
		}
	}
}

func TestAnalyticBandsEmpty(t *testing.T) {
	lower, upper := AnalyticBands(nil, 0.95)
	if len(lower) != 0 || len(upper) != 0 {
		t.Fatalf("expected empty bands, got %d/%d", len(lower), len(upper))
	}
}

func TestEmpiricalBandsZeroResidual(t *testing.T) {
	preds := []float64{10, 11, 12}
	median, lower, upper := EmpiricalBands(preds, []float64{0, 0, 0}, 200, 7)
	for i := range preds {
		if median[i] != preds[i] || lower[i] != preds[i] || upper[i] != preds[i] {
			t.Fatalf("step %d: zero-noise bands [%v %v %v] want %v", i, lower[i], median[i], upper[i], preds[i])
		}
	}
}

func TestEmpiricalBandsOrdering(t *testing.T) {
	preds := make([]float64, 60)
	for i := range preds {
		preds[i] = 100 + float64(i)
	}
	residuals := []float64{-3, 1, 2, -1, 3, -2, 1, -1}
	median, lower, upper := EmpiricalBands(preds, residuals, 1000, 42)
	for i := range preds {
		if lower[i] < 0 || lower[i] > median[i] || median[i] > upper[i] {
			t.Fatalf("step %d: ordering violated [%v %v %v]", i, lower[i], median[i], upper[i])
		}
		if math.Abs(median[i]-preds[i]) > 1.0 {
			t.Fatalf("step %d: median %v drifted from %v", i, median[i], preds[i])
		}
	}

	// Same seed reproduces the same bands.
	m2, l2, u2 := EmpiricalBands(preds, residuals, 1000, 42)
	for i := range preds {
		if m2[i] != median[i] || l2[i] != lower[i] || u2[i] != upper[i] {
			t.Fatalf("step %d: seeded run not reproducible", i)
		}
	}
}
