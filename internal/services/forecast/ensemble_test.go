package forecast

import (
	"math"
	"testing"
	"time"

	"SharePulse/internal/domain/models"
	"SharePulse/internal/services/features"
)

func TestEnsembleFitEmpty(t *testing.T) {
	m := NewEnsemble(10, 4, 1)
	if err := m.Fit(nil, nil); err == nil {
		t.Fatal("expected error for empty fit")
	}
}

func TestEnsembleFitsInSample(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(150, start, func(i int) float64 { return 100 + 0.4*float64(i) })
	feats := features.Build(bars)
	closes := models.Closes(bars)

	m := NewEnsemble(30, 6, 99)
	if err := m.Fit(feats, closes); err != nil {
		t.Fatalf("fit: %v", err)
	}
	fitted := m.Predict(feats)
	if len(fitted) != len(closes) {
		t.Fatalf("fitted length %d", len(fitted))
	}

	// Bagged trees track a smooth trend to within a few price units.
	var sse float64
	for i := range closes {
		d := fitted[i] - closes[i]
		sse += d * d
	}
	rmse := math.Sqrt(sse / float64(len(closes)))
	if rmse > 10 {
		t.Fatalf("in-sample rmse %v too large", rmse)
	}
}

func TestEnsembleDeterministicWithSeed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := mkBars(100, start, func(i int) float64 { return 50 + float64(i%17) })
	feats := features.Build(bars)
	closes := models.Closes(bars)

	a := NewEnsemble(20, 5, 7)
	b := NewEnsemble(20, 5, 7)
	if err := a.Fit(feats, closes); err != nil {
		t.Fatalf("fit a: %v", err)
	}
	if err := b.Fit(feats, closes); err != nil {
		t.Fatalf("fit b: %v", err)
	}
	pa := a.Predict(feats)
	pb := b.Predict(feats)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("row %d: %v != %v for identical seeds", i, pa[i], pb[i])
		}
	}
}
