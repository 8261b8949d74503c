package usecase

import (
	"context"
	"testing"

	"SharePulse/internal/domain/models"
)

type capWriter struct {
	bars []models.Bar
}

func (w *capWriter) StoreBars(_ context.Context, bars []models.Bar) error {
	w.bars = append(w.bars, bars...)
	return nil
}

func TestBarsHandlerStoresValidMessage(t *testing.T) {
	w := &capWriter{}
	h := NewKafkaBarsHandler("bars", w, newNullMetrics())

	msg := []byte(`{"symbol":"AGL","date":"2026-03-02","open":420,"high":430,"low":418,"close":425.5,"volume":120000}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(w.bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(w.bars))
	}
	b := w.bars[0]
	if b.Symbol != "AGL" || b.Close != 425.5 {
		t.Fatalf("bar mismatch: %+v", b)
	}
	if b.Date.Hour() != 0 || b.Date.Minute() != 0 {
		t.Fatalf("date not normalised to day start: %v", b.Date)
	}
}

func TestBarsHandlerRejectsMissingSymbol(t *testing.T) {
	met := newNullMetrics()
	h := NewKafkaBarsHandler("bars", &capWriter{}, met)

	if err := h.Handle(context.Background(), []byte(`{"date":"2026-03-02","close":1}`)); err == nil {
		t.Fatal("expected error for missing symbol")
	}
	if met.errors["consumer_validate"] != 1 {
		t.Fatalf("expected validate error metric, got %v", met.errors)
	}
}

func TestBarsHandlerRejectsBadDate(t *testing.T) {
	h := NewKafkaBarsHandler("bars", &capWriter{}, newNullMetrics())
	if err := h.Handle(context.Background(), []byte(`{"symbol":"AGL","date":"last tuesday"}`)); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestBarsHandlerRejectsBadJSON(t *testing.T) {
	w := &capWriter{}
	h := NewKafkaBarsHandler("bars", w, newNullMetrics())
	if err := h.Handle(context.Background(), []byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if len(w.bars) != 0 {
		t.Fatalf("nothing should be stored, got %d bars", len(w.bars))
	}
}
