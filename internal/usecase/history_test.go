package usecase

import (
	"context"
	"testing"
	"time"

	"SharePulse/internal/domain/models"
)

type stubBarStore struct {
	bars      []models.Bar
	lastLimit int
}

func (s *stubBarStore) GetDailyBars(_ context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error) {
	s.lastLimit = limit
	return s.bars, nil
}

func (s *stubBarStore) GetLatestNBars(_ context.Context, symbol string, n int) ([]models.Bar, error) {
	return s.bars, nil
}

func TestGetHistoryValidation(t *testing.T) {
	uc := NewHistoryUseCase(&stubBarStore{})
	now := time.Now()

	if _, err := uc.GetHistory(context.Background(), GetHistoryParams{From: now.AddDate(0, -1, 0), To: now}); err == nil {
		t.Fatal("expected error for empty symbol")
	}
	if _, err := uc.GetHistory(context.Background(), GetHistoryParams{Symbol: "AGL", From: now, To: now.AddDate(0, -1, 0)}); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestGetHistoryLimits(t *testing.T) {
	store := &stubBarStore{}
	uc := NewHistoryUseCase(store)
	now := time.Now()
	params := GetHistoryParams{Symbol: "AGL", From: now.AddDate(-1, 0, 0), To: now}

	if _, err := uc.GetHistory(context.Background(), params); err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if store.lastLimit != 5000 {
		t.Fatalf("expected default limit 5000, got %d", store.lastLimit)
	}

	params.Limit = 999999
	if _, err := uc.GetHistory(context.Background(), params); err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if store.lastLimit != 20000 {
		t.Fatalf("expected capped limit 20000, got %d", store.lastLimit)
	}
}

func TestGetHistoryResult(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	store := &stubBarStore{bars: []models.Bar{
		{Symbol: "AGL", Date: day, Close: 425},
		{Symbol: "AGL", Date: day.AddDate(0, 0, 1), Close: 427},
	}}
	uc := NewHistoryUseCase(store)

	res, err := uc.GetHistory(context.Background(), GetHistoryParams{
		Symbol: "AGL",
		From:   day.AddDate(0, -1, 0),
		To:     day.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if res.Count != 2 || len(res.Bars) != 2 {
		t.Fatalf("expected 2 bars, got %+v", res)
	}
	if res.Symbol != "AGL" {
		t.Fatalf("symbol mismatch: %s", res.Symbol)
	}
}
