package usecase

import (
	"context"
	"fmt"
	"time"

	"SharePulse/internal/domain/models"
	domrepo "SharePulse/internal/domain/repository"
)

// HistoryUseCase provides validated retrieval of stored daily bars.
type HistoryUseCase struct {
	store domrepo.BarStore
}

func NewHistoryUseCase(store domrepo.BarStore) *HistoryUseCase {
	return &HistoryUseCase{store: store}
}

type GetHistoryParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetHistoryResult struct {
	Symbol string       `json:"symbol"`
	From   time.Time    `json:"from"`
	To     time.Time    `json:"to"`
	Count  int          `json:"count"`
	Bars   []models.Bar `json:"bars"`
}

func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) (*GetHistoryResult, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("history storage not configured")
	}
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 5000
	}
	if p.Limit > 20000 {
		p.Limit = 20000
	}

	bars, err := uc.store.GetDailyBars(ctx, p.Symbol, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	return &GetHistoryResult{
		Symbol: p.Symbol,
		From:   p.From,
		To:     p.To,
		Count:  len(bars),
		Bars:   bars,
	}, nil
}
