package service

import (
	"context"

	"SharePulse/internal/domain/models"
)

// MarketData fetches historical series and fundamental metrics from the
// upstream provider.
type MarketData interface {
	History(ctx context.Context, symbol, rng string) ([]models.Bar, error)
	Fundamentals(ctx context.Context, symbol string) (models.Fundamentals, error)
}

// Forecaster turns a daily close series into a forward projection with
// confidence bands. Insufficient input yields an unavailable outcome,
// never an error.
type Forecaster interface {
	Forecast(bars []models.Bar, months int) models.ForecastOutcome
}
