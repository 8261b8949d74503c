package repository

import (
	"context"
	"time"

	"SharePulse/internal/domain/models"
)

// BarStore provides read access to stored end-of-day bars.
type BarStore interface {
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int) ([]models.Bar, error)
}

// BarWriter persists end-of-day bars arriving from the ingest path.
type BarWriter interface {
	StoreBars(ctx context.Context, bars []models.Bar) error
}
