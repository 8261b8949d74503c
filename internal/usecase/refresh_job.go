package usecase

import (
	"context"
	"fmt"

	"SharePulse/internal/domain/models"
	domrepo "SharePulse/internal/domain/repository"
	applogger "SharePulse/pkg/logger"
	"SharePulse/pkg/queue"
)

// RefreshJobType is the queue message type for symbol refreshes.
const RefreshJobType = "refresh_symbol"

// RefreshPayload carries one scheduled refresh request.
type RefreshPayload struct {
	Symbol  string  `json:"symbol"`
	Months  int     `json:"months"`
	Monthly float64 `json:"monthly"`
	Model   string  `json:"model"`
}

// RefreshJob re-fetches one symbol's history, persists the bars, and
// regenerates its analysis report (publishing it when configured).
type RefreshJob struct {
	analyzer *StockAnalyzer
	writer   domrepo.BarWriter
	l        *applogger.Logger
}

func NewRefreshJob(analyzer *StockAnalyzer, writer domrepo.BarWriter, lgr *applogger.Logger) *RefreshJob {
	return &RefreshJob{analyzer: analyzer, writer: writer, l: lgr}
}

func (j *RefreshJob) Name() string { return "symbol-refresh" }

func (j *RefreshJob) Type() string { return RefreshJobType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("refresh payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("refresh payload missing symbol")
	}
	if p.Months <= 0 {
		p.Months = 6
	}
	if p.Monthly <= 0 {
		p.Monthly = 1000
	}

	bars, err := j.analyzer.market.History(ctx, p.Symbol, j.analyzer.rng)
	if err != nil {
		return fmt.Errorf("refresh history %s: %w", p.Symbol, err)
	}
	if j.writer != nil && len(bars) > 0 {
		if err := j.writer.StoreBars(ctx, bars); err != nil {
			// Persisting is best effort; the report can still be rebuilt.
			j.l.Warn("refresh bar persist failed",
				applogger.String("symbol", p.Symbol),
				applogger.Error(err))
		}
	}

	report, err := j.analyzer.Refresh(ctx, models.AnalysisRequest{
		Symbol:  p.Symbol,
		Months:  p.Months,
		Monthly: p.Monthly,
		Model:   p.Model,
	})
	if err != nil {
		return fmt.Errorf("refresh analyze %s: %w", p.Symbol, err)
	}

	j.l.Info("symbol refreshed",
		applogger.String("symbol", p.Symbol),
		applogger.String("label", report.Recommendation.Label),
		applogger.Float64("return_pct", report.Investment.ReturnPercent))
	return nil
}

var _ queue.Job = (*RefreshJob)(nil)
