package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SharePulse/internal/domain/models"
	drepo "SharePulse/internal/domain/repository"
	domsvc "SharePulse/internal/domain/service"
	svccache "SharePulse/internal/service/cache"
	"SharePulse/internal/services/advise"
	"SharePulse/internal/services/forecast"
	"SharePulse/internal/services/invest"
	applogger "SharePulse/pkg/logger"
)

// AnalyzerOption configures StockAnalyzer.
type AnalyzerOption func(*StockAnalyzer)

// WithPublisher enables best-effort report publishing.
func WithPublisher(pub drepo.Publisher) AnalyzerOption {
	return func(a *StockAnalyzer) { a.pub = pub }
}

// WithReportCache sets the memo cache and TTL for finished reports.
func WithReportCache(c svccache.BytesCache, ttl time.Duration) AnalyzerOption {
	return func(a *StockAnalyzer) {
		a.cache = c
		a.reportTTL = ttl
	}
}

// WithRange sets the provider history range (default "5y").
func WithRange(rng string) AnalyzerOption {
	return func(a *StockAnalyzer) {
		if rng != "" {
			a.rng = rng
		}
	}
}

// StockAnalyzer runs the full per-symbol flow: history and fundamentals
// from the provider, forecast, contribution projection, recommendation.
// Finished reports are memoised and, when a publisher is configured,
// pushed to Kafka best-effort.
type StockAnalyzer struct {
	market    domsvc.MarketData
	linear    domsvc.Forecaster
	ensemble  domsvc.Forecaster
	pub       drepo.Publisher
	cache     svccache.BytesCache
	l         *applogger.Logger
	rng       string
	reportTTL time.Duration
}

func NewStockAnalyzer(market domsvc.MarketData, linear, ensemble domsvc.Forecaster, lgr *applogger.Logger, opts ...AnalyzerOption) *StockAnalyzer {
	a := &StockAnalyzer{
		market:    market,
		linear:    linear,
		ensemble:  ensemble,
		l:         lgr,
		rng:       "5y",
		reportTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ForecastResponse wraps a forecast outcome with its request context.
type ForecastResponse struct {
	Symbol   string                 `json:"symbol"`
	Months   int                    `json:"months"`
	Model    string                 `json:"model"`
	Forecast models.ForecastOutcome `json:"forecast"`
}

// Forecast produces a projection for one symbol. An unavailable outcome
// is a valid response; only provider failures surface as errors.
func (a *StockAnalyzer) Forecast(ctx context.Context, req models.ForecastRequest) (*ForecastResponse, error) {
	bars, err := a.market.History(ctx, req.Symbol, a.rng)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", req.Symbol, err)
	}

	out := a.forecaster(req.Model).Forecast(bars, req.Months)
	return &ForecastResponse{
		Symbol:   req.Symbol,
		Months:   req.Months,
		Model:    out.Model,
		Forecast: out,
	}, nil
}

// Analyze builds the full report for one symbol, reusing a memoised
// copy when one is fresh enough.
func (a *StockAnalyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisReport, error) {
	return a.analyze(ctx, req, false)
}

// Refresh rebuilds the report ignoring any memoised copy.
func (a *StockAnalyzer) Refresh(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisReport, error) {
	return a.analyze(ctx, req, true)
}

func (a *StockAnalyzer) analyze(ctx context.Context, req models.AnalysisRequest, force bool) (*models.AnalysisReport, error) {
	key := fmt.Sprintf("report:%s:%d:%.2f:%s", req.Symbol, req.Months, req.Monthly, req.Model)
	if a.cache != nil && !force {
		if b, ok, _ := a.cache.GetBytes(key); ok {
			var cached models.AnalysisReport
			if err := json.Unmarshal(b, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	bars, err := a.market.History(ctx, req.Symbol, a.rng)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", req.Symbol, err)
	}

	fund, err := a.market.Fundamentals(ctx, req.Symbol)
	if err != nil {
		// Fundamentals degrade to neutral; the forecast still stands.
		a.l.Warn("fundamentals unavailable",
			applogger.String("symbol", req.Symbol),
			applogger.Error(err))
		fund = models.Fundamentals{}
	}

	clean := models.SanitizeBars(bars)
	lastClose := 0.0
	if len(clean) > 0 {
		lastClose = clean[len(clean)-1].Close
	}

	out := a.forecaster(req.Model).Forecast(bars, req.Months)
	inv := invest.ProjectResult(out, req.Monthly)
	rec := advise.Score(fund, inv.ReturnPercent)

	report := &models.AnalysisReport{
		Symbol:         req.Symbol,
		GeneratedAt:    time.Now().UTC(),
		LastClose:      lastClose,
		HorizonMonths:  req.Months,
		Forecast:       out,
		Investment:     inv,
		Recommendation: rec,
	}

	if a.cache != nil {
		if b, err := json.Marshal(report); err == nil {
			_ = a.cache.SetBytes(key, b, a.reportTTL)
		}
	}

	if a.pub != nil {
		if err := a.pub.PublishReport(ctx, report); err != nil {
			a.l.Warn("report publish failed",
				applogger.String("symbol", req.Symbol),
				applogger.Error(err))
		}
	}

	return report, nil
}

func (a *StockAnalyzer) forecaster(model string) domsvc.Forecaster {
	if model == forecast.KindEnsemble && a.ensemble != nil {
		return a.ensemble
	}
	return a.linear
}
