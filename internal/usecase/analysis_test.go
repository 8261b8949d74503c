package usecase

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"SharePulse/internal/domain/models"
	svccache "SharePulse/internal/service/cache"
	"SharePulse/internal/services/forecast"
	applogger "SharePulse/pkg/logger"
)

type stubMarket struct {
	historyCalls int64
	failSymbols  map[string]bool
	fundErr      error
}

func (m *stubMarket) History(_ context.Context, symbol, _ string) ([]models.Bar, error) {
	atomic.AddInt64(&m.historyCalls, 1)
	if m.failSymbols[symbol] {
		return nil, fmt.Errorf("provider 500 for %s", symbol)
	}
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 300)
	for i := range bars {
		price := 400 + float64(i)*0.5 + 3*math.Sin(float64(i)/7)
		bars[i] = models.Bar{
			Symbol: symbol,
			Date:   start.AddDate(0, 0, i),
			Open:   price - 1,
			High:   price + 2,
			Low:    price - 2,
			Close:  price,
			Volume: 100000,
		}
	}
	return bars, nil
}

func (m *stubMarket) Fundamentals(context.Context, string) (models.Fundamentals, error) {
	if m.fundErr != nil {
		return nil, m.fundErr
	}
	return models.Fundamentals{
		models.KeyPERatio:       12,
		models.KeyDividendYield: 0.03,
	}, nil
}

func newTestAnalyzer(t *testing.T, market *stubMarket, opts ...AnalyzerOption) *StockAnalyzer {
	t.Helper()
	lgr, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	linear := forecast.New(forecast.Config{Model: forecast.KindLinear}, lgr)
	ensemble := forecast.New(forecast.Config{Model: forecast.KindEnsemble, Trees: 10, MaxDepth: 3, Seed: 1, Simulations: 200}, lgr)
	return NewStockAnalyzer(market, linear, ensemble, lgr, opts...)
}

func TestAnalyzeProducesReport(t *testing.T) {
	a := newTestAnalyzer(t, &stubMarket{})

	report, err := a.Analyze(context.Background(), models.AnalysisRequest{
		Symbol: "AGL", Months: 6, Monthly: 1000, Model: "linear",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !report.Forecast.Available {
		t.Fatal("expected an available forecast for 300 bars")
	}
	if report.LastClose <= 0 {
		t.Fatalf("last close not set: %v", report.LastClose)
	}
	if report.Investment.Periods < 6 {
		t.Fatalf("expected at least 6 contribution periods, got %d", report.Investment.Periods)
	}
	if want := 1000 * float64(report.Investment.Periods); report.Investment.TotalInvested != want {
		t.Fatalf("invested %v does not match %d periods of 1000", report.Investment.TotalInvested, report.Investment.Periods)
	}
	if report.Recommendation.Label == "" {
		t.Fatal("recommendation label empty")
	}
}

func TestAnalyzeMemoisesReports(t *testing.T) {
	market := &stubMarket{}
	a := newTestAnalyzer(t, market, WithReportCache(svccache.NewTTLCache(), time.Minute))
	req := models.AnalysisRequest{Symbol: "AGL", Months: 6, Monthly: 1000, Model: "linear"}

	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("first Analyze: %v", err)
	}
	calls := atomic.LoadInt64(&market.historyCalls)
	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if got := atomic.LoadInt64(&market.historyCalls); got != calls {
		t.Fatalf("expected memoised report, provider called %d -> %d times", calls, got)
	}
}

func TestRefreshBypassesMemo(t *testing.T) {
	market := &stubMarket{}
	a := newTestAnalyzer(t, market, WithReportCache(svccache.NewTTLCache(), time.Minute))
	req := models.AnalysisRequest{Symbol: "AGL", Months: 6, Monthly: 1000, Model: "linear"}

	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	calls := atomic.LoadInt64(&market.historyCalls)
	if _, err := a.Refresh(context.Background(), req); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := atomic.LoadInt64(&market.historyCalls); got == calls {
		t.Fatal("Refresh should refetch history")
	}
}

func TestAnalyzeDegradesWithoutFundamentals(t *testing.T) {
	a := newTestAnalyzer(t, &stubMarket{fundErr: fmt.Errorf("metrics endpoint down")})

	report, err := a.Analyze(context.Background(), models.AnalysisRequest{
		Symbol: "AGL", Months: 6, Monthly: 1000, Model: "linear",
	})
	if err != nil {
		t.Fatalf("Analyze should tolerate missing fundamentals: %v", err)
	}
	if !report.Forecast.Available {
		t.Fatal("forecast should still be available")
	}
}

func TestPortfolioAggregates(t *testing.T) {
	market := &stubMarket{failSymbols: map[string]bool{"BAD": true}}
	uc := NewPortfolioUseCase(newTestAnalyzer(t, market))

	res, err := uc.Analyze(context.Background(), models.PortfolioRequest{
		Symbols: "AGL, SOL, BAD", Months: 6, Monthly: 1000, Model: "linear",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(res.Reports))
	}
	if res.Errors["BAD"] == "" {
		t.Fatalf("expected an error entry for BAD, got %v", res.Errors)
	}
	if res.TotalInvested <= 0 {
		t.Fatalf("expected positive invested total, got %v", res.TotalInvested)
	}
	wantWeighted := res.TotalProfit / res.TotalInvested * 100
	if math.Abs(res.WeightedReturnPct-wantWeighted) > 1e-9 {
		t.Fatalf("weighted return mismatch: %v vs %v", res.WeightedReturnPct, wantWeighted)
	}
}
