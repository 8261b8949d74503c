package usecase

import (
	"context"
	"sync"
	"time"

	"SharePulse/internal/domain/models"
	"SharePulse/pkg/util"
)

// PortfolioUseCase fans one analysis out across a set of symbols.
type PortfolioUseCase struct {
	analyzer *StockAnalyzer
	maxPar   int
}

func NewPortfolioUseCase(analyzer *StockAnalyzer) *PortfolioUseCase {
	return &PortfolioUseCase{analyzer: analyzer, maxPar: 8}
}

// PortfolioResult aggregates per-symbol reports. Symbols that failed
// carry their error message instead of a report; the aggregate totals
// cover the successes only.
type PortfolioResult struct {
	GeneratedAt       time.Time                         `json:"generated_at"`
	Reports           map[string]*models.AnalysisReport `json:"reports"`
	Errors            map[string]string                 `json:"errors,omitempty"`
	TotalInvested     float64                           `json:"total_invested"`
	TotalProfit       float64                           `json:"total_profit"`
	WeightedReturnPct float64                           `json:"weighted_return_percentage"`
}

// Analyze runs per-symbol analyses in parallel and aggregates totals.
// The weighted return is profit over invested across all successes.
func (uc *PortfolioUseCase) Analyze(ctx context.Context, req models.PortfolioRequest) (*PortfolioResult, error) {
	symbols := util.SplitSymbols(req.Symbols)

	res := &PortfolioResult{
		GeneratedAt: time.Now().UTC(),
		Reports:     make(map[string]*models.AnalysisReport, len(symbols)),
		Errors:      make(map[string]string),
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, uc.maxPar)
	)
	for _, sym := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := uc.analyzer.Analyze(ctx, models.AnalysisRequest{
				Symbol:  symbol,
				Months:  req.Months,
				Monthly: req.Monthly,
				Model:   req.Model,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors[symbol] = err.Error()
				return
			}
			res.Reports[symbol] = report
			res.TotalInvested += report.Investment.TotalInvested
			res.TotalProfit += report.Investment.TotalProfit
		}(sym)
	}
	wg.Wait()

	if res.TotalInvested > 0 {
		res.WeightedReturnPct = res.TotalProfit / res.TotalInvested * 100
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
