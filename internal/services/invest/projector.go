package invest

import (
	"time"

	"SharePulse/internal/domain/models"
)

// Project simulates a fixed monthly contribution plan against a forecast
// path. The path is resampled to one price per calendar month (the last
// value in each month). Every period counts toward the invested total; a
// non-positive period price buys no shares and the running value carries
// over unchanged.
func Project(dates []time.Time, prices []float64, monthly float64) models.InvestmentOutcome {
	if len(dates) == 0 || len(prices) == 0 || monthly <= 0 {
		return models.InvestmentOutcome{MonthlyAmount: monthly}
	}

	periods := resampleMonthly(dates, prices)
	shares := 0.0
	value := 0.0
	for _, p := range periods {
		if p > 0 {
			shares += monthly / p
			value = shares * p
		}
	}

	invested := monthly * float64(len(periods))
	profit := value - invested
	pct := 0.0
	if invested > 0 {
		pct = profit / invested * 100
	}
	return models.InvestmentOutcome{
		TotalInvested: invested,
		TotalProfit:   profit,
		ReturnPercent: pct,
		Periods:       len(periods),
		MonthlyAmount: monthly,
		FinalValue:    value,
		SharesAccrued: shares,
	}
}

// ProjectResult applies Project to the median path of a forecast. An
// unavailable or empty forecast yields the zero outcome.
func ProjectResult(out models.ForecastOutcome, monthly float64) models.InvestmentOutcome {
	if !out.Available || out.Result.Empty() {
		return models.InvestmentOutcome{MonthlyAmount: monthly}
	}
	return Project(out.Result.Dates, out.Result.Median, monthly)
}

// resampleMonthly keeps the last value of each calendar month, in series
// order.
func resampleMonthly(dates []time.Time, prices []float64) []float64 {
	n := len(dates)
	if len(prices) < n {
		n = len(prices)
	}
	var out []float64
	for i := 0; i < n; i++ {
		y, m, _ := dates[i].Date()
		if i+1 < n {
			ny, nm, _ := dates[i+1].Date()
			if ny == y && nm == m {
				continue
			}
		}
		out = append(out, prices[i])
	}
	return out
}
