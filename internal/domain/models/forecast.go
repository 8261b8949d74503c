package models

import "time"

// FeatureVector is one row of regressors derived from a daily bar.
type FeatureVector struct {
	DayIndex  int     // zero-based step count, trading gaps compressed
	Month     int     // 1-12
	DayOfWeek int     // Monday == 0
	MA50      float64
	MA200     float64
	Vol30     float64 // 30-period rolling std of close
}

// ForecastResult holds aligned projection series. Invariant at every step:
// 0 <= Lower[i] <= Median[i] <= Upper[i].
type ForecastResult struct {
	Dates  []time.Time `json:"dates"`
	Median []float64   `json:"median"`
	Lower  []float64   `json:"lower"`
	Upper  []float64   `json:"upper"`
}

func (r ForecastResult) Len() int { return len(r.Median) }

func (r ForecastResult) Empty() bool { return len(r.Median) == 0 }

// ForecastOutcome is the explicit result of a forecast attempt. Available
// is false when the input series is too short or fitting degenerated; an
// unavailable forecast is a normal state, not an error.
type ForecastOutcome struct {
	Available bool           `json:"available"`
	Model     string         `json:"model,omitempty"`
	Result    ForecastResult `json:"result,omitempty"`
}

// InvestmentOutcome summarises a simulated monthly contribution plan.
// TotalInvested is exactly MonthlyAmount * Periods.
type InvestmentOutcome struct {
	TotalInvested float64 `json:"total_invested"`
	TotalProfit   float64 `json:"total_profit"`
	ReturnPercent float64 `json:"return_percentage"`
	Periods       int     `json:"periods"`
	MonthlyAmount float64 `json:"monthly_amount"`
	FinalValue    float64 `json:"final_value"`
	SharesAccrued float64 `json:"shares_accrued"`
}

// Recommendation labels, ordered from strongest to weakest.
const (
	LabelStrongBuy = "Strong Buy"
	LabelBuy       = "Buy"
	LabelHold      = "Hold"
	LabelWatch     = "Watch"
)

type Recommendation struct {
	Label   string   `json:"label"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// AnalysisReport is the full per-symbol output served over HTTP and
// published to Kafka.
type AnalysisReport struct {
	Symbol         string            `json:"symbol"`
	GeneratedAt    time.Time         `json:"generated_at"`
	LastClose      float64           `json:"last_close"`
	HorizonMonths  int               `json:"horizon_months"`
	Forecast       ForecastOutcome   `json:"forecast"`
	Investment     InvestmentOutcome `json:"investment"`
	Recommendation Recommendation    `json:"recommendation"`
}
