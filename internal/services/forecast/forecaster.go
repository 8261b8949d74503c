package forecast

import (
	"SharePulse/internal/domain/models"
	domsvc "SharePulse/internal/domain/service"
	"SharePulse/internal/services/features"
	applogger "SharePulse/pkg/logger"
)

// Steps generated per horizon month by each model kind. The linear model
// walks calendar days; the ensemble walks trading days.
const (
	stepsPerMonthLinear   = 30
	stepsPerMonthEnsemble = 21
)

// MinBars is the smallest series the pipeline will fit; below it the
// rolling features carry no information.
const MinBars = features.WindowVol

// Config drives a forecasting pipeline instance.
type Config struct {
	Model       string // KindLinear | KindEnsemble
	Bands       string // BandAnalytic | BandEmpirical
	Confidence  float64
	Simulations int
	Seed        int64
	Trees       int
	MaxDepth    int
}

// Pipeline runs sanitize -> features -> fit -> project -> bands for one
// model kind. It never returns an error: bad input or a failed fit maps
// to an unavailable outcome, and panics are recovered at this boundary.
type Pipeline struct {
	cfg Config
	l   *applogger.Logger
}

func New(cfg Config, l *applogger.Logger) *Pipeline {
	if cfg.Confidence <= 0 || cfg.Confidence >= 1 {
		cfg.Confidence = 0.95
	}
	if cfg.Simulations <= 0 {
		cfg.Simulations = 1000
	}
	if cfg.Model == "" {
		cfg.Model = KindLinear
	}
	if cfg.Bands == "" {
		cfg.Bands = BandAnalytic
	}
	return &Pipeline{cfg: cfg, l: l}
}

func (p *Pipeline) Forecast(bars []models.Bar, months int) (out models.ForecastOutcome) {
	defer func() {
		if r := recover(); r != nil {
			if p.l != nil {
				p.l.Error("forecast pipeline panic", applogger.Any("panic", r))
			}
			out = models.ForecastOutcome{Available: false, Model: p.cfg.Model}
		}
	}()

	out = models.ForecastOutcome{Available: false, Model: p.cfg.Model}
	if months <= 0 {
		return out
	}
	bars = models.SanitizeBars(bars)
	if len(bars) < MinBars {
		return out
	}

	feats := features.Build(bars)
	closes := models.Closes(bars)

	var (
		model    TrendModel
		steps    int
		business bool
	)
	switch p.cfg.Model {
	case KindEnsemble:
		model = NewEnsemble(p.cfg.Trees, p.cfg.MaxDepth, p.cfg.Seed)
		steps = months * stepsPerMonthEnsemble
		business = true
	default:
		model = NewLinear()
		steps = months * stepsPerMonthLinear
	}

	if err := model.Fit(feats, closes); err != nil {
		if p.l != nil {
			p.l.Warn("model fit failed", applogger.Error(err), applogger.String("model", p.cfg.Model))
		}
		return out
	}

	lastBar := bars[len(bars)-1]
	dates, future := futureSteps(lastBar.Date, feats[len(feats)-1], steps, business)
	preds := model.Predict(future)

	var median, lower, upper []float64
	switch p.cfg.Bands {
	case BandEmpirical:
		fitted := model.Predict(feats)
		residuals := make([]float64, len(closes))
		for i := range closes {
			residuals[i] = closes[i] - fitted[i]
		}
		median, lower, upper = EmpiricalBands(preds, residuals, p.cfg.Simulations, p.cfg.Seed)
	default:
		median = preds
		lower, upper = AnalyticBands(preds, p.cfg.Confidence)
		clampBands(lower, median, upper)
	}

	out.Available = true
	out.Result = models.ForecastResult{Dates: dates, Median: median, Lower: lower, Upper: upper}
	return out
}

var _ domsvc.Forecaster = (*Pipeline)(nil)
