package advise

import (
	"SharePulse/internal/domain/models"
)

// Rule thresholds. Yield is a fraction (0.05 == 5%), return a percentage.
const (
	peAttractiveMax = 15.0
	peModerateMax   = 25.0
	yieldHighMin    = 0.05
	yieldModerate   = 0.02
	returnStrongPct = 20.0
	returnModerate  = 10.0
)

// Score applies the fixed rule set to fundamentals and the forecast
// return. Missing fundamentals read as zero and score nothing. A panic
// anywhere inside is recovered into the Hold fallback with no reasons.
func Score(f models.Fundamentals, forecastReturnPct float64) (rec models.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			rec = models.Recommendation{Label: models.LabelHold, Reasons: []string{}}
		}
	}()

	score := 0
	reasons := []string{}

	pe := f[models.KeyPERatio]
	switch {
	case pe > 0 && pe <= peAttractiveMax:
		score += 2
		reasons = append(reasons, "Attractive P/E ratio")
	case pe > peAttractiveMax && pe <= peModerateMax:
		score++
		reasons = append(reasons, "Moderate P/E ratio")
	}

	yield := f[models.KeyDividendYield]
	switch {
	case yield > yieldHighMin:
		score += 2
		reasons = append(reasons, "High dividend yield")
	case yield >= yieldModerate:
		score++
		reasons = append(reasons, "Moderate dividend yield")
	}

	switch {
	case forecastReturnPct > returnStrongPct:
		score += 2
		reasons = append(reasons, "Strong forecasted returns")
	case forecastReturnPct >= returnModerate:
		score++
		reasons = append(reasons, "Moderate forecasted returns")
	}

	return models.Recommendation{Label: label(score), Score: score, Reasons: reasons}
}

func label(score int) string {
	switch {
	case score >= 4:
		return models.LabelStrongBuy
	case score >= 2:
		return models.LabelBuy
	case score >= 1:
		return models.LabelHold
	default:
		return models.LabelWatch
	}
}
