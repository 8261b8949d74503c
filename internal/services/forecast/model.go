package forecast

import (
	"time"

	"SharePulse/internal/domain/models"
	"SharePulse/internal/services/features"
)

// Model kinds selectable via config or request.
const (
	KindLinear   = "linear"
	KindEnsemble = "ensemble"
)

// Band policies.
const (
	BandAnalytic  = "analytic"
	BandEmpirical = "empirical"
)

// TrendModel fits a regression on feature vectors and predicts closes.
type TrendModel interface {
	Fit(feats []models.FeatureVector, closes []float64) error
	Predict(feats []models.FeatureVector) []float64
}

// futureSteps extends the training sequence with `steps` future feature
// vectors. The day index keeps counting, calendar fields come from the
// generated dates, and the rolling features are held at their last
// historical value since the model does not forecast its own regressors.
// With businessDays set, Saturdays and Sundays are skipped.
func futureSteps(lastDate time.Time, last models.FeatureVector, steps int, businessDays bool) ([]time.Time, []models.FeatureVector) {
	dates := make([]time.Time, 0, steps)
	feats := make([]models.FeatureVector, 0, steps)
	d := lastDate
	idx := last.DayIndex
	for len(dates) < steps {
		d = d.AddDate(0, 0, 1)
		if businessDays {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		idx++
		dates = append(dates, d)
		feats = append(feats, models.FeatureVector{
			DayIndex:  idx,
			Month:     int(d.Month()),
			DayOfWeek: features.Weekday(d),
			MA50:      last.MA50,
			MA200:     last.MA200,
			Vol30:     last.Vol30,
		})
	}
	return dates, feats
}

// featurize flattens a vector into the regressor row the models consume.
func featurize(fv models.FeatureVector) []float64 {
	return []float64{
		float64(fv.DayIndex),
		float64(fv.Month),
		float64(fv.DayOfWeek),
		fv.MA50,
		fv.MA200,
		fv.Vol30,
	}
}

const numFeatures = 6
