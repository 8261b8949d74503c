package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"SharePulse/internal/domain/models"
	"SharePulse/internal/services/features"
)

// Linear is a least-squares trend model over standardized features. A
// small ridge term keeps the normal equations solvable when early rows
// share backfilled rolling values and columns become collinear.
type Linear struct {
	lambda float64
	mean   []float64
	std    []float64
	beta   []float64 // intercept first
}

func NewLinear() *Linear {
	return &Linear{lambda: 1e-6}
}

// Fit estimates coefficients from the given rows. Standardization stats
// come from the training rows only; zero-variance columns standardize
// with a unit divisor.
func (m *Linear) Fit(feats []models.FeatureVector, closes []float64) error {
	n := len(feats)
	if n == 0 || n != len(closes) {
		return fmt.Errorf("linear fit: %d feature rows vs %d targets", n, len(closes))
	}

	m.mean = make([]float64, numFeatures)
	m.std = make([]float64, numFeatures)
	cols := make([][]float64, numFeatures)
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	for i, fv := range feats {
		for j, v := range featurize(fv) {
			cols[j][i] = v
		}
	}
	for j := 0; j < numFeatures; j++ {
		m.mean[j] = colMean(cols[j])
		m.std[j] = features.Std(cols[j])
		if m.std[j] == 0 {
			m.std[j] = 1
		}
	}

	// Design matrix with intercept column.
	x := mat.NewDense(n, numFeatures+1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j := 0; j < numFeatures; j++ {
			x.Set(i, j+1, (cols[j][i]-m.mean[j])/m.std[j])
		}
		y.Set(i, 0, closes[i])
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j <= numFeatures; j++ {
		xtx.Set(j, j, xtx.At(j, j)+m.lambda)
	}
	var xty mat.Dense
	xty.Mul(x.T(), y)

	var beta mat.Dense
	if err := beta.Solve(&xtx, &xty); err != nil {
		return fmt.Errorf("linear fit: solve normal equations: %w", err)
	}

	m.beta = make([]float64, numFeatures+1)
	for j := range m.beta {
		m.beta[j] = beta.At(j, 0)
	}
	return nil
}

// Predict evaluates the fitted model on the given rows. Must be called
// after a successful Fit.
func (m *Linear) Predict(feats []models.FeatureVector) []float64 {
	out := make([]float64, len(feats))
	for i, fv := range feats {
		yhat := m.beta[0]
		for j, v := range featurize(fv) {
			yhat += m.beta[j+1] * (v - m.mean[j]) / m.std[j]
		}
		out[i] = yhat
	}
	return out
}

func colMean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

var _ TrendModel = (*Linear)(nil)
