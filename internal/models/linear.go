package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is ordinary least squares with an intercept. Fields are
// exported for gob persistence.
type LinearModel struct {
	FeatureNames []string
	// Coef holds the intercept first, then one coefficient per feature.
	Coef []float64
}

func NewLinearModel(featureNames []string) *LinearModel {
	return &LinearModel{FeatureNames: featureNames}
}

func (m *LinearModel) Name() string { return "LinearRegression" }

func (m *LinearModel) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || len(y) != n {
		return fmt.Errorf("%w: %d rows, %d targets", ErrDegenerate, n, len(y))
	}
	p := len(X[0]) + 1
	if n < p {
		return fmt.Errorf("%w: %d rows for %d parameters", ErrRankDeficient, n, p)
	}

	d := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		d.Set(i, 0, 1)
		for j, v := range X[i] {
			d.Set(i, j+1, v)
		}
	}
	b := mat.NewDense(n, 1, nil)
	for i, v := range y {
		b.Set(i, 0, v)
	}

	var qr mat.QR
	qr.Factorize(d)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return fmt.Errorf("%w: %v", ErrRankDeficient, err)
	}

	m.Coef = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Coef[j] = beta.At(j, 0)
	}
	return nil
}

func (m *LinearModel) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		v := m.Coef[0]
		for j, x := range row {
			v += m.Coef[j+1] * x
		}
		out[i] = v
	}
	return out
}

// Coefficients returns a copy of the fitted parameter vector, intercept first.
func (m *LinearModel) Coefficients() []float64 {
	out := make([]float64, len(m.Coef))
	copy(out, m.Coef)
	return out
}
