package models

import (
	"fmt"
	"math"
)

// LogLinearModel fits ordinary least squares on the natural log of the
// target. Predictions are back-transformed with exp, so they compare directly
// against raw prices.
type LogLinearModel struct {
	Lin *LinearModel
}

func NewLogLinearModel(featureNames []string) *LogLinearModel {
	return &LogLinearModel{Lin: NewLinearModel(featureNames)}
}

func (m *LogLinearModel) Name() string { return "LogLinearRegression" }

func (m *LogLinearModel) Fit(X [][]float64, y []float64) error {
	logy := make([]float64, len(y))
	for i, v := range y {
		if v <= 0 {
			return fmt.Errorf("%w: y[%d] = %g", ErrNonPositiveTarget, i, v)
		}
		logy[i] = math.Log(v)
	}
	return m.Lin.Fit(X, logy)
}

func (m *LogLinearModel) Predict(X [][]float64) []float64 {
	out := m.Lin.Predict(X)
	for i, v := range out {
		out[i] = math.Exp(v)
	}
	return out
}
