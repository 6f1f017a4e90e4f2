package models

import "errors"

// Model is the shared fitting contract. Predict returns one value per input
// row, in row order.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
	Name() string
}

var (
	// ErrRankDeficient means the design matrix could not be solved.
	ErrRankDeficient = errors.New("design matrix is rank deficient")
	// ErrNonPositiveTarget means a log-scale fit saw a target <= 0.
	ErrNonPositiveTarget = errors.New("target must be positive for log transform")
	// ErrDegenerate covers other numeric degeneracies that make one fitter
	// unavailable without aborting the run.
	ErrDegenerate = errors.New("degenerate input for fitter")
)
