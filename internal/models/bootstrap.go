package models

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BootstrapResult holds the resampled coefficient distribution for the
// standard linear fit. Vectors carry the intercept first, matching
// LinearModel.Coefficients.
type BootstrapResult struct {
	// Coefficients has one fitted vector per successful resample.
	Coefficients [][]float64
	Mean         []float64
	Lower        []float64
	Upper        []float64
	Confidence   float64
	Failed       int
}

// Bootstrap draws iterations samples of len(y) rows with replacement, refits
// ordinary least squares on each, and reports percentile confidence intervals
// per coefficient. A rank-deficient resample is skipped and counted in
// Failed; the resampler keeps drawing until it has the requested number of
// fits or has attempted twice that. Deterministic for a fixed seed.
func Bootstrap(X [][]float64, y []float64, iterations int, confidence float64, seed int64) (*BootstrapResult, error) {
	n := len(X)
	if n == 0 || len(y) != n {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrDegenerate, n, len(y))
	}
	if iterations <= 0 {
		iterations = 1000
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	rng := rand.New(rand.NewSource(seed))
	res := &BootstrapResult{Confidence: confidence}
	for attempts := 0; len(res.Coefficients) < iterations && attempts < 2*iterations; attempts++ {
		Xb := make([][]float64, n)
		yb := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			Xb[i] = X[j]
			yb[i] = y[j]
		}
		lin := NewLinearModel(nil)
		if err := lin.Fit(Xb, yb); err != nil {
			res.Failed++
			continue
		}
		res.Coefficients = append(res.Coefficients, lin.Coef)
	}
	if len(res.Coefficients) == 0 {
		return nil, fmt.Errorf("%w: every bootstrap resample was rank deficient", ErrDegenerate)
	}

	p := len(res.Coefficients[0])
	res.Mean = make([]float64, p)
	res.Lower = make([]float64, p)
	res.Upper = make([]float64, p)
	alpha := (1 - confidence) / 2
	samples := make([]float64, len(res.Coefficients))
	for j := 0; j < p; j++ {
		for i, c := range res.Coefficients {
			samples[i] = c[j]
		}
		sort.Float64s(samples)
		res.Mean[j] = stat.Mean(samples, nil)
		res.Lower[j] = stat.Quantile(alpha, stat.Empirical, samples, nil)
		res.Upper[j] = stat.Quantile(1-alpha, stat.Empirical, samples, nil)
	}
	return res, nil
}
