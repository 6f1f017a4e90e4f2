package models

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearModelRecoversCoefficients(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	X := make([][]float64, 60)
	y := make([]float64, 60)
	for i := range X {
		a := rng.Float64() * 10
		b := rng.Float64() * 5
		X[i] = []float64{a, b}
		y[i] = 7 + 2*a - 3*b
	}

	m := NewLinearModel([]string{"a", "b"})
	require.NoError(t, m.Fit(X, y))

	coef := m.Coefficients()
	require.Len(t, coef, 3)
	require.InDelta(t, 7, coef[0], 1e-8)
	require.InDelta(t, 2, coef[1], 1e-8)
	require.InDelta(t, -3, coef[2], 1e-8)

	pred := m.Predict(X)
	require.Len(t, pred, len(X))
	for i := range pred {
		require.InDelta(t, y[i], pred[i], 1e-6)
	}
}

func TestLinearModelRankDeficient(t *testing.T) {
	// duplicated column makes the design singular
	X := make([][]float64, 20)
	y := make([]float64, 20)
	for i := range X {
		v := float64(i)
		X[i] = []float64{v, v}
		y[i] = v
	}
	m := NewLinearModel(nil)
	require.ErrorIs(t, m.Fit(X, y), ErrRankDeficient)
}

func TestLinearModelTooFewRows(t *testing.T) {
	m := NewLinearModel(nil)
	require.ErrorIs(t, m.Fit([][]float64{{1, 2, 3}}, []float64{1}), ErrRankDeficient)
}

func TestLogLinearModel(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	X := make([][]float64, 50)
	y := make([]float64, 50)
	for i := range X {
		v := rng.Float64() * 4
		X[i] = []float64{v}
		y[i] = math.Exp(1.5 + 0.5*v)
	}

	m := NewLogLinearModel([]string{"v"})
	require.NoError(t, m.Fit(X, y))
	pred := m.Predict(X)
	for i := range pred {
		require.InDelta(t, y[i], pred[i], 1e-6*y[i])
	}
}

func TestLogLinearModelRejectsNonPositiveTarget(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	m := NewLogLinearModel(nil)
	require.ErrorIs(t, m.Fit(X, []float64{10, 0, 20}), ErrNonPositiveTarget)
	require.ErrorIs(t, m.Fit(X, []float64{10, -5, 20}), ErrNonPositiveTarget)
}
