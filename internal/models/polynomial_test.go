package models

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// linearMileageData builds targets linear in the first feature with mild
// noise, the setting where cross-validation should keep degree 1.
func linearMileageData(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		mileage := 10 + rng.Float64()*200
		hp := 100 + rng.Float64()*150
		accident := float64(rng.Intn(2))
		year := float64(2005 + rng.Intn(18))
		X[i] = []float64{mileage, hp, accident, year}
		y[i] = 500 + 30*mileage + rng.NormFloat64()*3
	}
	return X, y
}

func TestPolynomialSelectsDegreeOneOnLinearData(t *testing.T) {
	X, y := linearMileageData(400, 9)

	m := NewPolynomialModel([]string{"Mileage", "Horsepower", "Accident", "ModelYear"})
	m.Seed = 42
	require.NoError(t, m.Fit(X, y))

	require.Equal(t, 1, m.Degree())
	require.Len(t, m.CVErrors, 5)
	require.False(t, math.IsInf(m.CVErrors[0], 1))

	pred := m.Predict(X)
	require.Len(t, pred, len(X))
}

func TestPolynomialFoldsReproduciblePerSeed(t *testing.T) {
	X, y := linearMileageData(200, 4)
	names := []string{"Mileage", "Horsepower", "Accident", "ModelYear"}

	a := NewPolynomialModel(names)
	a.Seed = 123
	require.NoError(t, a.Fit(X, y))

	b := NewPolynomialModel(names)
	b.Seed = 123
	require.NoError(t, b.Fit(X, y))

	require.Equal(t, a.CVErrors, b.CVErrors)
	require.Equal(t, a.Degree(), b.Degree())
}

func TestPolynomialRejectsTinyDataset(t *testing.T) {
	X := [][]float64{{1, 2, 0, 2010}, {2, 3, 1, 2011}}
	m := NewPolynomialModel(nil)
	require.ErrorIs(t, m.Fit(X, []float64{1, 2}), ErrDegenerate)
}
